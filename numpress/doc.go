// Package numpress implements the MS-Numpress linear and short logged
// float (slof) codecs used for mass-spectrometry numeric arrays.
//
// Both codecs scale doubles by a fixed point before packing:
//
//   - Linear: values are multiplied by the fixed point, truncated to
//     integers, and stored as the difference from a linear extrapolation
//     of the two preceding values. Differences are packed as variable
//     length half-byte sequences, so regularly spaced m/z arrays shrink
//     to roughly one byte per value.
//   - Slof: ln(value+1) is scaled by the fixed point and stored as an
//     unsigned 16-bit integer, a lossy two-byte representation suited to
//     intensity arrays with a large dynamic range.
//
// Every byte stream starts with the fixed point itself, stored as a
// little-endian IEEE-754 double, so decoding needs no out-of-band state.
// Use OptimalLinearFixedPoint and OptimalSlofFixedPoint to derive a fixed
// point that maximizes precision without overflowing the packed integers.
//
// All functions are pure and safe for concurrent use.
package numpress
