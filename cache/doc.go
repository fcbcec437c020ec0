// Package cache stores the decoded binary arrays of a parsed mzML run in
// a compact binary blob, so a run's numeric data can be reopened without
// re-parsing and re-decoding the XML document.
//
// # Layout
//
// A blob has three sections:
//
//	Header  (16 bytes)  magic + flags, array count, section offsets
//	Index   (16 bytes per array)  spectrum ID hash, payload offset, value count
//	Payload (variable)  float32 values, optionally compressed
//
// Spectra are addressed by the xxHash64 of their mzML identifier string.
// Index entries keep document order, so the arrays of one spectrum come
// back in the same order they appeared in the run (conventionally m/z
// first, then intensity). The payload section can be compressed with
// Zstd, S2, or LZ4; the index is always stored raw.
//
// # Usage
//
//	encoder, _ := cache.NewEncoder(cache.WithCompression(format.CompressionZstd))
//	blobBytes, err := encoder.Encode(run)
//
//	decoder, err := cache.NewDecoder(blobBytes)
//	blob, err := decoder.Decode()
//	arrays, err := blob.Arrays("controllerType=0 controllerNumber=1 scan=1")
//
// Hash collisions between distinct spectrum identifiers are detected at
// encode time and reported as errs.ErrHashCollision instead of silently
// merging spectra.
package cache
