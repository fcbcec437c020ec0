package numpress

import (
	"errors"
	"math"

	"github.com/arloliu/mzml/endian"
)

var (
	// ErrCorruptInput indicates a byte stream that is truncated or not
	// produced by the matching encoder.
	ErrCorruptInput = errors.New("numpress: corrupt input")

	// ErrInvalidFixedPoint indicates a non-positive fixed point.
	ErrInvalidFixedPoint = errors.New("numpress: fixed point must be positive")

	// ErrValueOutOfRange indicates a value whose packed representation
	// does not fit the codec's integer range at the given fixed point.
	ErrValueOutOfRange = errors.New("numpress: value out of range for fixed point")
)

var engine = endian.GetLittleEndianEngine()

// fixedPointBytes is the size of the fixed-point preamble on every stream.
const fixedPointBytes = 8

// halfByteWriter packs 4-bit values into a byte slice, high nibble first.
type halfByteWriter struct {
	buf  []byte
	half bool
}

func (w *halfByteWriter) push(hb byte) {
	if !w.half {
		w.buf = append(w.buf, hb<<4)
		w.half = true
		return
	}

	w.buf[len(w.buf)-1] |= hb & 0xf
	w.half = false
}

// halfByteReader consumes 4-bit values from a byte slice, high nibble first.
type halfByteReader struct {
	data []byte
	pos  int
	half bool
}

func (r *halfByteReader) next() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrCorruptInput
	}

	if !r.half {
		r.half = true
		return r.data[r.pos] >> 4, nil
	}

	hb := r.data[r.pos] & 0xf
	r.half = false
	r.pos++

	return hb, nil
}

// trailingPad reports whether the reader sits on the final padding nibble
// the encoder appends when the half-byte count is odd.
func (r *halfByteReader) trailingPad() bool {
	return r.pos == len(r.data)-1 && r.half && r.data[r.pos]&0xf == 0
}

// encodeInt packs a 32-bit integer as a count head followed by its
// significant half-bytes, least significant first.
//
// The head half-byte encodes how many leading half-bytes were stripped:
// 0-8 for leading zeros, 9-15 for 1-7 leading 0xf half-bytes of a
// negative value.
func encodeInt(w *halfByteWriter, x int32) {
	ux := uint32(x)
	init := ux & 0xf0000000

	switch init {
	case 0:
		l := 8
		for i := 0; i < 8; i++ {
			if ux&(0xf0000000>>(4*i)) != 0 {
				l = i
				break
			}
		}
		w.push(byte(l))
		for i := l; i < 8; i++ {
			w.push(byte(ux >> (4 * (i - l)) & 0xf))
		}
	case 0xf0000000:
		l := 7
		for i := 0; i < 8; i++ {
			m := uint32(0xf0000000) >> (4 * i)
			if ux&m != m {
				l = i
				break
			}
		}
		w.push(byte(l + 8))
		for i := l; i < 8; i++ {
			w.push(byte(ux >> (4 * (i - l)) & 0xf))
		}
	default:
		w.push(0)
		for i := 0; i < 8; i++ {
			w.push(byte(ux >> (4 * i) & 0xf))
		}
	}
}

// decodeInt is the inverse of encodeInt.
func decodeInt(r *halfByteReader) (int32, error) {
	head, err := r.next()
	if err != nil {
		return 0, err
	}

	var res uint32
	var n int
	if head <= 8 {
		n = int(head)
	} else {
		// n leading 0xf half-bytes of a negative value
		n = int(head) - 8
		for i := 0; i < n; i++ {
			res |= 0xf0000000 >> (4 * i)
		}
	}

	if n == 8 {
		return 0, nil
	}

	for i := n; i < 8; i++ {
		hb, err := r.next()
		if err != nil {
			return 0, err
		}
		res |= uint32(hb) << (4 * (i - n))
	}

	return int32(res), nil
}

func encodeFixedPoint(dst []byte, fixedPoint float64) []byte {
	return engine.AppendUint64(dst, math.Float64bits(fixedPoint))
}

func decodeFixedPoint(data []byte) float64 {
	return math.Float64frombits(engine.Uint64(data[:fixedPointBytes]))
}

// OptimalLinearFixedPoint computes the largest fixed point whose scaled
// extrapolation differences still fit a signed 32-bit integer for the
// given data.
func OptimalLinearFixedPoint(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	if len(data) == 1 {
		return math.Floor(0x7FFFFFFF / data[0])
	}

	maxDouble := math.Max(data[0], data[1])
	for i := 2; i < len(data); i++ {
		extrapol := data[i-1] + (data[i-1] - data[i-2])
		diff := data[i] - extrapol
		maxDouble = math.Max(maxDouble, math.Ceil(math.Abs(diff)+1))
	}

	return math.Floor(0x7FFFFFFF / maxDouble)
}

// OptimalSlofFixedPoint computes the largest fixed point whose scaled
// logarithms still fit an unsigned 16-bit integer for the given data.
func OptimalSlofFixedPoint(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	maxDouble := 1.0
	for _, v := range data {
		maxDouble = math.Max(maxDouble, math.Log(v+1))
	}

	return math.Floor(0xFFFF / maxDouble)
}

// EncodeLinear encodes data using linear prediction with the given fixed
// point.
//
// Layout: 8-byte fixed point, two 4-byte little-endian truncated start
// values, then one variable-length packed integer per remaining value
// holding the difference from the linear extrapolation of the previous
// two. An odd half-byte count is padded with a zero nibble.
func EncodeLinear(data []float64, fixedPoint float64) ([]byte, error) {
	if fixedPoint <= 0 {
		return nil, ErrInvalidFixedPoint
	}

	buf := encodeFixedPoint(make([]byte, 0, fixedPointBytes+8+len(data)), fixedPoint)
	if len(data) == 0 {
		return buf, nil
	}

	i1 := int64(data[0]*fixedPoint + 0.5)
	buf = engine.AppendUint32(buf, uint32(i1))
	if len(data) == 1 {
		return buf, nil
	}

	i2 := int64(data[1]*fixedPoint + 0.5)
	buf = engine.AppendUint32(buf, uint32(i2))

	w := &halfByteWriter{buf: buf}
	for i := 2; i < len(data); i++ {
		i0 := i1
		i1 = i2
		i2 = int64(data[i]*fixedPoint + 0.5)

		extrapol := i1 + (i1 - i0)
		diff := i2 - extrapol
		if diff < math.MinInt32 || diff > math.MaxInt32 {
			return nil, ErrValueOutOfRange
		}
		encodeInt(w, int32(diff))
	}

	return w.buf, nil
}

// DecodeLinear decodes a byte stream produced by EncodeLinear.
func DecodeLinear(data []byte) ([]float64, error) {
	if len(data) < fixedPointBytes {
		return nil, ErrCorruptInput
	}

	fixedPoint := decodeFixedPoint(data)
	if len(data) == fixedPointBytes {
		return []float64{}, nil
	}
	if len(data) < fixedPointBytes+4 {
		return nil, ErrCorruptInput
	}

	result := make([]float64, 0, (len(data)-fixedPointBytes)/2)

	i0 := int64(engine.Uint32(data[8:12]))
	result = append(result, float64(i0)/fixedPoint)
	if len(data) == 12 {
		return result, nil
	}
	if len(data) < 16 {
		return nil, ErrCorruptInput
	}

	i1 := int64(engine.Uint32(data[12:16]))
	result = append(result, float64(i1)/fixedPoint)

	r := &halfByteReader{data: data, pos: 16}
	for r.pos < len(data) {
		if r.trailingPad() {
			break
		}

		diff, err := decodeInt(r)
		if err != nil {
			return nil, err
		}

		extrapol := i1 + (i1 - i0)
		y := extrapol + int64(diff)
		result = append(result, float64(y)/fixedPoint)
		i0, i1 = i1, y
	}

	return result, nil
}

// EncodeSlof encodes data as short logged floats with the given fixed
// point.
//
// Layout: 8-byte fixed point, then one little-endian uint16 per value
// holding ln(value+1) scaled by the fixed point. The representation is
// lossy.
func EncodeSlof(data []float64, fixedPoint float64) ([]byte, error) {
	if fixedPoint <= 0 {
		return nil, ErrInvalidFixedPoint
	}

	buf := encodeFixedPoint(make([]byte, 0, fixedPointBytes+2*len(data)), fixedPoint)
	for _, v := range data {
		x := math.Log(v+1)*fixedPoint + 0.5
		if math.IsNaN(x) || x < 0 || x >= 0x10000 {
			return nil, ErrValueOutOfRange
		}
		buf = engine.AppendUint16(buf, uint16(x))
	}

	return buf, nil
}

// DecodeSlof decodes a byte stream produced by EncodeSlof.
func DecodeSlof(data []byte) ([]float64, error) {
	if len(data) < fixedPointBytes || (len(data)-fixedPointBytes)%2 != 0 {
		return nil, ErrCorruptInput
	}

	fixedPoint := decodeFixedPoint(data)
	result := make([]float64, 0, (len(data)-fixedPointBytes)/2)
	for i := fixedPointBytes; i < len(data); i += 2 {
		x := float64(engine.Uint16(data[i : i+2]))
		result = append(result, math.Exp(x/fixedPoint)-1)
	}

	return result, nil
}
