// Package payload turns the base64 text of an mzML binary element into a
// typed numeric array.
//
// Decode is a pure function; the document walker calls it once per binary
// payload, and nothing prevents decoding the arrays of different spectra
// concurrently once their CvParam metadata has been collected.
package payload

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/mzml/compress"
	"github.com/arloliu/mzml/endian"
	"github.com/arloliu/mzml/errs"
	"github.com/arloliu/mzml/format"
	"github.com/arloliu/mzml/numpress"
)

// Canonical names of the supported decompression schemes. Dispatch
// recognizes both these short forms and the full PSI-MS controlled
// vocabulary terms that contain them ("zlib compression", "MS-Numpress
// linear prediction compression", "MS-Numpress short logged float
// compression"); any other compression tag passes bytes through
// unchanged.
const (
	CompressionZlib           = "zlib"
	CompressionNumpressLinear = "MS-Numpress linear"
	CompressionNumpressSlof   = "MS-Numpress slof"
)

// Controlled-vocabulary names that select a precision. Matching is exact;
// any other precision tag is an error.
const (
	Precision32Bit = "32-bit float"
	Precision64Bit = "64-bit float"
)

var engine = endian.GetLittleEndianEngine()

// Decode converts a base64-encoded binary payload into float32 values.
//
// The pipeline is strictly ordered: base64 decode, decompress according
// to the compression tag, then reinterpret the bytes as little-endian
// IEEE-754 values according to the precision tag. 64-bit input values are
// narrowed to float32 in the output.
//
// An empty compression tag, or one naming no known codec, passes the raw
// bytes through unchanged. A decompressed byte count that is not a
// multiple of the precision's element size is a hard error
// (errs.ErrTruncatedArray), never silently truncated.
func Decode(encoded string, compression string, precision string) ([]float32, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrBase64Decode, err)
	}

	data, err := decompress(raw, compression)
	if err != nil {
		return nil, err
	}

	return reinterpret(data, precision)
}

// KnownCompression reports whether the tag names a supported
// decompression scheme.
func KnownCompression(tag string) bool {
	return schemeOf(tag) != ""
}

// schemeOf maps a compression CvParam name to a canonical scheme name,
// or "" when the tag selects no decompression.
func schemeOf(tag string) string {
	switch {
	case strings.Contains(tag, CompressionNumpressLinear):
		return CompressionNumpressLinear
	case strings.Contains(tag, "slof"), strings.Contains(tag, "short logged float"):
		return CompressionNumpressSlof
	case strings.Contains(tag, CompressionZlib):
		return CompressionZlib
	default:
		return ""
	}
}

// decompress dispatches on the compression CvParam name.
//
// The numpress codecs decode to float64 values; per the mzML convention
// those are re-serialized as 8-byte little-endian doubles so the
// precision stage below applies uniformly.
func decompress(raw []byte, compression string) ([]byte, error) {
	switch schemeOf(compression) {
	case CompressionZlib:
		codec, _ := compress.GetCodec(format.CompressionZlib)
		data, err := codec.Decompress(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s", errs.ErrDecompression, CompressionZlib, err)
		}

		return data, nil
	case CompressionNumpressLinear:
		values, err := numpress.DecodeLinear(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s", errs.ErrDecompression, CompressionNumpressLinear, err)
		}

		return float64Bytes(values), nil
	case CompressionNumpressSlof:
		values, err := numpress.DecodeSlof(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s", errs.ErrDecompression, CompressionNumpressSlof, err)
		}

		return float64Bytes(values), nil
	default:
		// No recognized compression tag: raw bytes are the payload.
		return raw, nil
	}
}

// reinterpret chunks data into little-endian IEEE-754 values per the
// precision CvParam name.
func reinterpret(data []byte, precision string) ([]float32, error) {
	switch precision {
	case Precision32Bit:
		if len(data)%4 != 0 {
			return nil, fmt.Errorf("%w: %d bytes is not a multiple of 4", errs.ErrTruncatedArray, len(data))
		}

		values := make([]float32, len(data)/4)
		for i := range values {
			values[i] = math.Float32frombits(engine.Uint32(data[i*4 : i*4+4]))
		}

		return values, nil
	case Precision64Bit:
		if len(data)%8 != 0 {
			return nil, fmt.Errorf("%w: %d bytes is not a multiple of 8", errs.ErrTruncatedArray, len(data))
		}

		values := make([]float32, len(data)/8)
		for i := range values {
			values[i] = float32(math.Float64frombits(engine.Uint64(data[i*8 : i*8+8])))
		}

		return values, nil
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownPrecision, precision)
	}
}

// float64Bytes serializes values as 8-byte little-endian doubles.
func float64Bytes(values []float64) []byte {
	buf := make([]byte, 0, len(values)*8)
	for _, v := range values {
		buf = engine.AppendUint64(buf, math.Float64bits(v))
	}

	return buf
}
