// Package errs defines the sentinel errors shared across the mzml packages.
//
// Call sites wrap these with fmt.Errorf("...: %w", ...) to attach the
// element, attribute, or array context, so callers can both match with
// errors.Is and diagnose a failure without re-parsing the document.
package errs

import "errors"

// Document walker errors.
var (
	// ErrMissingAttribute indicates a required XML attribute is absent.
	ErrMissingAttribute = errors.New("missing required attribute")

	// ErrMalformedNumber indicates an attribute expected to be a
	// non-negative integer failed to parse.
	ErrMalformedNumber = errors.New("malformed numeric attribute")

	// ErrNoRunElement indicates the token stream ended without ever
	// opening a run element.
	ErrNoRunElement = errors.New("no run element found")

	// ErrArrayLengthMismatch indicates a decoded binary array's length
	// differs from the spectrum's declared defaultArrayLength.
	// Only reported when the length check option is enabled.
	ErrArrayLengthMismatch = errors.New("decoded array length mismatch")
)

// Binary payload errors.
var (
	// ErrBase64Decode indicates the binary element text is not valid base64.
	ErrBase64Decode = errors.New("invalid base64 payload")

	// ErrDecompression indicates the selected decompression codec rejected
	// its input.
	ErrDecompression = errors.New("payload decompression failed")

	// ErrUnknownPrecision indicates the precision hint is not a recognized
	// controlled-vocabulary precision name.
	ErrUnknownPrecision = errors.New("unknown precision")

	// ErrMissingPrecision indicates no precision CvParam was present and
	// the parser was configured to treat that as fatal.
	ErrMissingPrecision = errors.New("no precision cvParam found")

	// ErrTruncatedArray indicates the decompressed byte count is not a
	// multiple of the element size implied by the precision.
	ErrTruncatedArray = errors.New("truncated binary array")
)

// Run blob cache errors.
var (
	// ErrInvalidMagicNumber indicates the blob does not start with the
	// run cache magic number.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrInvalidHeaderSize indicates the blob is shorter than the fixed
	// header size.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidHeaderFlags indicates the header carries an unknown
	// compression or reserved flag bits.
	ErrInvalidHeaderFlags = errors.New("invalid header flags")

	// ErrInvalidIndexOffset indicates the index section offset points
	// outside the blob.
	ErrInvalidIndexOffset = errors.New("invalid index section offset")

	// ErrInvalidPayloadOffset indicates the payload section offset points
	// outside the blob.
	ErrInvalidPayloadOffset = errors.New("invalid payload section offset")

	// ErrInvalidIndexEntry indicates an index entry references bytes
	// outside the decompressed payload section.
	ErrInvalidIndexEntry = errors.New("invalid index entry")

	// ErrSpectrumNotFound indicates a lookup for a spectrum identifier
	// that is not present in the blob index.
	ErrSpectrumNotFound = errors.New("spectrum not found")

	// ErrHashCollision indicates two distinct spectrum identifiers hash
	// to the same 64-bit ID during cache encoding.
	ErrHashCollision = errors.New("spectrum ID hash collision")
)
