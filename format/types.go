package format

type (
	CompressionType uint8
	PrecisionType   uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZlib CompressionType = 0x2 // CompressionZlib represents zlib/deflate compression.
	CompressionZstd CompressionType = 0x3 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x4 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x5 // CompressionLZ4 represents LZ4 compression.

	PrecisionFloat32 PrecisionType = 0x1 // PrecisionFloat32 represents 4-byte IEEE-754 values.
	PrecisionFloat64 PrecisionType = 0x2 // PrecisionFloat64 represents 8-byte IEEE-754 values.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZlib:
		return "Zlib"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (p PrecisionType) String() string {
	switch p {
	case PrecisionFloat32:
		return "32-bit float"
	case PrecisionFloat64:
		return "64-bit float"
	default:
		return "Unknown"
	}
}

// ElementSize returns the byte width of a single value of this precision,
// or 0 for an unknown precision.
func (p PrecisionType) ElementSize() int {
	switch p {
	case PrecisionFloat32:
		return 4
	case PrecisionFloat64:
		return 8
	default:
		return 0
	}
}
