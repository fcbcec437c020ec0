// Package compress provides the byte-level compression codecs used by the
// mzml module.
//
// Two consumers share this package:
//
//   - The binary payload decoder uses the Zlib codec for mzML
//     binary-data-array payloads tagged with the "zlib" controlled
//     vocabulary name. The MS-Numpress codecs are not here; they decode
//     to floats rather than bytes and live in the numpress package.
//   - The run cache uses the NoOp, Zstd, S2, and LZ4 codecs for its
//     payload section.
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Codecs are stateless values; use GetCodec for the shared built-in
// instances or CreateCodec to construct one from a format.CompressionType.
//
// All codec implementations are safe for concurrent use.
package compress
