package compress

// ZstdCompressor provides Zstandard compression for run cache payloads.
//
// Zstd trades compression speed for ratio, which fits the cache use case:
// a run is encoded once and decoded many times, and decoded spectra arrays
// compress well.
//
// Two implementations exist behind build tags: a pure-Go one backed by
// klauspost/compress (default) and a cgo one backed by valyala/gozstd
// (build with CGO enabled for higher throughput).
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
