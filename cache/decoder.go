package cache

import (
	"fmt"
	"math"

	"github.com/arloliu/mzml/compress"
	"github.com/arloliu/mzml/endian"
	"github.com/arloliu/mzml/errs"
	"github.com/arloliu/mzml/format"
	"github.com/arloliu/mzml/internal/hash"
)

// Decoder decodes a run cache blob produced by Encoder.
//
// Note: The Decoder is NOT reusable. After calling Decode, a new decoder
// must be created for further decoding.
type Decoder struct {
	data   []byte
	header RunHeader
}

// NewDecoder creates a Decoder for the given blob bytes.
//
// The decoder validates the header and prepares for decoding but does not
// decompress the payload until Decode is called.
func NewDecoder(data []byte) (*Decoder, error) {
	decoder := &Decoder{data: data}
	if err := decoder.header.Parse(data); err != nil {
		return nil, err
	}

	return decoder, nil
}

// Decode parses the index section, decompresses the payload, and returns
// a RunBlob ready for lookups.
func (d *Decoder) Decode() (RunBlob, error) {
	engine := d.header.Flag.GetEndianEngine()
	blob := RunBlob{
		engine:      engine,
		compression: d.header.Flag.Compression(),
		index:       make(map[uint64][]IndexEntry),
	}

	indexOffset := int(d.header.IndexOffset)
	payloadOffset := int(d.header.PayloadOffset)
	indexSize := int(d.header.ArrayCount) * IndexEntrySize
	if indexOffset < HeaderSize || indexOffset+indexSize > len(d.data) {
		return blob, errs.ErrInvalidIndexOffset
	}
	if payloadOffset != indexOffset+indexSize || payloadOffset > len(d.data) {
		return blob, errs.ErrInvalidPayloadOffset
	}

	codec, err := compress.GetCodec(blob.compression)
	if err != nil {
		return blob, err
	}
	payload, err := codec.Decompress(d.data[payloadOffset:])
	if err != nil {
		return blob, fmt.Errorf("decompress run cache payload: %w", err)
	}
	blob.payload = payload

	for i := 0; i < int(d.header.ArrayCount); i++ {
		offset := indexOffset + i*IndexEntrySize
		entry, err := ParseIndexEntry(d.data[offset:offset+IndexEntrySize], engine)
		if err != nil {
			return blob, err
		}
		if err := entry.validate(len(payload)); err != nil {
			return blob, fmt.Errorf("%w: entry %d", errs.ErrInvalidIndexEntry, i)
		}
		blob.index[entry.SpectrumID] = append(blob.index[entry.SpectrumID], entry)
	}
	blob.arrayCount = int(d.header.ArrayCount)

	return blob, nil
}

// RunBlob is a decoded run cache, holding the decompressed payload and
// the per-spectrum index.
//
// A RunBlob is immutable after Decode and safe for concurrent lookups.
type RunBlob struct {
	engine      endian.EndianEngine
	compression format.CompressionType
	payload     []byte
	index       map[uint64][]IndexEntry
	arrayCount  int
}

// Compression returns the payload compression the blob was written with.
func (b RunBlob) Compression() format.CompressionType {
	return b.compression
}

// ArrayCount returns the total number of binary arrays in the blob.
func (b RunBlob) ArrayCount() int {
	return b.arrayCount
}

// SpectrumCount returns the number of distinct spectra in the blob.
func (b RunBlob) SpectrumCount() int {
	return len(b.index)
}

// Has reports whether the blob contains arrays for the given spectrum
// identifier.
func (b RunBlob) Has(spectrumID string) bool {
	_, ok := b.index[hash.ID(spectrumID)]
	return ok
}

// Arrays returns the arrays of the given spectrum identifier in document
// order. Fails with errs.ErrSpectrumNotFound for an unknown identifier.
func (b RunBlob) Arrays(spectrumID string) ([][]float32, error) {
	arrays, err := b.ArraysByID(hash.ID(spectrumID))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errs.ErrSpectrumNotFound, spectrumID)
	}

	return arrays, nil
}

// ArraysByID is like Arrays but takes the spectrum's xxHash64 ID directly.
func (b RunBlob) ArraysByID(id uint64) ([][]float32, error) {
	entries, ok := b.index[id]
	if !ok {
		return nil, errs.ErrSpectrumNotFound
	}

	arrays := make([][]float32, len(entries))
	for i, entry := range entries {
		values := make([]float32, entry.Count)
		for j := range values {
			start := int(entry.Offset) + j*4
			values[j] = math.Float32frombits(b.engine.Uint32(b.payload[start : start+4]))
		}
		arrays[i] = values
	}

	return arrays, nil
}
