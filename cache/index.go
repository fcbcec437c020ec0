package cache

import (
	"github.com/arloliu/mzml/endian"
	"github.com/arloliu/mzml/errs"
)

// IndexEntry records one binary array in the blob index section.
// It is a fixed size of 16 bytes.
type IndexEntry struct {
	// SpectrumID is the xxHash64 of the owning spectrum's identifier
	// string. Consecutive entries with the same ID are that spectrum's
	// arrays in document order.
	//
	// Offset: 0, Size: 8 bytes
	SpectrumID uint64

	// Offset is the byte offset of the array's first value within the
	// decompressed payload section.
	//
	// Offset: 8, Size: 4 bytes
	Offset uint32

	// Count is the number of float32 values in the array.
	//
	// Offset: 12, Size: 4 bytes
	Count uint32
}

// AppendBytes serializes the entry and appends it to dst.
func (e IndexEntry) AppendBytes(dst []byte, engine endian.EndianEngine) []byte {
	dst = engine.AppendUint64(dst, e.SpectrumID)
	dst = engine.AppendUint32(dst, e.Offset)
	dst = engine.AppendUint32(dst, e.Count)

	return dst
}

// ParseIndexEntry parses one entry from data.
func ParseIndexEntry(data []byte, engine endian.EndianEngine) (IndexEntry, error) {
	if len(data) < IndexEntrySize {
		return IndexEntry{}, errs.ErrInvalidIndexEntry
	}

	return IndexEntry{
		SpectrumID: engine.Uint64(data[0:8]),
		Offset:     engine.Uint32(data[8:12]),
		Count:      engine.Uint32(data[12:16]),
	}, nil
}

// validate checks that the entry's span lies inside the decompressed
// payload section.
func (e IndexEntry) validate(payloadLen int) error {
	end := int64(e.Offset) + int64(e.Count)*4
	if end > int64(payloadLen) {
		return errs.ErrInvalidIndexEntry
	}

	return nil
}
