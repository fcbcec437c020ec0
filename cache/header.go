package cache

import (
	"github.com/arloliu/mzml/endian"
	"github.com/arloliu/mzml/errs"
	"github.com/arloliu/mzml/format"
)

const (
	// Bit masks for the packed Options field
	EndiannessMask   = 0x0001 // Mask for endianness bit (bit 0)
	ReservedBitsMask = 0x000E // Mask for reserved bits (bits 1-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicRunV1Opt is the version 1 magic number for the run cache format.
	MagicRunV1Opt = 0xEC10
)

// Offsets and section sizes in the blob
const (
	HeaderSize     = 16 // fixed header size in bytes
	IndexEntrySize = 16 // fixed index entry size in bytes
)

// RunFlag is the packed flags field of the run cache header.
type RunFlag struct {
	// Options is a packed field.
	// Bit 0 is the endianness flag, 0 means little-endian, 1 means big-endian.
	// Bits 1-3 are reserved and must be 0.
	// Bits 4-15 are the magic number 0xEC1 identifying the run cache format.
	Options uint16

	// Reserved must be 0.
	Reserved uint8

	// CompressionType is the compression applied to the payload section.
	CompressionType uint8
}

var validCompressions = map[uint8]struct{}{
	uint8(format.CompressionNone): {},
	uint8(format.CompressionZstd): {},
	uint8(format.CompressionS2):   {},
	uint8(format.CompressionLZ4):  {},
}

// NewRunFlag creates a RunFlag with default settings: little-endian, no
// compression.
func NewRunFlag() RunFlag {
	return RunFlag{
		Options:         MagicRunV1Opt,
		CompressionType: uint8(format.CompressionNone),
	}
}

// Validate checks the magic number, reserved bits, and compression type.
func (f RunFlag) Validate() error {
	if f.Options&MagicNumberMask != MagicRunV1Opt {
		return errs.ErrInvalidMagicNumber
	}
	if f.Options&ReservedBitsMask != 0 || f.Reserved != 0 {
		return errs.ErrInvalidHeaderFlags
	}
	if _, ok := validCompressions[f.CompressionType]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// GetEndianEngine returns the byte order the blob was written with.
func (f RunFlag) GetEndianEngine() endian.EndianEngine {
	if f.Options&EndiannessMask != 0 {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// SetBigEndian flips the endianness bit.
func (f *RunFlag) SetBigEndian(bigEndian bool) {
	if bigEndian {
		f.Options |= EndiannessMask
	} else {
		f.Options &^= EndiannessMask
	}
}

// Compression returns the payload compression type.
func (f RunFlag) Compression() format.CompressionType {
	return format.CompressionType(f.CompressionType)
}

// RunHeader is the fixed-size header at the start of a run cache blob.
type RunHeader struct {
	// Flag is the packed options field. byte offset 0-3
	Flag RunFlag
	// ArrayCount is the number of index entries. byte offset 4-7
	ArrayCount uint32
	// IndexOffset is the byte offset of the index section. byte offset 8-11
	IndexOffset uint32
	// PayloadOffset is the byte offset of the (possibly compressed)
	// payload section. byte offset 12-15
	PayloadOffset uint32
}

// NewRunHeader creates a header with default flags. The array count and
// payload offset are filled in by the encoder.
func NewRunHeader() RunHeader {
	return RunHeader{
		Flag:        NewRunFlag(),
		IndexOffset: HeaderSize,
	}
}

// Parse parses the header from the start of data.
//
// The Options field is always read little-endian; it determines the byte
// order of everything that follows.
func (h *RunHeader) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Flag.Options = uint16(data[0]) | uint16(data[1])<<8
	h.Flag.Reserved = data[2]
	h.Flag.CompressionType = data[3]
	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	h.ArrayCount = engine.Uint32(data[4:8])
	h.IndexOffset = engine.Uint32(data[8:12])
	h.PayloadOffset = engine.Uint32(data[12:16])

	return nil
}

// Bytes serializes the header.
func (h *RunHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.Reserved
	b[3] = h.Flag.CompressionType

	engine := h.Flag.GetEndianEngine()
	engine.PutUint32(b[4:8], h.ArrayCount)
	engine.PutUint32(b[8:12], h.IndexOffset)
	engine.PutUint32(b[12:16], h.PayloadOffset)

	return b
}
