package cache

import (
	"fmt"
	"math"

	"github.com/arloliu/mzml"
	"github.com/arloliu/mzml/compress"
	"github.com/arloliu/mzml/errs"
	"github.com/arloliu/mzml/format"
	"github.com/arloliu/mzml/internal/hash"
	"github.com/arloliu/mzml/internal/options"
)

// Encoder serializes a parsed run's decoded arrays into a cache blob.
//
// An Encoder is stateless between Encode calls and safe to reuse.
type Encoder struct {
	flag RunFlag
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*Encoder]

// WithCompression selects the payload section compression.
// Valid types are None, Zstd, S2, and LZ4.
func WithCompression(compression format.CompressionType) EncoderOption {
	return options.New(func(e *Encoder) error {
		if _, ok := validCompressions[uint8(compression)]; !ok {
			return fmt.Errorf("%w: payload compression %s", errs.ErrInvalidHeaderFlags, compression)
		}
		e.flag.CompressionType = uint8(compression)

		return nil
	})
}

// WithLittleEndian stores multi-byte values in little-endian byte order.
// This is the default.
func WithLittleEndian() EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.flag.SetBigEndian(false)
	})
}

// WithBigEndian stores multi-byte values in big-endian byte order.
func WithBigEndian() EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.flag.SetBigEndian(true)
	})
}

// NewEncoder creates an Encoder with the given options.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	enc := &Encoder{flag: NewRunFlag()}
	if err := options.Apply(enc, opts...); err != nil {
		return nil, err
	}

	return enc, nil
}

// Encode builds a cache blob from the run's decoded binary arrays.
//
// Arrays whose Data is nil (never decoded, i.e. the document carried no
// binary element for them) are skipped. Distinct spectrum identifiers
// hashing to the same 64-bit ID abort the encode with
// errs.ErrHashCollision.
func (e *Encoder) Encode(run *mzml.Run) ([]byte, error) {
	engine := e.flag.GetEndianEngine()

	seen := make(map[uint64]string, len(run.Spectra))
	entries := make([]IndexEntry, 0, 2*len(run.Spectra))
	var payload []byte

	for _, spectrum := range run.Spectra {
		id := hash.ID(spectrum.ID)
		if prev, ok := seen[id]; ok && prev != spectrum.ID {
			return nil, fmt.Errorf("%w: %q and %q", errs.ErrHashCollision, prev, spectrum.ID)
		}
		seen[id] = spectrum.ID

		for _, array := range spectrum.BinaryDataArrays {
			if array.Data == nil {
				continue
			}

			entries = append(entries, IndexEntry{
				SpectrumID: id,
				Offset:     uint32(len(payload)),
				Count:      uint32(len(array.Data)),
			})
			for _, v := range array.Data {
				payload = engine.AppendUint32(payload, math.Float32bits(v))
			}
			if len(payload) > math.MaxUint32 {
				return nil, fmt.Errorf("run cache payload exceeds %d bytes", math.MaxUint32)
			}
		}
	}

	codec, err := compress.CreateCodec(e.flag.Compression(), "run cache payload")
	if err != nil {
		return nil, err
	}
	compressed, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("compress run cache payload: %w", err)
	}

	header := RunHeader{
		Flag:          e.flag,
		ArrayCount:    uint32(len(entries)),
		IndexOffset:   HeaderSize,
		PayloadOffset: HeaderSize + uint32(len(entries))*IndexEntrySize,
	}

	blob := make([]byte, 0, int(header.PayloadOffset)+len(compressed))
	blob = append(blob, header.Bytes()...)
	for _, entry := range entries {
		blob = entry.AppendBytes(blob, engine)
	}
	blob = append(blob, compressed...)

	return blob, nil
}
