// Package mzml parses mzML mass-spectrometry run documents and decodes
// the base64-encoded, optionally compressed numeric arrays they embed.
//
// The parser is a single-pass streaming walker: it consumes the XML
// token stream once, in document order, and materializes a Run value
// holding every Spectrum with its controlled-vocabulary annotations and
// decoded binary arrays. No intermediate XML tree is built.
//
// Binary payloads are decoded through the payload package, which handles
// the zlib and MS-Numpress (linear, slof) compression schemes and both
// 32-bit and 64-bit little-endian floats. Compression and precision are
// inferred from the CvParams attached to each binaryDataArray.
//
// # Basic Usage
//
//	run, err := mzml.ParseBytes(document)
//	if err != nil {
//	    return err
//	}
//	for _, spectrum := range run.Spectra {
//	    mz := spectrum.BinaryDataArrays[0].Data
//	    intensity := spectrum.BinaryDataArrays[1].Data
//	    ...
//	}
//
// Malformed documents fail hard: a missing required attribute, an
// undecodable payload, or a document without a run element aborts the
// parse with a wrapped sentinel from the errs package. No partial Run is
// ever returned.
//
// Parsed runs can be stored in a compact binary form with the cache
// package, avoiding a re-parse of the XML on subsequent loads.
package mzml

import (
	"bytes"
	"strings"
)

// ParseBytes parses a complete in-memory mzML document.
func ParseBytes(data []byte, opts ...ParseOption) (*Run, error) {
	return Parse(bytes.NewReader(data), opts...)
}

// ParseString parses a complete mzML document held in a string.
func ParseString(data string, opts ...ParseOption) (*Run, error) {
	return Parse(strings.NewReader(data), opts...)
}
