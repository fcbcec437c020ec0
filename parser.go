package mzml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/mzml/errs"
	"github.com/arloliu/mzml/internal/options"
	"github.com/arloliu/mzml/payload"
)

// parserConfig carries the per-parse policy knobs.
type parserConfig struct {
	strictPrecision  bool
	checkArrayLength bool
}

// ParseOption configures a single Parse call.
type ParseOption = options.Option[*parserConfig]

// WithStrictPrecision makes the absence of a precision CvParam on a
// binary-data-array a hard error instead of silently assuming
// "32-bit float". The permissive default matches the historical parser
// behavior.
func WithStrictPrecision() ParseOption {
	return options.NoError(func(cfg *parserConfig) {
		cfg.strictPrecision = true
	})
}

// WithArrayLengthCheck verifies that every decoded binary array has
// exactly the enclosing spectrum's defaultArrayLength elements.
func WithArrayLengthCheck() ParseOption {
	return options.NoError(func(cfg *parserConfig) {
		cfg.checkArrayLength = true
	})
}

// parserContext holds the walker's in-progress slots, one per nesting
// level actually used by the schema. It is private to a single Parse
// call; the walker is single-threaded and consumes each token exactly
// once in document order.
type parserContext struct {
	cfg parserConfig

	run        *Run
	spectra    []Spectrum
	spectrum   *Spectrum
	cvParams   []CvParam // staging, flushed into the spectrum on close
	scanList   *ScanList
	scan       *Scan
	scanWindow *ScanWindow
	array      *BinaryDataArray
}

// Parse consumes a complete mzML document and returns its Run.
//
// The walk is single-pass with no lookahead: element-open, element-close,
// and text tokens from the XML decoder drive a nested-context state
// machine that materializes exactly the Run/Spectrum/BinaryDataArray
// shape, never a generic XML tree. Binary payloads are decoded in place
// as their binary elements are consumed.
//
// Any malformed element, attribute, or payload aborts the parse; there is
// no partial-result recovery. A document without a run element fails with
// errs.ErrNoRunElement.
func Parse(r io.Reader, opts ...ParseOption) (*Run, error) {
	cfg := parserConfig{}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	ctx := &parserContext{cfg: cfg}
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml token stream: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := ctx.open(dec, t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			ctx.close(t)
		}
	}

	if ctx.run == nil {
		return nil, errs.ErrNoRunElement
	}

	return ctx.run, nil
}

// open handles an element-open token.
func (ctx *parserContext) open(dec *xml.Decoder, start xml.StartElement) error {
	switch start.Name.Local {
	case "run":
		id, err := requireAttr(start, "id")
		if err != nil {
			return err
		}
		startTime, err := requireAttr(start, "startTimeStamp")
		if err != nil {
			return err
		}
		ctx.run = &Run{ID: id, StartTimeStamp: startTime}
	case "spectrum":
		id, err := requireAttr(start, "id")
		if err != nil {
			return err
		}
		index, err := requireIntAttr(start, "index")
		if err != nil {
			return err
		}
		length, err := requireIntAttr(start, "defaultArrayLength")
		if err != nil {
			return err
		}
		ctx.spectrum = &Spectrum{ID: id, Index: index, DefaultArrayLength: length}
	case "scanList":
		count, err := requireIntAttr(start, "count")
		if err != nil {
			return err
		}
		ctx.scanList = &ScanList{Count: count}
	case "scan":
		ctx.scan = &Scan{}
	case "scanWindow":
		ctx.scanWindow = &ScanWindow{}
	case "cvParam":
		param, err := parseCvParam(start)
		if err != nil {
			return err
		}
		ctx.addCvParam(param)
	case "binaryDataArray":
		encodedLength, err := requireIntAttr(start, "encodedLength")
		if err != nil {
			return err
		}
		ctx.array = &BinaryDataArray{EncodedLength: encodedLength}
	case "binary":
		return ctx.readBinary(dec)
	}

	return nil
}

// close handles an element-close token. Closes for metadata-only
// elements not listed here are no-ops.
func (ctx *parserContext) close(end xml.EndElement) {
	switch end.Name.Local {
	case "spectrum":
		if ctx.spectrum != nil {
			ctx.spectrum.CvParams = ctx.cvParams
			ctx.spectra = append(ctx.spectra, *ctx.spectrum)
			ctx.cvParams = nil
			ctx.spectrum = nil
		}
	case "scanWindow":
		if ctx.scanWindow != nil && ctx.scan != nil {
			ctx.scan.ScanWindows = append(ctx.scan.ScanWindows, *ctx.scanWindow)
		}
		ctx.scanWindow = nil
	case "scan":
		if ctx.scan != nil && ctx.scanList != nil {
			ctx.scanList.Scans = append(ctx.scanList.Scans, *ctx.scan)
		}
		ctx.scan = nil
	case "scanList":
		if ctx.scanList != nil && ctx.spectrum != nil {
			ctx.spectrum.ScanList = ctx.scanList
		}
		ctx.scanList = nil
	case "binaryDataArray":
		if ctx.array != nil && ctx.spectrum != nil {
			ctx.spectrum.BinaryDataArrays = append(ctx.spectrum.BinaryDataArrays, *ctx.array)
		}
		ctx.array = nil
	case "run":
		if ctx.run != nil {
			ctx.run.Spectra = ctx.spectra
		}
	}
}

// addCvParam routes a parsed CvParam to the innermost open context.
// Binary-data-array params must be attached immediately, not staged,
// because the binary element reads them before the array closes.
func (ctx *parserContext) addCvParam(param CvParam) {
	switch {
	case ctx.array != nil:
		ctx.array.CvParams = append(ctx.array.CvParams, param)
	case ctx.scanWindow != nil:
		ctx.scanWindow.CvParams = append(ctx.scanWindow.CvParams, param)
	case ctx.scan != nil:
		ctx.scan.CvParams = append(ctx.scan.CvParams, param)
	case ctx.scanList != nil:
		ctx.scanList.CvParams = append(ctx.scanList.CvParams, param)
	default:
		ctx.cvParams = append(ctx.cvParams, param)
	}
}

// readBinary consumes a binary element's text, infers the compression
// and precision hints from the enclosing array's CvParams, and decodes
// the payload in place.
func (ctx *parserContext) readBinary(dec *xml.Decoder) error {
	text, err := readElementText(dec)
	if err != nil {
		return fmt.Errorf("binary element: %w", err)
	}

	if ctx.array == nil {
		// binary outside a binaryDataArray carries nothing we track
		return nil
	}

	compression := inferCompression(ctx.array.CvParams)
	precision, found := inferPrecision(ctx.array.CvParams)
	if !found {
		if ctx.cfg.strictPrecision {
			return ctx.arrayError(errs.ErrMissingPrecision)
		}
		precision = payload.Precision32Bit
	}

	values, err := payload.Decode(text, compression, precision)
	if err != nil {
		return ctx.arrayError(err)
	}

	if ctx.cfg.checkArrayLength && ctx.spectrum != nil && len(values) != ctx.spectrum.DefaultArrayLength {
		return ctx.arrayError(fmt.Errorf("%w: decoded %d values, declared %d",
			errs.ErrArrayLengthMismatch, len(values), ctx.spectrum.DefaultArrayLength))
	}

	ctx.array.Data = values

	return nil
}

// arrayError wraps a payload failure with enough context to identify
// which array failed without re-parsing.
func (ctx *parserContext) arrayError(err error) error {
	spectrumID := ""
	arrayIndex := 0
	if ctx.spectrum != nil {
		spectrumID = ctx.spectrum.ID
		arrayIndex = len(ctx.spectrum.BinaryDataArrays)
	}

	return fmt.Errorf("spectrum %q binary array %d: %w", spectrumID, arrayIndex, err)
}

// readElementText collects the character data up to the current
// element's close tag. The close token is consumed.
func readElementText(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return strings.TrimSpace(sb.String()), nil
		}
	}
}
