package mzml

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/arloliu/mzml/errs"
)

// findAttr looks up an attribute by local name.
func findAttr(start xml.StartElement, name string) (string, bool) {
	for _, attr := range start.Attr {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}

	return "", false
}

// requireAttr returns the named attribute's value, or
// errs.ErrMissingAttribute identifying the element and attribute.
func requireAttr(start xml.StartElement, name string) (string, error) {
	value, ok := findAttr(start, name)
	if !ok {
		return "", fmt.Errorf("%w: %s on <%s>", errs.ErrMissingAttribute, name, start.Name.Local)
	}

	return value, nil
}

// optionalAttr returns the named attribute's value, or "" when absent.
func optionalAttr(start xml.StartElement, name string) string {
	value, _ := findAttr(start, name)
	return value
}

// requireIntAttr returns the named attribute parsed as a non-negative
// integer. A missing attribute is errs.ErrMissingAttribute; a value that
// does not parse, or is negative, is errs.ErrMalformedNumber.
func requireIntAttr(start xml.StartElement, name string) (int, error) {
	value, err := requireAttr(start, name)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q on <%s>", errs.ErrMalformedNumber, name, value, start.Name.Local)
	}

	return n, nil
}

// parseCvParam builds a CvParam from a cvParam element's attributes.
func parseCvParam(start xml.StartElement) (CvParam, error) {
	cvRef, err := requireAttr(start, "cvRef")
	if err != nil {
		return CvParam{}, err
	}

	accession, err := requireAttr(start, "accession")
	if err != nil {
		return CvParam{}, err
	}

	name, err := requireAttr(start, "name")
	if err != nil {
		return CvParam{}, err
	}

	return CvParam{
		CvRef:         cvRef,
		Accession:     accession,
		Name:          name,
		Value:         optionalAttr(start, "value"),
		UnitName:      optionalAttr(start, "unitName"),
		UnitAccession: optionalAttr(start, "unitAccession"),
		UnitCvRef:     optionalAttr(start, "unitCvRef"),
	}, nil
}
