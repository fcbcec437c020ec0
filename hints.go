package mzml

import (
	"strings"

	"github.com/arloliu/mzml/payload"
)

// The binary payload decoder is driven by two hints inferred from the
// CvParams accumulated on the enclosing binaryDataArray. The substring
// matching below is deliberately loose: it is coupled to the PSI-MS
// controlled-vocabulary naming conventions ("zlib compression",
// "64-bit float", "MS-Numpress linear prediction compression", ...),
// and kept in one place so the rule can be tightened to exact accession
// matching without touching the walker.

// inferCompression returns the name of the first CvParam whose name
// contains "compression" or names a supported decompression scheme
// outright, or "" when no such param exists.
func inferCompression(params []CvParam) string {
	for _, p := range params {
		if strings.Contains(p.Name, "compression") || payload.KnownCompression(p.Name) {
			return p.Name
		}
	}

	return ""
}

// inferPrecision returns the name of the first CvParam whose name
// contains "32-bit" or "64-bit". The second result reports whether such
// a param was found; the caller decides between the permissive 32-bit
// default and a hard error.
func inferPrecision(params []CvParam) (string, bool) {
	for _, p := range params {
		if strings.Contains(p.Name, "32-bit") || strings.Contains(p.Name, "64-bit") {
			return p.Name, true
		}
	}

	return "", false
}
