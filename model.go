package mzml

// Run is the top-level container of an mzML document: one acquisition
// run and its ordered spectra. A document holds exactly one Run.
type Run struct {
	// ID is the run identifier from the run element's id attribute.
	ID string
	// StartTimeStamp is the run's declared start time, kept as the
	// verbatim attribute text.
	StartTimeStamp string
	// Spectra holds the finished spectra in document order. It is
	// attached when the closing run element is seen.
	Spectra []Spectrum
}

// Spectrum is one recorded scan event.
type Spectrum struct {
	// ID is the spectrum identifier (e.g. "controllerType=0 ... scan=1").
	ID string
	// Index is the zero-based position declared by the document.
	Index int
	// DefaultArrayLength is the expected element count for every binary
	// array in this spectrum.
	DefaultArrayLength int
	// CvParams holds the spectrum-level controlled-vocabulary annotations.
	CvParams []CvParam
	// ScanList holds the nested acquisition parameters, when present.
	ScanList *ScanList
	// BinaryDataArrays holds the spectrum's numeric arrays in document
	// order (conventionally m/z first, then intensity).
	BinaryDataArrays []BinaryDataArray
}

// CvParam is a single controlled-vocabulary annotation. It is immutable
// once parsed, and doubles as the source of compression/precision hints
// for binary arrays.
type CvParam struct {
	CvRef     string
	Accession string
	Name      string
	Value     string

	UnitName      string
	UnitAccession string
	UnitCvRef     string
}

// ScanList groups the scans that produced a spectrum.
type ScanList struct {
	// Count is the declared number of scans.
	Count    int
	CvParams []CvParam
	Scans    []Scan
}

// Scan is one acquisition event inside a ScanList.
type Scan struct {
	CvParams    []CvParam
	ScanWindows []ScanWindow
}

// ScanWindow is an m/z range observed during a scan.
type ScanWindow struct {
	CvParams []CvParam
}

// BinaryDataArray is one encoded numeric array of a spectrum.
type BinaryDataArray struct {
	// EncodedLength is the declared byte length of the base64 text,
	// pre-decode.
	EncodedLength int
	// CvParams carries the array's annotations, including the
	// compression and precision terms the decoder is driven by.
	CvParams []CvParam
	// Data holds the decoded values. It is nil when the array carried no
	// binary element.
	Data []float32
}
