package mzml

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/mzml/compress"
	"github.com/arloliu/mzml/endian"
	"github.com/arloliu/mzml/errs"
	"github.com/arloliu/mzml/numpress"
)

var testEngine = endian.GetLittleEndianEngine()

func encode32(values []float32) string {
	buf := make([]byte, 0, len(values)*4)
	for _, v := range values {
		buf = testEngine.AppendUint32(buf, math.Float32bits(v))
	}

	return base64.StdEncoding.EncodeToString(buf)
}

func encode64(values []float64) string {
	buf := make([]byte, 0, len(values)*8)
	for _, v := range values {
		buf = testEngine.AppendUint64(buf, math.Float64bits(v))
	}

	return base64.StdEncoding.EncodeToString(buf)
}

// arrayXML renders one binaryDataArray with the given CvParam names and
// base64 payload.
func arrayXML(payload string, paramNames ...string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<binaryDataArray encodedLength="%d">`, len(payload))
	for _, name := range paramNames {
		fmt.Fprintf(&sb, `<cvParam cvRef="MS" accession="MS:0000000" name="%s"/>`, name)
	}
	fmt.Fprintf(&sb, `<binary>%s</binary></binaryDataArray>`, payload)

	return sb.String()
}

func spectrumXML(id string, index, length int, body string) string {
	return fmt.Sprintf(`<spectrum id="%s" index="%d" defaultArrayLength="%d">%s</spectrum>`,
		id, index, length, body)
}

func runXML(spectra ...string) string {
	return `<?xml version="1.0" encoding="utf-8"?><mzML>` +
		`<run id="run1" startTimeStamp="2024-01-15T10:00:00Z"><spectrumList count="` +
		fmt.Sprint(len(spectra)) + `">` + strings.Join(spectra, "") +
		`</spectrumList></run></mzML>`
}

func TestParse_SingleSpectrum(t *testing.T) {
	mz := []float32{100.5, 200.25, 300.75}
	doc := runXML(spectrumXML("scan=1", 0, 3, arrayXML(encode32(mz), "m/z array", "32-bit float")))

	run, err := ParseString(doc)
	require.NoError(t, err)
	require.Equal(t, "run1", run.ID)
	require.Equal(t, "2024-01-15T10:00:00Z", run.StartTimeStamp)
	require.Len(t, run.Spectra, 1)

	sp := run.Spectra[0]
	require.Equal(t, "scan=1", sp.ID)
	require.Equal(t, 0, sp.Index)
	require.Equal(t, 3, sp.DefaultArrayLength)
	require.Len(t, sp.BinaryDataArrays, 1)
	require.Equal(t, mz, sp.BinaryDataArrays[0].Data)
	require.Len(t, sp.BinaryDataArrays[0].CvParams, 2)
}

func TestParse_MultipleSpectraDocumentOrder(t *testing.T) {
	var spectra []string
	for i := 0; i < 5; i++ {
		values := []float32{float32(i), float32(i) + 0.5}
		spectra = append(spectra, spectrumXML(fmt.Sprintf("scan=%d", i+1), i, 2,
			arrayXML(encode32(values), "m/z array", "32-bit float")))
	}

	run, err := ParseString(runXML(spectra...))
	require.NoError(t, err)
	require.Len(t, run.Spectra, 5)

	for i, sp := range run.Spectra {
		require.Equal(t, fmt.Sprintf("scan=%d", i+1), sp.ID)
		require.Equal(t, i, sp.Index)
		require.Equal(t, []float32{float32(i), float32(i) + 0.5}, sp.BinaryDataArrays[0].Data)
	}
}

func TestParse_MzAndIntensityArrays(t *testing.T) {
	mz := []float32{400.1, 400.2}
	intensity := []float32{1000, 2000}
	doc := runXML(spectrumXML("scan=1", 0, 2,
		arrayXML(encode32(mz), "m/z array", "32-bit float")+
			arrayXML(encode32(intensity), "intensity array", "32-bit float")))

	run, err := ParseString(doc)
	require.NoError(t, err)

	arrays := run.Spectra[0].BinaryDataArrays
	require.Len(t, arrays, 2)
	require.Equal(t, mz, arrays[0].Data)
	require.Equal(t, intensity, arrays[1].Data)
}

func TestParse_64BitPrecision(t *testing.T) {
	input := []float64{1234.5678, 2345.6789}
	doc := runXML(spectrumXML("scan=1", 0, 2, arrayXML(encode64(input), "m/z array", "64-bit float")))

	run, err := ParseString(doc)
	require.NoError(t, err)

	got := run.Spectra[0].BinaryDataArrays[0].Data
	require.Len(t, got, 2)
	for i, want := range input {
		require.Equal(t, float32(want), got[i])
	}
}

func TestParse_DefaultPrecisionIs32Bit(t *testing.T) {
	values := []float32{1, 2, 3, 4}
	doc := runXML(spectrumXML("scan=1", 0, 4, arrayXML(encode32(values), "m/z array")))

	run, err := ParseString(doc)
	require.NoError(t, err)
	require.Equal(t, values, run.Spectra[0].BinaryDataArrays[0].Data)
}

func TestParse_StrictPrecision(t *testing.T) {
	values := []float32{1, 2}
	doc := runXML(spectrumXML("scan=1", 0, 2, arrayXML(encode32(values), "m/z array")))

	_, err := ParseString(doc, WithStrictPrecision())
	require.ErrorIs(t, err, errs.ErrMissingPrecision)
	require.ErrorContains(t, err, "scan=1")

	// The same document parses under the permissive default.
	_, err = ParseString(doc)
	require.NoError(t, err)
}

func TestParse_ArrayLengthCheck(t *testing.T) {
	values := []float32{1, 2, 3}
	doc := runXML(spectrumXML("scan=1", 0, 5, arrayXML(encode32(values), "32-bit float")))

	_, err := ParseString(doc, WithArrayLengthCheck())
	require.ErrorIs(t, err, errs.ErrArrayLengthMismatch)
	require.ErrorContains(t, err, "decoded 3")
	require.ErrorContains(t, err, "declared 5")

	// Declared length is informational without the option.
	run, err := ParseString(doc)
	require.NoError(t, err)
	require.Equal(t, values, run.Spectra[0].BinaryDataArrays[0].Data)
}

func TestParse_ZlibCompressedArray(t *testing.T) {
	values := []float32{500.5, 501.5, 502.5}

	raw := make([]byte, 0, len(values)*4)
	for _, v := range values {
		raw = testEngine.AppendUint32(raw, math.Float32bits(v))
	}
	compressed, err := compress.NewZlibCompressor().Compress(raw)
	require.NoError(t, err)
	payload := base64.StdEncoding.EncodeToString(compressed)

	doc := runXML(spectrumXML("scan=1", 0, 3,
		arrayXML(payload, "m/z array", "32-bit float", "zlib compression")))

	run, err := ParseString(doc)
	require.NoError(t, err)
	require.Equal(t, values, run.Spectra[0].BinaryDataArrays[0].Data)
}

func TestParse_NumpressLinearArray(t *testing.T) {
	input := []float64{300.0, 300.1, 300.2, 300.3}

	encoded, err := numpress.EncodeLinear(input, 100000.0)
	require.NoError(t, err)
	payload := base64.StdEncoding.EncodeToString(encoded)

	doc := runXML(spectrumXML("scan=1", 0, 4,
		arrayXML(payload, "m/z array", "64-bit float", "MS-Numpress linear prediction compression")))

	run, err := ParseString(doc)
	require.NoError(t, err)

	got := run.Spectra[0].BinaryDataArrays[0].Data
	require.Len(t, got, len(input))
	for i, want := range input {
		require.InDelta(t, want, float64(got[i]), 1e-3)
	}
}

func TestParse_UnknownCompressionPassesThrough(t *testing.T) {
	values := []float32{9, 8, 7}
	doc := runXML(spectrumXML("scan=1", 0, 3,
		arrayXML(encode32(values), "32-bit float", "no compression")))

	run, err := ParseString(doc)
	require.NoError(t, err)
	require.Equal(t, values, run.Spectra[0].BinaryDataArrays[0].Data)
}

func TestParse_BadPayloadNamesSpectrum(t *testing.T) {
	doc := runXML(spectrumXML("scan=7", 0, 1, arrayXML("!!!not-base64!!!", "32-bit float")))

	_, err := ParseString(doc)
	require.ErrorIs(t, err, errs.ErrBase64Decode)
	require.ErrorContains(t, err, "scan=7")
}

func TestParse_TruncatedPayload(t *testing.T) {
	// Seven bytes cannot hold whole 32-bit values.
	payload := base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4, 5, 6, 7})
	doc := runXML(spectrumXML("scan=1", 0, 1, arrayXML(payload, "32-bit float")))

	_, err := ParseString(doc)
	require.ErrorIs(t, err, errs.ErrTruncatedArray)
}

func TestParse_UnknownPrecisionTag(t *testing.T) {
	doc := runXML(spectrumXML("scan=1", 0, 1, arrayXML(encode32([]float32{1}), "16-bit float")))

	_, err := ParseString(doc)
	require.ErrorIs(t, err, errs.ErrUnknownPrecision)
}

func TestParse_MissingRequiredAttributes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "run without id",
			doc:  `<mzML><run startTimeStamp="2024-01-01T00:00:00Z"></run></mzML>`,
			want: errs.ErrMissingAttribute,
		},
		{
			name: "run without startTimeStamp",
			doc:  `<mzML><run id="run1"></run></mzML>`,
			want: errs.ErrMissingAttribute,
		},
		{
			name: "spectrum without index",
			doc: `<mzML><run id="run1" startTimeStamp="t"><spectrumList>` +
				`<spectrum id="scan=1" defaultArrayLength="0"></spectrum>` +
				`</spectrumList></run></mzML>`,
			want: errs.ErrMissingAttribute,
		},
		{
			name: "spectrum with malformed index",
			doc: `<mzML><run id="run1" startTimeStamp="t"><spectrumList>` +
				`<spectrum id="scan=1" index="abc" defaultArrayLength="0"></spectrum>` +
				`</spectrumList></run></mzML>`,
			want: errs.ErrMalformedNumber,
		},
		{
			name: "spectrum with negative index",
			doc: `<mzML><run id="run1" startTimeStamp="t"><spectrumList>` +
				`<spectrum id="scan=1" index="-1" defaultArrayLength="0"></spectrum>` +
				`</spectrumList></run></mzML>`,
			want: errs.ErrMalformedNumber,
		},
		{
			name: "cvParam without accession",
			doc: `<mzML><run id="run1" startTimeStamp="t"><spectrumList>` +
				`<spectrum id="scan=1" index="0" defaultArrayLength="0">` +
				`<cvParam cvRef="MS" name="ms level"/>` +
				`</spectrum></spectrumList></run></mzML>`,
			want: errs.ErrMissingAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := ParseString(tt.doc)
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, run)
		})
	}
}

func TestParse_NoRunElement(t *testing.T) {
	_, err := ParseString(`<?xml version="1.0"?><mzML><cvList count="0"/></mzML>`)
	require.ErrorIs(t, err, errs.ErrNoRunElement)

	_, err = ParseString("")
	require.ErrorIs(t, err, errs.ErrNoRunElement)
}

func TestParse_EmptyRun(t *testing.T) {
	run, err := ParseString(`<mzML><run id="empty" startTimeStamp="t"></run></mzML>`)
	require.NoError(t, err)
	require.Equal(t, "empty", run.ID)
	require.Empty(t, run.Spectra)
}

func TestParse_SpectrumWithoutArrays(t *testing.T) {
	doc := runXML(spectrumXML("scan=1", 0, 0, ""))

	run, err := ParseString(doc)
	require.NoError(t, err)
	require.Len(t, run.Spectra, 1)
	require.Empty(t, run.Spectra[0].BinaryDataArrays)
}

func TestParse_CvParamFields(t *testing.T) {
	doc := runXML(spectrumXML("scan=1", 0, 0,
		`<cvParam cvRef="MS" accession="MS:1000511" name="ms level" value="2"/>`+
			`<cvParam cvRef="MS" accession="MS:1000016" name="scan start time" value="5.89" `+
			`unitCvRef="UO" unitAccession="UO:0000031" unitName="minute"/>`))

	run, err := ParseString(doc)
	require.NoError(t, err)

	params := run.Spectra[0].CvParams
	require.Len(t, params, 2)
	require.Equal(t, CvParam{
		CvRef:     "MS",
		Accession: "MS:1000511",
		Name:      "ms level",
		Value:     "2",
	}, params[0])
	require.Equal(t, CvParam{
		CvRef:         "MS",
		Accession:     "MS:1000016",
		Name:          "scan start time",
		Value:         "5.89",
		UnitName:      "minute",
		UnitAccession: "UO:0000031",
		UnitCvRef:     "UO",
	}, params[1])
}

func TestParse_ScanListStructure(t *testing.T) {
	doc := runXML(spectrumXML("scan=1", 0, 0,
		`<scanList count="1">`+
			`<cvParam cvRef="MS" accession="MS:1000795" name="no combination"/>`+
			`<scan>`+
			`<cvParam cvRef="MS" accession="MS:1000016" name="scan start time" value="0.004935"/>`+
			`<scanWindowList count="1"><scanWindow>`+
			`<cvParam cvRef="MS" accession="MS:1000501" name="scan window lower limit" value="400"/>`+
			`<cvParam cvRef="MS" accession="MS:1000500" name="scan window upper limit" value="1500"/>`+
			`</scanWindow></scanWindowList>`+
			`</scan></scanList>`))

	run, err := ParseString(doc)
	require.NoError(t, err)

	sl := run.Spectra[0].ScanList
	require.NotNil(t, sl)
	require.Equal(t, 1, sl.Count)
	require.Len(t, sl.CvParams, 1)
	require.Equal(t, "no combination", sl.CvParams[0].Name)

	require.Len(t, sl.Scans, 1)
	scan := sl.Scans[0]
	require.Len(t, scan.CvParams, 1)
	require.Equal(t, "scan start time", scan.CvParams[0].Name)

	require.Len(t, scan.ScanWindows, 1)
	window := scan.ScanWindows[0]
	require.Len(t, window.CvParams, 2)
	require.Equal(t, "scan window lower limit", window.CvParams[0].Name)
	require.Equal(t, "400", window.CvParams[0].Value)
}

func TestParse_CvParamRouting(t *testing.T) {
	// A spectrum-level param before the array, an array-level param inside.
	doc := runXML(spectrumXML("scan=1", 0, 1,
		`<cvParam cvRef="MS" accession="MS:1000579" name="MS1 spectrum"/>`+
			arrayXML(encode32([]float32{42}), "m/z array", "32-bit float")))

	run, err := ParseString(doc)
	require.NoError(t, err)

	sp := run.Spectra[0]
	require.Len(t, sp.CvParams, 1)
	require.Equal(t, "MS1 spectrum", sp.CvParams[0].Name)

	require.Len(t, sp.BinaryDataArrays, 1)
	names := make([]string, 0, 2)
	for _, p := range sp.BinaryDataArrays[0].CvParams {
		names = append(names, p.Name)
	}
	require.Equal(t, []string{"m/z array", "32-bit float"}, names)
}

func TestParse_FailureReturnsNoPartialRun(t *testing.T) {
	good := spectrumXML("scan=1", 0, 1, arrayXML(encode32([]float32{1}), "32-bit float"))
	bad := spectrumXML("scan=2", 1, 1, arrayXML("@@@", "32-bit float"))

	run, err := ParseString(runXML(good, bad))
	require.Error(t, err)
	require.Nil(t, run)
}

func TestParseBytes(t *testing.T) {
	doc := runXML(spectrumXML("scan=1", 0, 1, arrayXML(encode32([]float32{5}), "32-bit float")))

	run, err := ParseBytes([]byte(doc))
	require.NoError(t, err)
	require.Len(t, run.Spectra, 1)
	require.Equal(t, []float32{5}, run.Spectra[0].BinaryDataArrays[0].Data)
}
