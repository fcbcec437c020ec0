package mzml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInferCompression(t *testing.T) {
	tests := []struct {
		name   string
		params []CvParam
		want   string
	}{
		{
			name:   "no params",
			params: nil,
			want:   "",
		},
		{
			name: "no compression param",
			params: []CvParam{
				{Name: "m/z array"},
				{Name: "64-bit float"},
			},
			want: "",
		},
		{
			name: "bare scheme name",
			params: []CvParam{
				{Name: "m/z array"},
				{Name: "zlib"},
			},
			want: "zlib",
		},
		{
			name: "zlib compression term",
			params: []CvParam{
				{Name: "zlib compression"},
			},
			want: "zlib compression",
		},
		{
			name: "first match wins",
			params: []CvParam{
				{Name: "MS-Numpress linear prediction compression"},
				{Name: "zlib compression"},
			},
			want: "MS-Numpress linear prediction compression",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, inferCompression(tt.params))
		})
	}
}

func TestInferPrecision(t *testing.T) {
	tests := []struct {
		name      string
		params    []CvParam
		want      string
		wantFound bool
	}{
		{
			name:      "no params",
			params:    nil,
			want:      "",
			wantFound: false,
		},
		{
			name: "32-bit",
			params: []CvParam{
				{Name: "intensity array"},
				{Name: "32-bit float"},
			},
			want:      "32-bit float",
			wantFound: true,
		},
		{
			name: "64-bit",
			params: []CvParam{
				{Name: "64-bit float"},
			},
			want:      "64-bit float",
			wantFound: true,
		},
		{
			name: "first match wins",
			params: []CvParam{
				{Name: "64-bit float"},
				{Name: "32-bit float"},
			},
			want:      "64-bit float",
			wantFound: true,
		},
		{
			name: "unrelated names",
			params: []CvParam{
				{Name: "m/z array"},
				{Name: "zlib compression"},
			},
			want:      "",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := inferPrecision(tt.params)
			require.Equal(t, tt.wantFound, found)
			require.Equal(t, tt.want, got)
		})
	}
}
