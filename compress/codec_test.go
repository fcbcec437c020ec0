package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/mzml/format"
)

var codecTypes = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZlib,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

func testPayload() []byte {
	// Repetitive data so every real codec actually shrinks it.
	var buf bytes.Buffer
	for i := 0; i < 256; i++ {
		buf.WriteString("intensity=1234.5 mz=500.25 ")
	}

	return buf.Bytes()
}

func TestCodec_RoundTrip(t *testing.T) {
	data := testPayload()

	for _, ct := range codecTypes {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, decompressed)
		})
	}
}

func TestCodec_CompressionReducesSize(t *testing.T) {
	data := testPayload()

	for _, ct := range codecTypes {
		if ct == format.CompressionNone {
			continue
		}
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)
			require.Less(t, len(compressed), len(data))
		})
	}
}

func TestCodec_EmptyInput(t *testing.T) {
	for _, ct := range codecTypes {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestNoOpCompressor_SharesMemory(t *testing.T) {
	codec := NewNoOpCompressor()
	data := []byte{1, 2, 3}

	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Equal(t, &data[0], &compressed[0])
}

func TestZlibCompressor_CorruptInput(t *testing.T) {
	codec := NewZlibCompressor()

	_, err := codec.Decompress([]byte{0x00, 0x01, 0x02, 0x03})
	require.Error(t, err)
}

func TestZlibCompressor_TruncatedStream(t *testing.T) {
	codec := NewZlibCompressor()

	compressed, err := codec.Compress(testPayload())
	require.NoError(t, err)

	_, err = codec.Decompress(compressed[:len(compressed)/2])
	require.Error(t, err)
}

func TestZstdCompressor_CorruptInput(t *testing.T) {
	codec := NewZstdCompressor()

	_, err := codec.Decompress([]byte{0xde, 0xad, 0xbe, 0xef})
	require.Error(t, err)
}

func TestCreateCodec(t *testing.T) {
	for _, ct := range codecTypes {
		codec, err := CreateCodec(ct, "test")
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := CreateCodec(format.CompressionType(0xEE), "test")
	require.Error(t, err)
	require.Contains(t, err.Error(), "test")
}

func TestGetCodec_Unsupported(t *testing.T) {
	_, err := GetCodec(format.CompressionType(0xEE))
	require.Error(t, err)
}
