package codec

import (
	"bytes"
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		got, ok := ByName(c.Name())
		require.True(t, ok)
		assert.Equal(t, c, got)
	}
	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecs_Compatible(t *testing.T) {
	v := map[string][]float64{"a": {1, 0.5}, "b": {}}
	a := MustMarshal(JSON{}, v)
	b := MustMarshal(GoJSON{}, v)
	assert.JSONEq(t, string(a), string(b))

	var out map[string][]float64
	require.NoError(t, GoJSON{}.Unmarshal(a, &out))
	assert.Equal(t, v, out)

}

func TestGoJSON_StringsUnescaped(t *testing.T) {
	v := map[string]string{"smiles": "C[N+](C)(C)C", "id": "<a&b>"}

	b, err := GoJSON{}.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"<a&b>"`)
	assert.NotContains(t, string(MustMarshal(JSON{}, v)), `"<a&b>"`)

	var out map[string]string
	require.NoError(t, JSON{}.Unmarshal(b, &out))
	assert.Equal(t, v, out)
}

func TestCodecs_RejectNonFinite(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := c.Marshal([]float64{1, f})
			assert.Error(t, err, "%s %v", c.Name(), f)
		}
	}
}

func TestMustMarshal_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(nil, func() {}) })
}

func TestCompression(t *testing.T) {
	compressible := bytes.Repeat([]byte("0,0,0,1,"), 512)
	tiny := []byte("ab")

	tests := []struct {
		name string
		c    Compression
		data []byte
	}{
		{"None", CompressionNone, compressible},
		{"LZ4", CompressionLZ4, compressible},
		{"ZSTD", CompressionZSTD, compressible},
		{"LZ4Tiny", CompressionLZ4, tiny},
		{"ZSTDTiny", CompressionZSTD, tiny},
		{"Empty", CompressionZSTD, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := Compress(tt.data, tt.c)
			require.NoError(t, err)
			if tt.c != CompressionNone && len(tt.data) > 64 {
				assert.Less(t, len(block), len(tt.data))
			}
			out, err := Decompress(block)
			require.NoError(t, err)
			assert.Equal(t, len(tt.data), len(out))
			assert.True(t, bytes.Equal(tt.data, out))
		})
	}
}

func TestDecompress_Corrupt(t *testing.T) {
	_, err := Decompress([]byte{1, 2})
	assert.True(t, errors.Is(err, ErrCorruptBlock))

	block, err := Compress(bytes.Repeat([]byte("abc"), 100), CompressionLZ4)
	require.NoError(t, err)
	_, err = Decompress(block[:len(block)-5])
	assert.True(t, errors.Is(err, ErrCorruptBlock))

	_, err = Compress([]byte("x"), Compression(9))
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}

func sampleFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.FromColumns(
		[]string{"0", "1", "name", "n", "flag"},
		[]frame.Column{
			frame.NewSeries([]float64{1, 0, 3}),
			frame.NewNullableSeries([]float64{0, 2.5, 0}, []bool{true, true, false}),
			frame.NewNullableSeries([]string{"CCO", "", "c1ccccc1"}, []bool{true, false, true}),
			frame.NewSeries([]int{0, 0, 0}),
			frame.NewSeries([]bool{true, false, true}),
		},
	)
	require.NoError(t, err)
	require.NoError(t, f.SetIndex([]int{4, 8, 15}))
	return f
}

func TestEncodeDecodeFrame(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
			t.Run(c.Name()+"/"+comp.String(), func(t *testing.T) {
				f := sampleFrame(t)
				data, err := EncodeFrame(f, c, comp)
				require.NoError(t, err)

				got, err := DecodeFrame(data)
				require.NoError(t, err)
				assert.Equal(t, f.Index(), got.Index())
				assert.Equal(t, f.Names(), got.Names())

				want, err := Snapshot(f)
				require.NoError(t, err)
				have, err := Snapshot(got)
				require.NoError(t, err)
				assert.Equal(t, want, have)
			})
		}
	}
}

func TestEncodeFrame_Unsupported(t *testing.T) {
	f, err := frame.FromColumns([]string{"x"}, []frame.Column{frame.NewSeries([]float32{1})})
	require.NoError(t, err)
	_, err = EncodeFrame(f, nil, CompressionNone)
	assert.True(t, errors.Is(err, ErrUnsupportedColumn))
}

func corrupted(t *testing.T) []byte {
	t.Helper()
	data, err := EncodeFrame(sampleFrame(t), JSON{}, CompressionNone)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	return data
}

func TestDecodeFrame_Bad(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"NoMagic", []byte("nope")},
		{"Truncated", append([]byte("MOLF\x01"), 9)},
		{"UnknownCodec", append([]byte("MOLF\x01\x03"), "xml"...)},
		{"NoChecksum", append([]byte("MOLF\x01\x04"), "json"...)},
		{"ChecksumMismatch", corrupted(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame(tt.data)
			assert.True(t, errors.Is(err, ErrBadSnapshot))
		})
	}
}

func BenchmarkEncodeFrame(b *testing.B) {
	values := make([]float64, 2048)
	for i := range values {
		values[i] = float64(i % 3)
	}
	f := frame.New(len(values))
	for j := 0; j < 64; j++ {
		_ = f.Set(string(rune('a'+j%26))+string(rune('a'+j/26)), frame.NewSeries(values))
	}

	b.Run("json", func(b *testing.B) {
		for b.Loop() {
			_, _ = EncodeFrame(f, JSON{}, CompressionZSTD)
		}
	})
	b.Run("go-json", func(b *testing.B) {
		for b.Loop() {
			_, _ = EncodeFrame(f, GoJSON{}, CompressionZSTD)
		}
	})
}
