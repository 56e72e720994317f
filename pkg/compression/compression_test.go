package compression

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const report = "  8420496037    9.65%      842  com.comitative.pt.MainKt.main_[j]\n"

func TestDetectType(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   Type
	}{
		{"zstd", []byte{0x28, 0xb5, 0x2f, 0xfd, 0x00}, TypeZstd},
		{"gzip", []byte{0x1f, 0x8b, 0x08, 0x00}, TypeGzip},
		{"plain text", []byte("  8420496037"), TypeNone},
		{"short", []byte{0x1f}, TypeNone},
		{"empty", nil, TypeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.header))
		})
	}
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "none", TypeNone.String())
	assert.Equal(t, "gzip", TypeGzip.String())
	assert.Equal(t, "zstd", TypeZstd.String())
}

func TestNewReader_RoundTrip(t *testing.T) {
	for _, typ := range []Type{TypeNone, TypeGzip, TypeZstd} {
		t.Run(typ.String(), func(t *testing.T) {
			data, err := Compress(typ, []byte(report))
			require.NoError(t, err)

			r, detected, err := NewReader(bytes.NewReader(data))
			require.NoError(t, err)
			defer r.Close()

			assert.Equal(t, typ, detected)
			out, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, report, string(out))
		})
	}
}

func TestNewReader_Empty(t *testing.T) {
	r, detected, err := NewReader(strings.NewReader(""))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, TypeNone, detected)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNewReader_CorruptGzip(t *testing.T) {
	_, _, err := NewReader(bytes.NewReader([]byte{0x1f, 0x8b, 0x00, 0x00}))
	assert.Error(t, err)
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestNewReader_HeaderReadError(t *testing.T) {
	_, _, err := NewReader(brokenReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestCompress_UnknownType(t *testing.T) {
	_, err := Compress(Type(99), []byte(report))
	assert.Error(t, err)
}

func BenchmarkZstdDecompress(b *testing.B) {
	data, _ := Compress(TypeZstd, bytes.Repeat([]byte(report), 1000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, _, _ := NewReader(bytes.NewReader(data))
		_, _ = io.Copy(io.Discard, r)
		r.Close()
	}
}
