package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

func TestDecompress(t *testing.T) {
	var plain marshalBuf
	plain.dict("depotFile", "//depot/a.c", "rev0", "1")
	payload := plain.Bytes()

	compressors := map[string]func(w io.Writer) io.WriteCloser{
		"plain": func(w io.Writer) io.WriteCloser { return nopWriteCloser{w} },
		"gzip":  func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) },
		"zstd": func(w io.Writer) io.WriteCloser {
			enc, err := zstd.NewWriter(w)
			require.NoError(t, err)
			return enc
		},
		"lz4": func(w io.Writer) io.WriteCloser { return lz4.NewWriter(w) },
		"s2":  func(w io.Writer) io.WriteCloser { return s2.NewWriter(w) },
		"snappy": func(w io.Writer) io.WriteCloser {
			return s2.NewWriter(w, s2.WriterSnappyCompat())
		},
	}

	for name, newWriter := range compressors {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			w := newWriter(&buf)
			_, err := w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			rc, err := Decompress(&buf)
			require.NoError(t, err)
			defer rc.Close()

			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.Equal(t, payload, got)
		})
	}
}

func TestDecompress_Empty(t *testing.T) {
	rc, err := Decompress(&bytes.Buffer{})
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Empty(t, got)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
