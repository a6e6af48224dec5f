package installer

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// archiveFile is one archive member; a non-empty Link makes it a symlink.
type archiveFile struct {
	Name string
	Body string
	Mode int64
	Link string
}

func tarGz(t *testing.T, files ...archiveFile) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for _, f := range files {
		if f.Link != "" {
			require.NoError(t, tw.WriteHeader(&tar.Header{
				Name:     f.Name,
				Mode:     0o777,
				Linkname: f.Link,
				Typeflag: tar.TypeSymlink,
			}))
			continue
		}
		mode := f.Mode
		if mode == 0 {
			mode = 0o644
		}
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     f.Name,
			Mode:     mode,
			Size:     int64(len(f.Body)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(f.Body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func zipped(t *testing.T, files ...archiveFile) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		hdr := &zip.FileHeader{Name: f.Name, Method: zip.Deflate}
		body := f.Body
		if f.Link != "" {
			hdr.SetMode(os.ModeSymlink | 0o777)
			body = f.Link
		}
		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func gzipped(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}
