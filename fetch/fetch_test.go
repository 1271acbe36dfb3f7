package fetch

import (
	"archive/tar"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"golang.org/x/xerrors"
	"gotest.tools/v3/assert"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func tarball(t *testing.T, files map[string]string) []byte {
	bf := bytes.Buffer{}
	tw := tar.NewWriter(&bf)
	for _, n := range []string{"lcqmc/", "lcqmc/train.tsv", "lcqmc/dev.tsv", "../evil.tsv"} {
		c, ok := files[n]
		if !ok {
			continue
		}
		if n[len(n)-1] == '/' {
			assert.NilError(t, tw.WriteHeader(&tar.Header{Name: n, Typeflag: tar.TypeDir, Mode: 0755}))
			continue
		}
		assert.NilError(t, tw.WriteHeader(&tar.Header{Name: n, Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(c))}))
		_, err := tw.Write([]byte(c))
		assert.NilError(t, err)
	}
	assert.NilError(t, tw.Close())
	return bf.Bytes()
}

func gzipped(t *testing.T, b []byte) []byte {
	bf := bytes.Buffer{}
	gz := gzip.NewWriter(&bf)
	_, err := gz.Write(b)
	assert.NilError(t, err)
	assert.NilError(t, gz.Close())
	return bf.Bytes()
}

func md5hex(b []byte) string {
	h := md5.Sum(b)
	return hex.EncodeToString(h[:])
}

var corpus = map[string]string{
	"lcqmc/":          "",
	"lcqmc/train.tsv": "label\tq1\tq2\n0\thello\tworld\n",
	"lcqmc/dev.tsv":   "label\tq1\tq2\n1\tfoo\tbar\n",
}

func serve(body []byte, hits *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.Write(body)
	}))
}

func Test_FetchTarGz(t *testing.T) {
	body := gzipped(t, tarball(t, corpus))
	hits := 0
	srv := serve(body, &hits)
	defer srv.Close()
	dir := t.TempDir()

	a := Archive{Quiet: true}
	root, err := a.Fetch(srv.URL+"/lcqmc.tar.gz", dir, md5hex(body))
	assert.NilError(t, err)
	assert.Equal(t, root, filepath.Join(dir, "lcqmc"))
	b, err := os.ReadFile(filepath.Join(root, "train.tsv"))
	assert.NilError(t, err)
	assert.Equal(t, string(b), corpus["lcqmc/train.tsv"])
	assert.Equal(t, hits, 1)

	// cached archive with the same md5 is extracted without downloading
	assert.NilError(t, os.Remove(filepath.Join(root, "train.tsv")))
	_, err = a.Fetch(srv.URL+"/lcqmc.tar.gz", dir, md5hex(body))
	assert.NilError(t, err)
	assert.Equal(t, hits, 1)
	assert.Assert(t, Verify(filepath.Join(root, "train.tsv"), md5hex([]byte(corpus["lcqmc/train.tsv"]))))
}

func Test_FetchTarXz(t *testing.T) {
	bf := bytes.Buffer{}
	xw, err := xz.NewWriter(&bf)
	assert.NilError(t, err)
	_, err = xw.Write(tarball(t, corpus))
	assert.NilError(t, err)
	assert.NilError(t, xw.Close())
	hits := 0
	srv := serve(bf.Bytes(), &hits)
	defer srv.Close()
	dir := t.TempDir()

	root, err := Archive{Quiet: true}.Fetch(srv.URL+"/lcqmc.tar.xz", dir, "")
	assert.NilError(t, err)
	b, err := os.ReadFile(filepath.Join(root, "dev.tsv"))
	assert.NilError(t, err)
	assert.Equal(t, string(b), corpus["lcqmc/dev.tsv"])
}

func Test_FetchChecksumMismatch(t *testing.T) {
	hits := 0
	srv := serve(gzipped(t, tarball(t, corpus)), &hits)
	defer srv.Close()
	dir := t.TempDir()

	_, err := Archive{Quiet: true, Retries: 2}.Fetch(srv.URL+"/lcqmc.tar.gz", dir, "0123456789abcdef0123456789abcdef")
	assert.Assert(t, xerrors.Is(err, ErrDownload))
	assert.ErrorContains(t, err, "md5 mismatch")
	assert.Equal(t, hits, 2)
	entries, err := os.ReadDir(dir)
	assert.NilError(t, err)
	assert.Equal(t, len(entries), 0)
}

func Test_FetchHttpError(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.NotFound(w, r)
	}))
	defer srv.Close()
	dir := t.TempDir()
	_, err := Archive{Quiet: true}.Fetch(srv.URL+"/lcqmc.tar.gz", dir, "")
	assert.Assert(t, xerrors.Is(err, ErrDownload))
	assert.ErrorContains(t, err, "404")
	assert.Equal(t, hits, DefaultRetries)
	// error page is never kept as the archive
	entries, err := os.ReadDir(dir)
	assert.NilError(t, err)
	assert.Equal(t, len(entries), 0)
}

func Test_ExtractEscape(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.tar")
	assert.NilError(t, os.WriteFile(archive, tarball(t, map[string]string{"../evil.tsv": "x"}), 0644))
	_, err := Extract(archive, filepath.Join(dir, "out"))
	assert.ErrorContains(t, err, "escapes")
	_, err = os.Stat(filepath.Join(dir, "evil.tsv"))
	assert.Assert(t, os.IsNotExist(err))
}

func Test_ExtractUnsupported(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "lcqmc.rar")
	assert.NilError(t, os.WriteFile(archive, []byte("rar"), 0644))
	_, err := Extract(archive, dir)
	assert.ErrorContains(t, err, "unsupported archive format")
}

func Test_MD5File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.txt")
	assert.NilError(t, os.WriteFile(p, []byte("abc"), 0644))
	h, err := MD5{}.Hash(p)
	assert.NilError(t, err)
	assert.Equal(t, h, "900150983cd24fb0d6963f7d28e17f72")
	assert.Assert(t, Verify(p, ""))
	assert.Assert(t, !Verify(p, "00"))
	assert.Assert(t, !Verify(p+".absent", ""))
}
