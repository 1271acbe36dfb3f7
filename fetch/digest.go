package fetch

import (
	"crypto/md5"
	"encoding/hex"
	"go-ml.dev/pkg/zorros"
	"io"
	"os"
)

/*
MD5 is the file integrity checker comparing md5 digests
*/
type MD5 struct{}

/*
Hash returns hex encoded md5 digest of the file content
*/
func (MD5) Hash(path string) (string, error) {
	return MD5File(path)
}

/*
MD5File returns hex encoded md5 digest of the whole file content
*/
func MD5File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", zorros.Trace(err)
	}
	defer f.Close()
	h := md5.New()
	if _, err = io.Copy(h, f); err != nil {
		return "", zorros.Trace(err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether the file exists and matches the digest, an empty digest matches any file
func Verify(path, digest string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	if digest == "" {
		return true
	}
	h, err := MD5File(path)
	return err == nil && h == digest
}
