package fetch

import (
	"archive/tar"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"go-ml.dev/pkg/zorros"
	"io"
	"os"
	"path/filepath"
	"strings"
)

/*
Extract unpacks .tar, .tar.gz/.tgz or .tar.xz archive into dir
and returns the path of the archive's top level entry
*/
func Extract(archive, dir string) (string, error) {
	f, err := os.Open(archive)
	if err != nil {
		return "", zorros.Trace(err)
	}
	defer f.Close()

	var rd io.Reader
	switch name := strings.ToLower(archive); {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return "", zorros.Trace(err)
		}
		defer gz.Close()
		rd = gz
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		if rd, err = xz.NewReader(f); err != nil {
			return "", zorros.Trace(err)
		}
	case strings.HasSuffix(name, ".tar"):
		rd = f
	default:
		return "", zorros.Errorf("unsupported archive format %v", filepath.Base(archive))
	}
	return untar(tar.NewReader(rd), dir)
}

func untar(tr *tar.Reader, dir string) (root string, err error) {
	dir = filepath.Clean(dir)
	for {
		hdr, e := tr.Next()
		if e == io.EOF {
			break
		}
		if e != nil {
			return "", zorros.Trace(e)
		}
		target := filepath.Join(dir, hdr.Name)
		if target != dir && !strings.HasPrefix(target, dir+string(os.PathSeparator)) {
			return "", zorros.Errorf("archive entry %v escapes %v", hdr.Name, dir)
		}
		if root == "" && target != dir {
			rel, _ := filepath.Rel(dir, target)
			root = filepath.Join(dir, strings.Split(rel, string(os.PathSeparator))[0])
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if e = os.MkdirAll(target, 0755); e != nil {
				return "", zorros.Trace(e)
			}
		case tar.TypeReg:
			if e = writeFile(target, tr, os.FileMode(hdr.Mode).Perm()|0600); e != nil {
				return "", e
			}
		}
	}
	if root == "" {
		return "", zorros.Errorf("archive is empty")
	}
	return
}

func writeFile(target string, rd io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return zorros.Trace(err)
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return zorros.Trace(err)
	}
	if _, err = io.Copy(f, rd); err != nil {
		f.Close()
		return zorros.Trace(err)
	}
	if err = f.Close(); err != nil {
		return zorros.Trace(err)
	}
	return nil
}
