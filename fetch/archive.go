/*
Package fetch downloads dataset archives, verifies their checksums and extracts them
*/
package fetch

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go-ml.dev/pkg/nlpdata/fu"
	"go-ml.dev/pkg/zorros"
	"golang.org/x/xerrors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

/*
ErrDownload is the kind of all network, checksum and extraction failures
*/
var ErrDownload = xerrors.New("download error")

/*
Archive fetches a remote archive into the destination directory
*/
type Archive struct {
	Client  *http.Client // http.DefaultClient if nil
	Retries int          // download attempts, DefaultRetries if zero
	Quiet   bool         // do not show download progress
	Verbose func(string)
}

const DefaultRetries = 3

/*
Fetch downloads the archive unless it's already cached with the same md5,
extracts it into dir and returns the extracted root directory
*/
func (a Archive) Fetch(source, dir, digest string) (string, error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", xerrors.Errorf("%w: %v", ErrDownload, zorros.Trace(err))
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", xerrors.Errorf("%w: no file name in url %v", ErrDownload, source)
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return "", xerrors.Errorf("%w: %v", ErrDownload, zorros.Trace(err))
	}
	archive := filepath.Join(dir, name)
	if Verify(archive, digest) {
		a.verbose(fmt.Sprintf("found cached %v", archive))
	} else {
		retries := fu.Fnzi(a.Retries, DefaultRetries)
		for i := 0; ; i++ {
			if err = a.download(source, archive, digest); err == nil {
				break
			}
			if i+1 >= retries {
				return "", xerrors.Errorf("%w: %v failed after %d attempts: %v", ErrDownload, source, retries, err)
			}
			a.verbose(fmt.Sprintf("download %v failed, retry: %v", source, err.Error()))
		}
	}
	root, err := Extract(archive, dir)
	if err != nil {
		return "", xerrors.Errorf("%w: %v", ErrDownload, err)
	}
	return root, nil
}

func (a Archive) download(source, archive, digest string) (err error) {
	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	a.verbose(fmt.Sprintf("downloading %v to %v", source, archive))
	resp, err := client.Get(source)
	if err != nil {
		return zorros.Trace(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return zorros.Errorf("http status %v", resp.Status)
	}

	part := fmt.Sprintf("%v.%v.part", archive, uuid.NewString())
	f, err := os.Create(part)
	if err != nil {
		return zorros.Trace(err)
	}
	defer func() {
		f.Close()
		if err != nil {
			os.Remove(part)
		}
	}()

	var bar *progressbar.ProgressBar
	if a.Quiet {
		bar = progressbar.DefaultBytesSilent(resp.ContentLength, filepath.Base(archive))
	} else {
		bar = progressbar.DefaultBytes(resp.ContentLength, filepath.Base(archive))
	}
	h := md5.New()
	if _, err = io.Copy(io.MultiWriter(f, h, bar), resp.Body); err != nil {
		return zorros.Trace(err)
	}
	_ = bar.Finish()
	if err = f.Close(); err != nil {
		return zorros.Trace(err)
	}
	if s := hex.EncodeToString(h.Sum(nil)); digest != "" && s != digest {
		return zorros.Errorf("md5 mismatch for %v: expected %v, got %v", source, digest, s)
	}
	if err = os.Rename(part, archive); err != nil {
		return zorros.Trace(err)
	}
	return nil
}

func (a Archive) verbose(s string) {
	if a.Verbose != nil {
		a.Verbose(s)
	}
}
