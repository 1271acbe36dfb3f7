/*
Package tsv implements a generic loader of tab-separated datasets
*/
package tsv

import (
	"bufio"
	"go-ml.dev/pkg/zorros"
	"golang.org/x/xerrors"
	"io"
	"os"
	"strings"
)

/*
ErrParse is the kind of all errors caused by malformed dataset content
*/
var ErrParse = xerrors.New("tsv parse error")

/*
Record is an ordered tuple of fields selected from one line
*/
type Record []string

/*
Options are extra parsing options of the dataset
*/
type Options struct {
	Delimiter    string            // field delimiter, tab by default
	AllowMissing bool              // fill absent fields with empty string instead of failing
	Filter       func(Record) bool // optional, drops records it returns false for
}

const DefaultDelimiter = "\t"

/*
Parse reads the dataset file, skips discard leading lines and selects fields by indices.
All fields are kept if fields is nil.
*/
func Parse(path string, fields []int, discard int, opt Options) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("%w: %v", ErrParse, zorros.Trace(err))
	}
	defer f.Close()
	return Read(f, fields, discard, opt)
}

/*
Read reads records from the stream the same way as Parse does
*/
func Read(rd io.Reader, fields []int, discard int, opt Options) (records []Record, err error) {
	if discard < 0 {
		return nil, xerrors.Errorf("%w: negative count of discarding lines %d", ErrParse, discard)
	}
	for _, i := range fields {
		if i < 0 {
			return nil, xerrors.Errorf("%w: negative field index %d", ErrParse, i)
		}
	}
	delim := opt.Delimiter
	if delim == "" {
		delim = DefaultDelimiter
	}
	rb := bufio.NewReader(rd)
	for lineno := 1; ; lineno++ {
		line, e := rb.ReadString('\n')
		if e != nil && e != io.EOF {
			return nil, xerrors.Errorf("%w: line %d: %v", ErrParse, lineno, zorros.Trace(e))
		}
		if e == io.EOF && line == "" {
			break
		}
		if lineno > discard {
			line = strings.TrimRight(line, "\r\n")
			if strings.TrimSpace(line) != "" {
				r, e := selectFields(strings.Split(line, delim), fields, opt.AllowMissing)
				if e != nil {
					return nil, xerrors.Errorf("%w: line %d: %v", ErrParse, lineno, e)
				}
				if opt.Filter == nil || opt.Filter(r) {
					records = append(records, r)
				}
			}
		}
		if e == io.EOF {
			break
		}
	}
	return
}

func selectFields(row []string, fields []int, allowMissing bool) (Record, error) {
	if fields == nil {
		return Record(row), nil
	}
	r := make(Record, len(fields))
	for j, i := range fields {
		if i < len(row) {
			r[j] = row[i]
		} else if !allowMissing {
			return nil, zorros.Errorf("field %d is missing, row has %d fields", i, len(row))
		}
	}
	return r, nil
}
