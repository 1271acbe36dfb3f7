/*
Package lcqmc provides LCQMC, a large-scale Chinese question matching corpus.

More information at https://www.aclweb.org/anthology/C18-1166/
*/
package lcqmc

import (
	"fmt"
	"go-ml.dev/pkg/nlpdata/fetch"
	"go-ml.dev/pkg/nlpdata/fu"
	"go-ml.dev/pkg/nlpdata/tsv"
	"go-ml.dev/pkg/zorros/zlog"
	"gonum.org/v1/gonum/stat"
)

/*
Fetcher downloads the archive by url and extracts it into dir
*/
type Fetcher interface {
	Fetch(url, dir, digest string) (string, error)
}

/*
Checker computes the file digest
*/
type Checker interface {
	Hash(path string) (string, error)
}

/*
Parser turns the split file into records
*/
type Parser func(path string, fields []int, discard int, opt tsv.Options) ([]tsv.Record, error)

/*
Options of the corpus loading, zero value loads from the default data root
*/
type Options struct {
	DataDir   string      // optional data directory used instead of Root
	AllFields bool        // keep all fields of every line
	TSV       tsv.Options // passed to the parser as is
	Root      string      // default data root, fu.DataHome() if empty

	Fetcher Fetcher // fetch.Archive by default
	Checker Checker // fetch.MD5 by default
	Parser  Parser  // tsv.Parse by default

	Verbose func(string)
}

/*
Corpus is the loaded split of LCQMC
*/
type Corpus struct {
	split   Split
	path    string
	records []tsv.Record
}

/*
Load loads the split by name
*/
func Load(name string, opt Options) (*Corpus, error) {
	split, err := ParseSplit(name)
	if err != nil {
		return nil, err
	}
	return New(split, opt)
}

/*
New loads the split, downloading the archive if the file is absent or its md5 does not match
*/
func New(split Split, opt Options) (*Corpus, error) {
	info, err := Info(split)
	if err != nil {
		return nil, err
	}
	if opt.AllFields {
		info.Fields = nil
	}
	root := opt.Root
	if root == "" {
		root = fu.DataHome()
	}
	checker := opt.Checker
	if checker == nil {
		checker = fetch.MD5{}
	}

	base := root
	if opt.DataDir != "" {
		if base, err = fu.ExpandPath(opt.DataDir); err != nil {
			return nil, err
		}
	}
	path := fu.DataPath(base, info.File)
	ok, err := valid(checker, path, info.MD5)
	if err != nil {
		return nil, err
	}
	if !ok {
		if opt.DataDir != "" {
			zlog.Warning(fmt.Sprintf("md5 check failed for %v, download LCQMC data to %v", info.File, root))
		}
		fetcher := opt.Fetcher
		if fetcher == nil {
			fetcher = fetch.Archive{Verbose: opt.Verbose}
		}
		if _, err = fetcher.Fetch(URL, root, MD5); err != nil {
			return nil, err
		}
		// the archive is always extracted into the default root
		path = fu.DataPath(root, info.File)
	}

	parse := opt.Parser
	if parse == nil {
		parse = tsv.Parse
	}
	if opt.Verbose != nil {
		opt.Verbose(fmt.Sprintf("reading LCQMC %v from %v", split, path))
	}
	records, err := parse(path, info.Fields, info.Discard, opt.TSV)
	if err != nil {
		return nil, err
	}
	return &Corpus{split: split, path: path, records: records}, nil
}

func valid(checker Checker, path, digest string) (bool, error) {
	if !fu.Exists(path) {
		return false, nil
	}
	if digest == "" {
		return true, nil
	}
	h, err := checker.Hash(path)
	if err != nil {
		return false, err
	}
	return h == digest, nil
}

/*
Labels returns labels of LCQMC
*/
func Labels() []string {
	return []string{"0", "1"}
}

// Labels returns labels of LCQMC
func (c *Corpus) Labels() []string {
	return Labels()
}

func (c *Corpus) Split() Split {
	return c.split
}

// Path is the file records were read from
func (c *Corpus) Path() string {
	return c.path
}

func (c *Corpus) Len() int {
	return len(c.records)
}

// Record returns a copy of the i-th record
func (c *Corpus) Record(i int) tsv.Record {
	return append(tsv.Record(nil), c.records[i]...)
}

/*
Records returns a copy of all loaded records, the corpus itself is never changed
*/
func (c *Corpus) Records() []tsv.Record {
	r := make([]tsv.Record, len(c.records))
	for i, x := range c.records {
		r[i] = append(tsv.Record(nil), x...)
	}
	return r
}

/*
LabelBalance returns the share of positive ("1") labels.
It expects the LCQMC column layout text_a, text_b, label,
so the label is the last field of a record.
*/
func (c *Corpus) LabelBalance() float64 {
	if len(c.records) == 0 {
		return 0
	}
	x := make([]float64, len(c.records))
	for i, r := range c.records {
		if len(r) > 0 && r[len(r)-1] == "1" {
			x[i] = 1
		}
	}
	return stat.Mean(x, nil)
}
