package lcqmc

import (
	"golang.org/x/xerrors"
	"path/filepath"
)

/*
Split is a named partition of the corpus
*/
type Split string

const (
	Train Split = "train"
	Dev   Split = "dev"
	Test  Split = "test"
)

/*
ErrInvalidSplit is returned for unknown split names
*/
var ErrInvalidSplit = xerrors.New("invalid split")

const (
	URL = "https://bj.bcebos.com/paddlehub-dataset/lcqmc.tar.gz"
	MD5 = "62a7ba36f786a82ae59bbde0b0a9af0c"
)

/*
SplitInfo describes the split file and how it is parsed
*/
type SplitInfo struct {
	File    string // path relative to the data root
	MD5     string // expected file digest, empty to skip the check
	Fields  []int  // indices of kept fields, nil keeps all
	Discard int    // count of leading lines to skip
}

var splits = map[Split]SplitInfo{
	Train: {filepath.Join("lcqmc", "train.tsv"), "2193c022439b038ac12c0ae918b211a1", []int{0, 1, 2}, 1},
	Dev:   {filepath.Join("lcqmc", "dev.tsv"), "c5dcba253cb4105d914964fd8b3c0e94", []int{0, 1, 2}, 1},
	Test:  {filepath.Join("lcqmc", "test.tsv"), "8f4b71e15e67696cc9e112a459ec42bd", []int{0, 1, 2}, 1},
}

// Splits returns all known splits
func Splits() []Split {
	return []Split{Train, Dev, Test}
}

/*
Info returns a copy of the split description
*/
func Info(split Split) (SplitInfo, error) {
	info, ok := splits[split]
	if !ok {
		return SplitInfo{}, xerrors.Errorf("%w: %q", ErrInvalidSplit, string(split))
	}
	info.Fields = append([]int(nil), info.Fields...)
	return info, nil
}

/*
ParseSplit validates the split name
*/
func ParseSplit(name string) (Split, error) {
	if _, ok := splits[Split(name)]; !ok {
		return "", xerrors.Errorf("%w: %q", ErrInvalidSplit, name)
	}
	return Split(name), nil
}
