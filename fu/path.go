package fu

import (
	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros"
	"os"
	"path/filepath"
	"strings"
)

/*
DataHome returns the default root of cached datasets
*/
func DataHome() string {
	return iokit.CacheFile(filepath.Join("go-ml", "Dataset"))
}

/*
DataPath resolves the relative dataset file against the base directory,
the default root is used if base is empty
*/
func DataPath(base, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(Fnzs(base, DataHome()), rel)
}

/*
ExpandPath expands leading ~ to the user home directory and makes the path absolute
*/
func ExpandPath(s string) (string, error) {
	if s == "~" || strings.HasPrefix(s, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", zorros.Trace(err)
		}
		s = filepath.Join(home, s[1:])
	}
	p, err := filepath.Abs(s)
	if err != nil {
		return "", zorros.Trace(err)
	}
	return p, nil
}
