package fu

import "os"

// Fnzi returns the first non-zero integer
func Fnzi(a ...int) int {
	for _, x := range a {
		if x != 0 {
			return x
		}
	}
	return 0
}

// Fnzs returns the first non-empty string
func Fnzs(a ...string) string {
	for _, x := range a {
		if x != "" {
			return x
		}
	}
	return ""
}

// Exists reports whether the file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
