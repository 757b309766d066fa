package pathset

import (
	"path"
	"path/filepath"
	"strings"
)

// makeDir resolves a manifest directory against the manifest's own
// directory. Absolute directories are kept.
func makeDir(base, d string) string {
	if filepath.IsAbs(d) {
		return filepath.Clean(d)
	}
	return filepath.Join(base, filepath.FromSlash(d))
}

// modulePattern joins a module name and a suffix pattern. The module part
// cannot escape the set's directory.
func modulePattern(module, suffix string) string {
	m := strings.TrimPrefix(path.Clean(path.Join("/", module)), "/")
	suffix = strings.TrimPrefix(suffix, "/")
	if m == "" {
		return suffix
	}
	return m + "/" + suffix
}

// validName reports whether a file set name stays under the output
// directory when used as a relative path.
func validName(name string) bool {
	if path.IsAbs(name) || filepath.IsAbs(name) {
		return false
	}
	p := path.Clean(filepath.ToSlash(name))
	return p != "." && p != ".." && !strings.HasPrefix(p, "../")
}

// confinedName makes a file set name that cannot escape the output
// directory.
func confinedName(name string) string {
	p := path.Join("/", filepath.ToSlash(name))
	return strings.TrimPrefix(path.Clean(p), "/")
}
