package pathset

import (
	"path/filepath"
	"strings"

	"github.com/disiqueira/gotree/v3"
)

type fileTree struct {
	tree gotree.Tree
	dirs map[string]gotree.Tree
}

func (t *fileTree) dir(p string) gotree.Tree {
	if p == "." {
		return t.tree
	}
	d := t.dirs[p]
	if d == nil {
		parent := t.dir(filepath.Dir(p))
		d = parent.Add(filepath.Base(p))
		t.dirs[p] = d
	}
	return d
}

// RenderTree renders paths as a directory tree rooted at root. Paths that
// are not under root are listed by their full path at the top level.
func RenderTree(root string, paths []string) string {
	t := &fileTree{
		tree: gotree.New(root),
		dirs: make(map[string]gotree.Tree),
	}
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == ".." ||
			strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			t.tree.Add(p)
			continue
		}
		t.dir(filepath.Dir(rel)).Add(filepath.Base(rel))
	}
	return t.tree.Print()
}
