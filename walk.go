// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pathset

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"syscall"
)

var errNotDir = errors.New("not a directory")

// walker lists all regular files under a base directory. Symlinks are
// followed. A directory whose real path is already on the current descent
// path is not entered, so link cycles terminate while other aliases of a
// directory are still listed.
type walker struct {
	base  string
	stack map[string]bool // Real paths of the directories being walked.
	visit func(rel, abs string)
}

func (w *walker) accessErr(p string, err error) error {
	return &FilesystemAccessError{Dir: w.base, Path: p, Err: err}
}

// enter pushes a directory onto the descent path. Returns false if the
// directory is already on it.
func (w *walker) enter(dir string) (string, bool, error) {
	rp, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", false, err
	}
	if w.stack[rp] {
		return rp, false, nil
	}
	w.stack[rp] = true
	return rp, true, nil
}

func (w *walker) leave(rp string) { delete(w.stack, rp) }

// skipLink is true for links that point nowhere or loop on themselves.
func skipLink(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ELOOP)
}

func (w *walker) walkDir(ctx context.Context, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := w.base
	if rel != "" {
		dir = filepath.Join(w.base, filepath.FromSlash(rel))
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if rel != "" && errors.Is(err, fs.ErrNotExist) {
			return nil // Removed while walking.
		}
		return w.accessErr(dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		childRel := name
		if rel != "" {
			childRel = path.Join(rel, name)
		}
		child := filepath.Join(dir, name)

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(child)
			if err != nil {
				if skipLink(err) {
					continue
				}
				return w.accessErr(child, err)
			}
			mode = info.Mode().Type()
		}

		switch {
		case mode.IsDir():
			rp, ok, err := w.enter(child)
			if err != nil {
				if skipLink(err) {
					continue
				}
				return w.accessErr(child, err)
			}
			if !ok {
				continue
			}
			err = w.walkDir(ctx, childRel)
			w.leave(rp)
			if err != nil {
				return err
			}
		case mode.IsRegular():
			w.visit(childRel, child)
		}
	}
	return nil
}

// walkFiles calls visit for every regular file under base, with the path
// relative to base in slash form, and the absolute path. A missing base
// returns false and no error.
func walkFiles(
	ctx context.Context, base string, visit func(rel, abs string),
) (bool, error) {
	info, err := os.Stat(base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &FilesystemAccessError{Dir: base, Path: base, Err: err}
	}
	if !info.IsDir() {
		return false, &FilesystemAccessError{
			Dir: base, Path: base, Err: errNotDir,
		}
	}

	w := &walker{
		base:  base,
		stack: make(map[string]bool),
		visit: visit,
	}
	if _, _, err := w.enter(base); err != nil {
		return false, w.accessErr(base, err)
	}
	return true, w.walkDir(ctx, "")
}
