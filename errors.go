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
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern is matched by every *InvalidPatternError.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrFilesystemAccess is matched by every *FilesystemAccessError.
	ErrFilesystemAccess = errors.New("filesystem access")
)

// InvalidPatternError reports a malformed glob pattern.
type InvalidPatternError struct {
	Dir     string // Base directory the pattern belongs to.
	Pattern string
	Kind    string // "include" or "exclude"
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf(
		"invalid %s pattern %q for %q: %s", e.Kind, e.Pattern, e.Dir, e.Err,
	)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidPattern) hold.
func (e *InvalidPatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

// FilesystemAccessError reports a base directory, or a directory under it,
// that exists but cannot be read.
type FilesystemAccessError struct {
	Dir  string // Base directory being walked.
	Path string // Path that failed; equals Dir when the base itself failed.
	Err  error
}

func (e *FilesystemAccessError) Error() string {
	if e.Path == "" || e.Path == e.Dir {
		return fmt.Sprintf("read dir %q: %s", e.Dir, e.Err)
	}
	return fmt.Sprintf("read %q under %q: %s", e.Path, e.Dir, e.Err)
}

func (e *FilesystemAccessError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFilesystemAccess) hold.
func (e *FilesystemAccessError) Is(target error) bool {
	return target == ErrFilesystemAccess
}
