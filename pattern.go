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
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternSet binds ordered include and exclude glob patterns to a base
// directory. Patterns are relative to Dir and use '/' as the separator.
type PatternSet struct {
	Dir     string
	Include []string `json:",omitempty"`
	Exclude []string `json:",omitempty"`
}

const (
	kindInclude = "include"
	kindExclude = "exclude"
)

// normPattern applies the trailing-slash shorthand: "lib/" means "lib/**".
func normPattern(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	if strings.HasSuffix(p, "/") {
		return p + "**"
	}
	return p
}

func compilePatterns(dir, kind string, pats []string) ([]string, error) {
	var ret []string
	for _, p := range pats {
		norm := normPattern(p)
		if !doublestar.ValidatePattern(norm) {
			return nil, &InvalidPatternError{
				Dir:     dir,
				Pattern: p,
				Kind:    kind,
				Err:     doublestar.ErrBadPattern,
			}
		}
		ret = append(ret, norm)
	}
	return ret, nil
}

// matcher is a compiled PatternSet.
type matcher struct {
	dir      string
	includes []string
	excludes []string
}

func newMatcher(dir string, s *PatternSet) (*matcher, error) {
	includes, err := compilePatterns(dir, kindInclude, s.Include)
	if err != nil {
		return nil, err
	}
	excludes, err := compilePatterns(dir, kindExclude, s.Exclude)
	if err != nil {
		return nil, err
	}
	return &matcher{
		dir:      dir,
		includes: includes,
		excludes: excludes,
	}, nil
}

func matchAny(pats []string, rel string) bool {
	for _, p := range pats {
		if doublestar.MatchUnvalidated(p, rel) {
			return true
		}
	}
	return false
}

// match reports whether a slash-separated path relative to the base
// directory is selected. Excludes are checked after includes and always
// win.
func (m *matcher) match(rel string) bool {
	if !matchAny(m.includes, rel) {
		return false
	}
	return !matchAny(m.excludes, rel)
}

// empty is true when nothing can match, so the walk can be skipped.
func (m *matcher) empty() bool { return len(m.includes) == 0 }
