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

// Package pathset resolves base directories and include/exclude glob
// patterns into a sorted list of matching files, and publishes named file
// sets for later build steps.
package pathset

import (
	"context"
	"log"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/strutil"
)

// DefaultWorkers is the number of base directories walked at the same
// time when Resolver.Workers is not set.
const DefaultWorkers = 4

// Resolver resolves pattern sets into files. The zero value is ready to
// use. A Resolver holds no state between calls.
type Resolver struct {
	// Workers limits concurrent directory walks. Zero means
	// DefaultWorkers.
	Workers int

	// Logger receives progress lines. Nil means silent.
	Logger *log.Logger
}

func (r *Resolver) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

func (r *Resolver) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return DefaultWorkers
}

// Resolve returns the absolute paths of all regular files that match at
// least one include pattern and no exclude pattern of their base
// directory's set. The list has no duplicates and is sorted byte-wise.
//
// All patterns are checked before any directory is read; a malformed one
// fails the call with *InvalidPatternError. A base directory that exists
// but cannot be read fails the call with *FilesystemAccessError. A base
// directory that does not exist contributes nothing.
func (r *Resolver) Resolve(
	ctx context.Context, sets []*PatternSet,
) ([]string, error) {
	var matchers []*matcher
	for _, s := range sets {
		if s.Dir == "" {
			return nil, errcode.InvalidArgf("base directory is empty")
		}
		dir, err := filepath.Abs(s.Dir)
		if err != nil {
			return nil, errcode.Annotatef(err, "absolute path of %q", s.Dir)
		}
		m, err := newMatcher(dir, s)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}

	found := make([][]string, len(matchers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, m := range matchers {
		i, m := i, m
		if m.empty() {
			continue
		}
		g.Go(func() error {
			var files []string
			exists, err := walkFiles(gctx, m.dir, func(rel, abs string) {
				if m.match(rel) {
					files = append(files, abs)
				}
			})
			if err != nil {
				return err
			}
			if !exists {
				r.logf("%s does not exist, skipped", m.dir)
			}
			found[i] = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make(map[string]bool)
	for _, files := range found {
		for _, f := range files {
			all[f] = true
		}
	}
	return strutil.SortedList(all), nil
}

// Resolve resolves the pattern sets with a default Resolver.
func Resolve(ctx context.Context, sets []*PatternSet) ([]string, error) {
	r := new(Resolver)
	return r.Resolve(ctx, sets)
}
