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

	"shanhu.io/misc/jsonx"
	"shanhu.io/text/lexing"
)

// ManifestFile is the default manifest file name.
const ManifestFile = "PATHSET"

func makeManifestEntry(t string) interface{} {
	switch t {
	case ruleFileSet:
		return new(FileSet)
	case ruleModuleSet:
		return new(ModuleSet)
	}
	return nil
}

type manifestEntry struct {
	pos *lexing.Pos
	v   interface{}
}

// ReadManifest reads a manifest file. Relative directories in the manifest
// are relative to the directory that holds the file.
func ReadManifest(f string) (*Manifest, []*lexing.Error) {
	abs, err := filepath.Abs(f)
	if err != nil {
		return nil, lexing.SingleErr(err)
	}

	typed, errs := jsonx.ReadSeriesFile(abs, makeManifestEntry)
	if errs != nil {
		return nil, errs
	}

	var entries []*manifestEntry
	for _, r := range typed {
		entries = append(entries, &manifestEntry{pos: r.Pos, v: r.V})
	}
	return buildManifest(filepath.Dir(abs), entries)
}

// NewManifest builds a manifest from *FileSet and *ModuleSet values.
// Relative directories are relative to dir.
func NewManifest(dir string, rules ...interface{}) (*Manifest, []*lexing.Error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, lexing.SingleErr(err)
	}
	var entries []*manifestEntry
	for _, r := range rules {
		entries = append(entries, &manifestEntry{v: r})
	}
	return buildManifest(abs, entries)
}
