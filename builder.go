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
	"log"
	"os"
	"path/filepath"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/idutil"
	"shanhu.io/misc/jsonutil"
)

// Config provides the configuration to start a builder.
type Config struct {
	Out     string // Output directory
	Workers int    // Concurrent directory walks
}

// Output is the content of a published ".fileset" file.
type Output struct {
	Name   string
	Digest string
	Files  []*FileStat
}

// OutputFile returns the output file name of a file set.
func OutputFile(name string) string { return name + ".fileset" }

// Builder resolves the file sets of a manifest and publishes them into the
// output directory.
type Builder struct {
	manifest *Manifest
	outDir   string
	resolver *Resolver
}

// NewBuilder creates a new builder for the given manifest.
func NewBuilder(m *Manifest, config *Config) *Builder {
	return &Builder{
		manifest: m,
		outDir:   config.Out,
		resolver: &Resolver{Workers: config.Workers},
	}
}

func (b *Builder) out(name string) string {
	f := OutputFile(confinedName(name))
	return filepath.Join(b.outDir, filepath.FromSlash(f))
}

func (b *Builder) prepareOut(name string) (string, error) {
	p := b.out(name)
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return "", err
	}
	return p, nil
}

// Resolve resolves one named file set.
func (b *Builder) Resolve(ctx context.Context, name string) (*Output, error) {
	files, err := b.manifest.Resolve(ctx, b.resolver, name)
	if err != nil {
		return nil, err
	}

	var stats []*FileStat
	for _, f := range files {
		s, err := newFileStat(f)
		if err != nil {
			return nil, errcode.Annotatef(err, "file stat %q", f)
		}
		stats = append(stats, s)
	}

	return &Output{
		Name:   name,
		Digest: digestFiles(name, stats),
		Files:  stats,
	}, nil
}

// Build resolves and writes the named file sets. When names is empty, all
// file sets of the manifest are built. It returns the written file paths.
func (b *Builder) Build(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		names = b.manifest.Names()
	}

	var written []string
	for _, name := range names {
		o, err := b.Resolve(ctx, name)
		if err != nil {
			return nil, errcode.Annotatef(err, "resolve %q", name)
		}
		out, err := b.prepareOut(name)
		if err != nil {
			return nil, errcode.Annotate(err, "prepare output")
		}
		if err := jsonutil.WriteFile(out, o); err != nil {
			return nil, errcode.Annotatef(err, "write %q", out)
		}
		log.Printf(
			"BUILD %s: %d files [%s]",
			name, len(o.Files), idutil.Short(o.Digest[len(digestPrefix):]),
		)
		written = append(written, out)
	}
	return written, nil
}

// ReadOutput reads a published file set.
func ReadOutput(f string) (*Output, error) {
	o := new(Output)
	if err := jsonutil.ReadFile(f, o); err != nil {
		return nil, err
	}
	return o, nil
}

// CheckOutput returns the paths in a published file set whose size,
// modification time or mode changed, or that no longer exist.
func CheckOutput(f string) ([]string, error) {
	o, err := ReadOutput(f)
	if err != nil {
		return nil, errcode.Annotatef(err, "read %q", f)
	}
	var stale []string
	for _, s := range o.Files {
		same, err := sameFileStat(s)
		if err != nil {
			return nil, errcode.Annotatef(err, "check %q", s.Path)
		}
		if !same {
			stale = append(stale, s.Path)
		}
	}
	return stale, nil
}
