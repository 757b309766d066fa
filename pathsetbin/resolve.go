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

package pathsetbin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/jsonutil"
	"shanhu.io/pathset"
)

// Exit codes of the resolve command.
const (
	exitOK           = 0
	exitFailure      = 1
	exitBadPattern   = 2
	exitAccessDenied = 3
)

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var patErr *pathset.InvalidPatternError
	if errors.As(err, &patErr) {
		return exitBadPattern
	}
	var fsErr *pathset.FilesystemAccessError
	if errors.As(err, &fsErr) {
		return exitAccessDenied
	}
	return exitFailure
}

const (
	formatLines = "lines"
	formatTree  = "tree"
	formatJSON  = "json"
)

type resolveOptions struct {
	sets    []*pathset.PatternSet
	format  string
	workers int
	log     io.Writer // Progress log; nil means silent.
}

// commonDir returns the deepest directory that holds all dirs.
func commonDir(dirs []string) string {
	if len(dirs) == 0 {
		return string(filepath.Separator)
	}
	under := func(d, dir string) bool {
		if d == dir {
			return true
		}
		if !strings.HasSuffix(dir, string(filepath.Separator)) {
			dir += string(filepath.Separator)
		}
		return strings.HasPrefix(d, dir)
	}

	common := filepath.Clean(dirs[0])
	for _, d := range dirs[1:] {
		d = filepath.Clean(d)
		for !under(d, common) {
			parent := filepath.Dir(common)
			if parent == common {
				return common
			}
			common = parent
		}
	}
	return common
}

func printResult(w io.Writer, format string, bases, files []string) error {
	switch format {
	case formatLines, "":
		for _, f := range files {
			if _, err := fmt.Fprintln(w, f); err != nil {
				return err
			}
		}
		return nil
	case formatTree:
		_, err := fmt.Fprint(w, pathset.RenderTree(commonDir(bases), files))
		return err
	case formatJSON:
		if files == nil {
			files = []string{}
		}
		return jsonutil.Fprint(w, files)
	}
	return errcode.InvalidArgf("unknown format %q", format)
}

func resolve(ctx context.Context, opts *resolveOptions, w io.Writer) error {
	if len(opts.sets) == 0 {
		return errcode.InvalidArgf("no -base given")
	}
	r := &pathset.Resolver{Workers: opts.workers}
	if opts.log != nil {
		r.Logger = log.New(opts.log, "", log.LstdFlags)
	}

	files, err := r.Resolve(ctx, opts.sets)
	if err != nil {
		return err
	}

	var bases []string
	for _, s := range opts.sets {
		abs, err := filepath.Abs(s.Dir)
		if err != nil {
			return errcode.Annotatef(err, "absolute path of %q", s.Dir)
		}
		bases = append(bases, abs)
	}
	return printResult(w, opts.format, bases, files)
}

func parseResolve(args []string, stderr io.Writer) (*resolveOptions, error) {
	flags := flag.NewFlagSet("pathset resolve", flag.ContinueOnError)
	flags.SetOutput(stderr)
	list := new(setList)
	opts := new(resolveOptions)
	declareSetFlags(flags, list)
	flags.StringVar(
		&opts.format, "format", formatLines, "output format: lines, tree or json",
	)
	flags.IntVar(
		&opts.workers, "workers", pathset.DefaultWorkers,
		"number of base directories walked concurrently",
	)
	verbose := flags.Bool("v", false, "log progress to stderr")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if rest := flags.Args(); len(rest) > 0 {
		return nil, errcode.InvalidArgf("unexpected arguments: %q", rest)
	}
	if list.err != nil {
		return nil, list.err
	}
	opts.sets = list.sets
	if *verbose {
		opts.log = stderr
	}
	return opts, nil
}

// runResolve runs the resolve command and returns its exit code. Errors
// go to stderr; stdout only carries the result.
func runResolve(args []string, stdout, stderr io.Writer) int {
	opts, err := parseResolve(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	if err := resolve(context.Background(), opts, stdout); err != nil {
		fmt.Fprintln(stderr, err)
		return exitCode(err)
	}
	return exitOK
}

func cmdResolve(args []string) error {
	if code := runResolve(args, os.Stdout, os.Stderr); code != exitOK {
		os.Exit(code)
	}
	return nil
}
