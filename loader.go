package pathset

import (
	"context"
	"sort"

	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
)

// fileSet is a named set in a loaded manifest, with all directories made
// absolute.
type fileSet struct {
	name     string
	pos      *lexing.Pos
	sets     []*PatternSet
	includes []string
}

func newFileSet(dir string, r *FileSet) *fileSet {
	var sets []*PatternSet
	for _, s := range r.Sets {
		sets = append(sets, &PatternSet{
			Dir:     makeDir(dir, s.Dir),
			Include: s.Include,
			Exclude: s.Exclude,
		})
	}
	return &fileSet{
		name:     r.Name,
		sets:     sets,
		includes: r.Include,
	}
}

func newModuleFileSet(dir string, r *ModuleSet) (*fileSet, error) {
	if r.Suffix == "" {
		return nil, errcode.InvalidArgf("module set %q has no suffix", r.Name)
	}
	if r.Dir == "" {
		return nil, errcode.InvalidArgf("module set %q has no dir", r.Name)
	}

	var includes []string
	for _, m := range r.Modules {
		includes = append(includes, modulePattern(m, r.Suffix))
	}
	excludes := r.Exclude
	if r.DefaultExcludes {
		excludes = append(append([]string{}, excludes...), AntDefaultExcludes...)
	}
	return &fileSet{
		name: r.Name,
		sets: []*PatternSet{{
			Dir:     makeDir(dir, r.Dir),
			Include: includes,
			Exclude: excludes,
		}},
	}, nil
}

// Manifest is a loaded set of named file sets.
type Manifest struct {
	dir  string
	sets map[string]*fileSet
}

type loader struct {
	m       *Manifest
	tracer  *loadTracer
	checked map[string]bool
	errList *lexing.ErrorList
}

func (l *loader) register(fs *fileSet) {
	if fs.name == "" {
		l.errList.Errorf(fs.pos, "file set name is empty")
		return
	}
	if !validName(fs.name) {
		l.errList.Errorf(
			fs.pos, "file set name %q is not a relative path", fs.name,
		)
		return
	}
	if p, ok := l.m.sets[fs.name]; ok {
		l.errList.Errorf(fs.pos, "file set %q redeclared", fs.name)
		if p.pos != nil {
			l.errList.Errorf(p.pos, "  previously defined here")
		}
		return
	}
	l.m.sets[fs.name] = fs
}

// check walks the includes of a set, reporting unknown names and cycles.
func (l *loader) check(name string, pos *lexing.Pos) {
	if !l.tracer.push(name) {
		l.errList.Errorf(
			pos, "has circular include: %q", append(l.tracer.stack(), name),
		)
		return
	}
	defer l.tracer.pop()

	if l.checked[name] {
		return
	}
	fs, ok := l.m.sets[name]
	if !ok {
		l.errList.Errorf(pos, "file set %q not found", name)
		return
	}
	for _, inc := range fs.includes {
		l.check(inc, fs.pos)
	}
	l.checked[name] = true
}

func buildManifest(dir string, entries []*manifestEntry) (
	*Manifest, []*lexing.Error,
) {
	l := &loader{
		m: &Manifest{
			dir:  dir,
			sets: make(map[string]*fileSet),
		},
		tracer:  newLoadTracer(),
		checked: make(map[string]bool),
		errList: lexing.NewErrorList(),
	}

	for _, e := range entries {
		var fs *fileSet
		switch v := e.v.(type) {
		case *FileSet:
			fs = newFileSet(dir, v)
		case *ModuleSet:
			s, err := newModuleFileSet(dir, v)
			if err != nil {
				l.errList.Add(&lexing.Error{Pos: e.pos, Err: err})
				continue
			}
			fs = s
		default:
			l.errList.Errorf(e.pos, "unknown entry type: %T", e.v)
			continue
		}
		fs.pos = e.pos
		l.register(fs)
	}
	if errs := l.errList.Errs(); errs != nil {
		return nil, errs
	}

	for _, name := range l.m.Names() {
		l.check(name, l.m.sets[name].pos)
	}
	if errs := l.errList.Errs(); errs != nil {
		return nil, errs
	}
	return l.m, nil
}

// Dir returns the directory relative directories are resolved against.
func (m *Manifest) Dir() string { return m.dir }

// Names returns the names of all file sets, sorted.
func (m *Manifest) Names() []string {
	var names []string
	for name := range m.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PatternSets returns the pattern sets of a named file set, including the
// sets of everything it includes, depth first. Each set is listed once.
func (m *Manifest) PatternSets(name string) ([]*PatternSet, error) {
	var ret []*PatternSet
	seen := make(map[string]bool)
	tracer := newLoadTracer()

	var collect func(name string) error
	collect = func(name string) error {
		if !tracer.push(name) {
			return errcode.InvalidArgf("circular include: %q", tracer.stack())
		}
		defer tracer.pop()

		if seen[name] {
			return nil
		}
		seen[name] = true

		fs, ok := m.sets[name]
		if !ok {
			return errcode.NotFoundf("file set %q not found", name)
		}
		ret = append(ret, fs.sets...)
		for _, inc := range fs.includes {
			if err := collect(inc); err != nil {
				return errcode.Annotatef(err, "include %q", inc)
			}
		}
		return nil
	}

	if err := collect(name); err != nil {
		return nil, err
	}
	return ret, nil
}

// Resolve resolves a named file set together with everything it includes.
func (m *Manifest) Resolve(
	ctx context.Context, r *Resolver, name string,
) ([]string, error) {
	sets, err := m.PatternSets(name)
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, sets)
}
