package pathsetbin

import (
	"flag"
	"strings"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/flagutil"
	"shanhu.io/pathset"
)

var cmdFlags = flagutil.NewFactory("pathset")

// setList collects -base, -include and -exclude flags in command line
// order. Patterns bind to the most recent base.
type setList struct {
	sets []*pathset.PatternSet
	err  error // First pattern given before any base.
}

func (l *setList) addBase(dir string) {
	l.sets = append(l.sets, &pathset.PatternSet{Dir: dir})
}

func (l *setList) addPattern(name, p string, exclude bool) {
	n := len(l.sets)
	if n == 0 {
		if l.err == nil {
			l.err = errcode.InvalidArgf("-%s %q given before any -base", name, p)
		}
		return
	}
	last := l.sets[n-1]
	if exclude {
		last.Exclude = append(last.Exclude, p)
	} else {
		last.Include = append(last.Include, p)
	}
}

type baseFlag struct{ list *setList }

func (f *baseFlag) String() string {
	if f.list == nil {
		return ""
	}
	var dirs []string
	for _, s := range f.list.sets {
		dirs = append(dirs, s.Dir)
	}
	return strings.Join(dirs, ",")
}

func (f *baseFlag) Set(v string) error {
	f.list.addBase(v)
	return nil
}

type patternFlag struct {
	list    *setList
	name    string
	exclude bool
}

func (f *patternFlag) String() string { return "" }

func (f *patternFlag) Set(v string) error {
	f.list.addPattern(f.name, v, f.exclude)
	return nil
}

func declareSetFlags(flags *flag.FlagSet, l *setList) {
	flags.Var(&baseFlag{list: l}, "base", "base directory, repeatable")
	flags.Var(
		&patternFlag{list: l, name: "include"}, "include",
		"include pattern for the last -base, repeatable",
	)
	flags.Var(
		&patternFlag{list: l, name: "exclude", exclude: true}, "exclude",
		"exclude pattern for the last -base, repeatable",
	)
}
