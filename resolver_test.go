package pathset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0644))
	}
}

func abs(root string, files ...string) []string {
	var ret []string
	for _, f := range files {
		ret = append(ret, filepath.Join(root, filepath.FromSlash(f)))
	}
	return ret
}

func TestResolveSingleDir(t *testing.T) {
	root := t.TempDir()
	dist := filepath.Join(root, "moduleA/dist")
	makeFiles(t, dist, "a.jar", "b.txt")

	got, err := Resolve(context.Background(), []*PatternSet{{
		Dir:     dist,
		Include: []string{"**/*.jar"},
	}})
	require.NoError(t, err)
	require.Equal(t, abs(dist, "a.jar"), got)
}

func TestResolveExcludeWins(t *testing.T) {
	root := t.TempDir()
	dist := filepath.Join(root, "moduleA/dist")
	makeFiles(t, dist, "a.jar", "b.txt")

	got, err := Resolve(context.Background(), []*PatternSet{{
		Dir:     dist,
		Include: []string{"**/*.jar"},
		Exclude: []string{"a.jar"},
	}})
	require.NoError(t, err)
	require.Empty(t, got)

	// Exclude wins even when it is broader than the include.
	makeFiles(t, dist, "lib/c.jar", "lib/d.jar")
	got, err = Resolve(context.Background(), []*PatternSet{{
		Dir:     dist,
		Include: []string{"lib/c.jar", "**/*.jar"},
		Exclude: []string{"lib/**"},
	}})
	require.NoError(t, err)
	require.Equal(t, abs(dist, "a.jar"), got)
}

func TestResolveMultipleDirsSorted(t *testing.T) {
	root := t.TempDir()
	b := filepath.Join(root, "moduleB/dist")
	a := filepath.Join(root, "moduleA/dist")
	makeFiles(t, a, "a.jar")
	makeFiles(t, b, "b.jar")

	// Give moduleB first; output is still sorted.
	got, err := Resolve(context.Background(), []*PatternSet{
		{Dir: b, Include: []string{"**/*.jar"}},
		{Dir: a, Include: []string{"**/*.jar"}},
	})
	require.NoError(t, err)
	want := []string{
		filepath.Join(a, "a.jar"),
		filepath.Join(b, "b.jar"),
	}
	require.Equal(t, want, got)
}

func TestResolveMissingDir(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "moduleC/dist")

	got, err := Resolve(context.Background(), []*PatternSet{{
		Dir:     missing,
		Include: []string{"**/*.jar"},
	}})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestResolveInvalidPattern(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root, "a.jar")

	for _, s := range []*PatternSet{
		{Dir: root, Include: []string{"**/*.jar", "[unterminated"}},
		{Dir: root, Include: []string{"**/*.jar"}, Exclude: []string{"[x"}},
	} {
		got, err := Resolve(context.Background(), []*PatternSet{s})
		require.Error(t, err)
		require.Nil(t, got)
		require.True(t, errors.Is(err, ErrInvalidPattern))

		var patErr *InvalidPatternError
		require.True(t, errors.As(err, &patErr))
		require.Equal(t, root, patErr.Dir)
		require.Contains(t, err.Error(), root)
	}

	var patErr *InvalidPatternError
	_, err := Resolve(context.Background(), []*PatternSet{
		{Dir: root, Include: []string{"**/*.jar"}},
		{Dir: filepath.Join(root, "other"), Include: []string{"[unterminated"}},
	})
	require.True(t, errors.As(err, &patErr))
	require.Equal(t, "[unterminated", patErr.Pattern)
	require.Equal(t, kindInclude, patErr.Kind)
	require.Equal(t, filepath.Join(root, "other"), patErr.Dir)
}

func TestResolveDeterministic(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root,
		"z/1.jar", "a/2.jar", "m/n/3.jar", "m/4.jar", "B.jar", "b.jar",
	)
	sets := []*PatternSet{{Dir: root, Include: []string{"**/*.jar"}}}

	first, err := Resolve(context.Background(), sets)
	require.NoError(t, err)
	require.Equal(t, abs(root,
		"B.jar", "a/2.jar", "b.jar", "m/4.jar", "m/n/3.jar", "z/1.jar",
	), first)

	for i := 0; i < 5; i++ {
		r := &Resolver{Workers: i + 1}
		got, err := r.Resolve(context.Background(), sets)
		require.NoError(t, err)
		require.Equal(t, first, got)
	}
}

func TestResolveDedup(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root, "sub/a.jar", "b.jar")

	got, err := Resolve(context.Background(), []*PatternSet{
		{Dir: root, Include: []string{"**/*.jar", "sub/*.jar"}},
		{Dir: filepath.Join(root, "sub"), Include: []string{"*.jar"}},
		{Dir: root + "/", Include: []string{"sub/a.jar"}},
	})
	require.NoError(t, err)
	require.Equal(t, abs(root, "b.jar", "sub/a.jar"), got)
}

func TestResolveEmptyInclude(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root, "a.jar", "b.txt")

	got, err := Resolve(context.Background(), []*PatternSet{
		{Dir: root},
		{Dir: root, Exclude: []string{"b.txt"}},
	})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestResolveGlobSyntax(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root,
		"a.jar", "ab.jar", "abc.jar", "lib/x.jar", "lib/deep/y.jar",
		"docs/readme.md",
	)

	for _, test := range []struct {
		include []string
		want    []string
	}{
		{[]string{"*.jar"}, []string{"a.jar", "ab.jar", "abc.jar"}},
		{[]string{"a?.jar"}, []string{"ab.jar"}},
		{[]string{"a[bc]*.jar"}, []string{"ab.jar", "abc.jar"}},
		{[]string{"lib/*.jar"}, []string{"lib/x.jar"}},
		{[]string{"lib/**/*.jar"}, []string{"lib/deep/y.jar", "lib/x.jar"}},
		{[]string{"lib/"}, []string{"lib/deep/y.jar", "lib/x.jar"}},
		{[]string{"./docs/*"}, []string{"docs/readme.md"}},
		{[]string{"{docs,lib}/*"}, []string{"docs/readme.md", "lib/x.jar"}},
	} {
		got, err := Resolve(context.Background(), []*PatternSet{{
			Dir:     root,
			Include: test.include,
		}})
		require.NoError(t, err, "include %q", test.include)
		require.Equal(t, abs(root, test.want...), got, "include %q", test.include)
	}
}

func TestResolveSymlinks(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "base")
	other := filepath.Join(root, "other")
	makeFiles(t, base, "a/x.jar")
	makeFiles(t, other, "y.jar")

	// A cycle back to the parent, a link out of the base, and a dangling
	// link.
	require.NoError(t, os.Symlink("..", filepath.Join(base, "a/loop")))
	require.NoError(t, os.Symlink(other, filepath.Join(base, "ext")))
	require.NoError(t, os.Symlink(
		filepath.Join(root, "nowhere"), filepath.Join(base, "dangling.jar"),
	))
	require.NoError(t, os.Symlink(
		filepath.Join(other, "y.jar"), filepath.Join(base, "link.jar"),
	))

	got, err := Resolve(context.Background(), []*PatternSet{{
		Dir:     base,
		Include: []string{"**/*.jar"},
	}})
	require.NoError(t, err)
	require.Equal(t, abs(base, "a/x.jar", "ext/y.jar", "link.jar"), got)
}

func TestResolveBaseNotDir(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root, "a.jar")

	_, err := Resolve(context.Background(), []*PatternSet{{
		Dir:     filepath.Join(root, "a.jar"),
		Include: []string{"**"},
	}})
	var fsErr *FilesystemAccessError
	require.True(t, errors.As(err, &fsErr))
	require.True(t, errors.Is(err, ErrFilesystemAccess))
	require.Equal(t, filepath.Join(root, "a.jar"), fsErr.Dir)
}

func TestResolveUnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := t.TempDir()
	makeFiles(t, root, "locked/a.jar", "open/b.jar")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	for _, s := range []*PatternSet{
		{Dir: locked, Include: []string{"**/*.jar"}},
		{Dir: root, Include: []string{"**/*.jar"}},
	} {
		got, err := Resolve(context.Background(), []*PatternSet{s})
		require.Nil(t, got)
		var fsErr *FilesystemAccessError
		require.True(t, errors.As(err, &fsErr), "got %v", err)
		require.Equal(t, s.Dir, fsErr.Dir)
		require.Equal(t, locked, fsErr.Path)
	}
}

func TestResolveCanceled(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root, "a.jar")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := Resolve(ctx, []*PatternSet{{
		Dir:     root,
		Include: []string{"**/*.jar"},
	}})
	require.Nil(t, got)
	require.ErrorIs(t, err, context.Canceled)
}

func TestResolveRelativeDir(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root, "dist/a.jar")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { os.Chdir(wd) })

	got, err := Resolve(context.Background(), []*PatternSet{{
		Dir:     "dist",
		Include: []string{"*.jar"},
	}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, filepath.IsAbs(got[0]))
	require.Equal(t, "a.jar", filepath.Base(got[0]))
}

func TestResolveEmptyDir(t *testing.T) {
	_, err := Resolve(context.Background(), []*PatternSet{{
		Include: []string{"*.jar"},
	}})
	require.Error(t, err)
}

func TestResolveSymlinkAlias(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root, "z/x.jar")
	// "a" sorts before "z" and is walked first.
	require.NoError(t, os.Symlink("z", filepath.Join(root, "a")))

	got, err := Resolve(context.Background(), []*PatternSet{{
		Dir:     root,
		Include: []string{"z/**/*.jar"},
	}})
	require.NoError(t, err)
	require.Equal(t, abs(root, "z/x.jar"), got)

	got, err = Resolve(context.Background(), []*PatternSet{{
		Dir:     root,
		Include: []string{"**/*.jar"},
	}})
	require.NoError(t, err)
	require.Equal(t, abs(root, "a/x.jar", "z/x.jar"), got)
}

func TestResolveSymlinkSelfLoop(t *testing.T) {
	root := t.TempDir()
	makeFiles(t, root, "a.jar")
	require.NoError(t, os.Symlink("self.jar", filepath.Join(root, "self.jar")))

	got, err := Resolve(context.Background(), []*PatternSet{{
		Dir:     root,
		Include: []string{"*.jar"},
	}})
	require.NoError(t, err)
	require.Equal(t, abs(root, "a.jar"), got)
}

func TestResolveUnreadableLinkTarget(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := t.TempDir()
	base := filepath.Join(root, "base")
	makeFiles(t, root, "locked/y.jar", "base/a.jar")
	link := filepath.Join(base, "y.jar")
	require.NoError(t, os.Symlink(filepath.Join(root, "locked/y.jar"), link))
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	got, err := Resolve(context.Background(), []*PatternSet{{
		Dir:     base,
		Include: []string{"*.jar"},
	}})
	require.Nil(t, got)
	var fsErr *FilesystemAccessError
	require.True(t, errors.As(err, &fsErr), "got %v", err)
	require.Equal(t, link, fsErr.Path)
}
