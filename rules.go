package pathset

// FileSet is a named set of files selected by pattern sets.
type FileSet struct {
	Name string

	// Pattern sets to resolve.
	Sets []*PatternSet `json:",omitempty"`

	// Merge in other file sets by name.
	Include []string `json:",omitempty"`
}

// ModuleSet selects the built artifacts of a list of modules that all live
// under one directory. Each module contributes the include pattern
// "<module>/<Suffix>".
type ModuleSet struct {
	Name string

	// Directory holding the modules.
	Dir string

	// Module directory names, relative to Dir.
	Modules []string

	// Pattern appended to each module, for example "dist/**/*.jar".
	Suffix string

	// Excludes applied to the whole set, relative to Dir.
	Exclude []string `json:",omitempty"`

	// Also exclude the AntDefaultExcludes patterns.
	DefaultExcludes bool `json:",omitempty"`
}

// AntDefaultExcludes are the patterns an Ant fileset excludes unless told
// otherwise: editor backups and version control metadata.
var AntDefaultExcludes = []string{
	"**/*~",
	"**/#*#",
	"**/.#*",
	"**/%*%",
	"**/._*",
	"**/CVS",
	"**/CVS/**",
	"**/.cvsignore",
	"**/SCCS",
	"**/SCCS/**",
	"**/vssver.scc",
	"**/.svn",
	"**/.svn/**",
	"**/.DS_Store",
	"**/.git",
	"**/.git/**",
	"**/.gitattributes",
	"**/.gitignore",
	"**/.gitmodules",
	"**/.hg",
	"**/.hg/**",
	"**/.hgignore",
	"**/.hgsub",
	"**/.hgsubstate",
	"**/.hgtags",
	"**/.bzr",
	"**/.bzr/**",
	"**/.bzrignore",
}

const (
	ruleFileSet   = "fileset"
	ruleModuleSet = "modules"
)
