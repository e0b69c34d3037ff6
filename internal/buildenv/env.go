package buildenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/slices"
	"mvdan.cc/sh/v3/shell"
)

// Well-known construction variables.
const (
	VarCPPPath      = "CPPPATH"
	VarCPPDefines   = "CPPDEFINES"
	VarCCFlags      = "CCFLAGS"
	VarCFlags       = "CFLAGS"
	VarCXXFlags     = "CXXFLAGS"
	VarASFlags      = "ASFLAGS"
	VarLinkFlags    = "LINKFLAGS"
	VarLibs         = "LIBS"
	VarLibPath      = "LIBPATH"
	VarLDScriptPath = "LDSCRIPT_PATH"
)

// ErrLDScriptNotFound is returned when no candidate linker script exists.
var ErrLDScriptNotFound = errors.New("linker script not found")

// Options configures a new Env.
type Options struct {
	ProjectDir string
	BuildDir   string // relative paths are resolved against ProjectDir
	// LDSearchDirs are extra directories searched for linker scripts, after
	// the project directory and LIBPATH.
	LDSearchDirs []string
}

// Env is the build environment of one invocation.
type Env struct {
	projectDir   string
	buildDir     string
	ldSearchDirs []string
	vars         map[string][]string
	sources      []SourceSet
}

// New creates an environment.
func New(opts Options) *Env {
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	buildDir := opts.BuildDir
	if buildDir == "" {
		buildDir = ".m460/build"
	}
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(projectDir, buildDir)
	}
	return &Env{
		projectDir:   projectDir,
		buildDir:     buildDir,
		ldSearchDirs: slices.Clone(opts.LDSearchDirs),
		vars:         make(map[string][]string),
	}
}

// ProjectDir returns the project directory.
func (e *Env) ProjectDir() string { return e.projectDir }

// BuildDir returns the build directory.
func (e *Env) BuildDir() string { return e.buildDir }

// lookup resolves a variable for substitution.
func (e *Env) lookup(name string) string {
	switch name {
	case "BUILD_DIR":
		return e.buildDir
	case "PROJECT_DIR":
		return e.projectDir
	}
	if vals, ok := e.vars[name]; ok {
		return strings.Join(vals, " ")
	}
	return os.Getenv(name)
}

// Subst expands $VAR and ${VAR} references in s. BUILD_DIR and PROJECT_DIR
// are always defined; other names resolve to construction variables, then to
// the process environment.
func (e *Env) Subst(s string) (string, error) {
	out, err := shell.Expand(s, e.lookup)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", s, err)
	}
	return out, nil
}

// Append adds values to the end of a variable.
func (e *Env) Append(key string, values ...string) {
	e.vars[key] = append(e.vars[key], values...)
}

// Replace sets a variable, discarding its previous values.
func (e *Env) Replace(key string, values ...string) {
	e.vars[key] = slices.Clone(values)
}

// Get returns a copy of a variable's values.
func (e *Env) Get(key string) []string {
	return slices.Clone(e.vars[key])
}

// GetOne returns the first value of a variable, or "".
func (e *Env) GetOne(key string) string {
	if vals := e.vars[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Keys returns the names of all set variables, sorted.
func (e *Env) Keys() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetActualLDScript resolves LDSCRIPT_PATH to an existing file. Absolute
// paths are checked as given; relative ones are searched in the project
// directory, LIBPATH entries, then the configured search directories.
func (e *Env) GetActualLDScript() (string, error) {
	hint := e.GetOne(VarLDScriptPath)
	if hint == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrLDScriptNotFound, VarLDScriptPath)
	}
	hint, err := e.Subst(hint)
	if err != nil {
		return "", err
	}

	if filepath.IsAbs(hint) {
		if isFile(hint) {
			return hint, nil
		}
		return "", fmt.Errorf("%w: %s", ErrLDScriptNotFound, hint)
	}

	dirs := []string{e.projectDir}
	for _, p := range e.vars[VarLibPath] {
		expanded, err := e.Subst(p)
		if err != nil {
			return "", fmt.Errorf("%s entry: %w", VarLibPath, err)
		}
		dirs = append(dirs, expanded)
	}
	dirs = append(dirs, e.ldSearchDirs...)

	for _, dir := range dirs {
		candidate := filepath.Join(dir, hint)
		if isFile(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched %s)", ErrLDScriptNotFound, hint, strings.Join(dirs, ", "))
}

// Snapshot is a serializable view of the environment.
type Snapshot struct {
	BuildDir string              `json:"build_dir" yaml:"build_dir"`
	Vars     map[string][]string `json:"vars" yaml:"vars"`
	Sources  []SourceSet         `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Snapshot returns a copy of the environment's state.
func (e *Env) Snapshot() Snapshot {
	vars := make(map[string][]string, len(e.vars))
	for k, v := range e.vars {
		vars[k] = slices.Clone(v)
	}
	return Snapshot{
		BuildDir: e.buildDir,
		Vars:     vars,
		Sources:  e.Sources(),
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
