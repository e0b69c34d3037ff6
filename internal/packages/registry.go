package packages

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// packageManifest is the metadata file an installed package may carry.
const packageManifest = "package.json"

var (
	// ErrUnknownPackage is returned for names the platform does not declare.
	ErrUnknownPackage = errors.New("unknown package")
	// ErrNotInstalled is returned when a package directory is missing.
	ErrNotInstalled = errors.New("package not installed")
	// ErrVersionMismatch is returned when an installed package does not
	// satisfy the platform's version constraint.
	ErrVersionMismatch = errors.New("package version mismatch")
)

// Registry holds the package declarations of a platform and the directory
// where packages are installed.
type Registry struct {
	specs map[string]Spec
	root  string
}

// NewRegistry returns a registry over a copy of specs, resolving installed
// packages under root.
func NewRegistry(specs map[string]Spec, root string) *Registry {
	own := make(map[string]Spec, len(specs))
	for name, spec := range specs {
		own[name] = spec
	}
	return &Registry{specs: own, root: root}
}

// Root returns the packages directory.
func (r *Registry) Root() string { return r.root }

// Known reports whether the platform declares the package.
func (r *Registry) Known(name string) bool {
	_, ok := r.specs[name]
	return ok
}

// Spec returns the declaration of a package.
func (r *Registry) Spec(name string) (Spec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// Names returns all declared package names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Require marks a package non-optional.
func (r *Registry) Require(name string) error {
	s, ok := r.specs[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownPackage, name)
	}
	s.Optional = false
	r.specs[name] = s
	return nil
}

// Required returns the names of all non-optional packages, sorted.
func (r *Registry) Required() []string {
	var names []string
	for _, name := range r.Names() {
		if !r.specs[name].Optional {
			names = append(names, name)
		}
	}
	return names
}

// Dir returns the installed directory of a package. The directory must
// exist, and when it carries a package.json its version must satisfy the
// declared constraint.
func (r *Registry) Dir(name string) (string, error) {
	inst, err := r.Installed(name)
	if err != nil {
		return "", err
	}
	return inst.Dir, nil
}

// Installed inspects the installed copy of a package.
func (r *Registry) Installed(name string) (*Installed, error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownPackage, name)
	}

	dir := filepath.Join(r.root, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s (expected %s)", ErrNotInstalled, name, dir)
	}

	inst := &Installed{Name: name, Dir: dir}
	data, err := os.ReadFile(filepath.Join(dir, packageManifest))
	if errors.Is(err, os.ErrNotExist) {
		return inst, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s manifest: %w", name, err)
	}
	if err := json.Unmarshal(data, inst); err != nil {
		return nil, fmt.Errorf("parsing %s manifest: %w", name, err)
	}
	inst.Dir = dir
	if inst.Name == "" {
		inst.Name = name
	}

	if inst.Version != "" {
		ok, err := Satisfies(spec.Version, inst.Version)
		if err != nil {
			return nil, fmt.Errorf("checking %s version: %w", name, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s %s does not satisfy %s", ErrVersionMismatch, name, inst.Version, spec.Version)
		}
	}
	return inst, nil
}

// Statuses reports every declared package with its installation state.
func (r *Registry) Statuses() []Status {
	names := r.Names()
	out := make([]Status, 0, len(names))
	for _, name := range names {
		spec := r.specs[name]
		st := Status{Name: name, Spec: spec, Required: !spec.Optional}
		inst, err := r.Installed(name)
		if err != nil {
			st.Err = err
		} else {
			st.Dir = inst.Dir
			st.Version = inst.Version
		}
		out = append(out, st)
	}
	return out
}
