package packages

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// excludedNames are files/directories excluded during package installation.
var excludedNames = map[string]bool{
	".git":      true,
	".DS_Store": true,
}

// Install copies a package from a local directory into the packages
// directory, replacing any existing copy. When srcDir carries a
// package.json its version must satisfy the platform constraint; the check
// runs before anything is removed.
func (r *Registry) Install(name, srcDir string) (*Installed, error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownPackage, name)
	}
	info, err := os.Stat(srcDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("package source %s is not a directory", srcDir)
	}

	if err := checkSourceVersion(name, spec, srcDir); err != nil {
		return nil, err
	}

	dst := filepath.Join(r.root, name)
	if _, err := os.Stat(dst); err == nil {
		if err := os.RemoveAll(dst); err != nil {
			return nil, fmt.Errorf("removing existing installation at %s: %w", dst, err)
		}
	}
	if err := copyDir(srcDir, dst); err != nil {
		return nil, fmt.Errorf("copying %s to %s: %w", srcDir, dst, err)
	}
	return r.Installed(name)
}

// Remove deletes an installed package directory.
func (r *Registry) Remove(name string) error {
	if !r.Known(name) {
		return fmt.Errorf("%w %q", ErrUnknownPackage, name)
	}
	dir := filepath.Join(r.root, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing %s: %w", dir, err)
	}
	return nil
}

func checkSourceVersion(name string, spec Spec, srcDir string) error {
	data, err := os.ReadFile(filepath.Join(srcDir, packageManifest))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s manifest: %w", name, err)
	}
	var inst Installed
	if err := json.Unmarshal(data, &inst); err != nil {
		return fmt.Errorf("parsing %s manifest: %w", name, err)
	}
	if inst.Name != "" && inst.Name != name {
		return fmt.Errorf("package source %s holds %q, not %q", srcDir, inst.Name, name)
	}
	if inst.Version == "" {
		return nil
	}
	ok, err := Satisfies(spec.Version, inst.Version)
	if err != nil {
		return fmt.Errorf("checking %s version: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s %s does not satisfy %s", ErrVersionMismatch, name, inst.Version, spec.Version)
	}
	return nil
}

// copyDir recursively copies src to dst, excluding entries in excludedNames.
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if excludedNames[entry.Name()] {
			continue
		}
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else if entry.Type().IsRegular() {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
		// Symlinks and special files are skipped.
	}
	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, srcInfo.Mode())
}
