package packages

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestInstallCopiesPackage(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"package.json":            `{"name": "framework-cmsis-m460", "version": "3.0.4"}`,
		"Source/system_m460.c":    "",
		".git/HEAD":               "ref",
		"StdDriver/src/.DS_Store": "",
	})

	r := NewRegistry(testSpecs(), t.TempDir())
	inst, err := r.Install("framework-cmsis-m460", src)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if inst.Version != "3.0.4" {
		t.Errorf("Version = %q", inst.Version)
	}
	if _, err := os.Stat(filepath.Join(inst.Dir, "Source", "system_m460.c")); err != nil {
		t.Errorf("source file not copied: %v", err)
	}
	for _, excluded := range []string{".git", filepath.Join("StdDriver", "src", ".DS_Store")} {
		if _, err := os.Stat(filepath.Join(inst.Dir, excluded)); err == nil {
			t.Errorf("%s should be excluded", excluded)
		}
	}
}

func TestInstallReplacesExisting(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"framework-cmsis/stale.txt": ""})
	src := t.TempDir()
	writeTree(t, src, map[string]string{"CMSIS/Include/core_cm4.h": ""})

	r := NewRegistry(testSpecs(), root)
	if _, err := r.Install("framework-cmsis", src); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "framework-cmsis", "stale.txt")); err == nil {
		t.Error("stale file survived reinstall")
	}
}

func TestInstallRejects(t *testing.T) {
	r := NewRegistry(testSpecs(), t.TempDir())

	if _, err := r.Install("nope", t.TempDir()); !errors.Is(err, ErrUnknownPackage) {
		t.Errorf("unknown: err = %v", err)
	}

	old := t.TempDir()
	writeTree(t, old, map[string]string{"package.json": `{"version": "2.0.0"}`})
	if _, err := r.Install("framework-cmsis-m460", old); !errors.Is(err, ErrVersionMismatch) {
		t.Errorf("old version: err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(r.Root(), "framework-cmsis-m460")); err == nil {
		t.Error("rejected package was installed")
	}

	wrong := t.TempDir()
	writeTree(t, wrong, map[string]string{"package.json": `{"name": "framework-cmsis"}`})
	if _, err := r.Install("framework-cmsis-m460", wrong); err == nil {
		t.Error("expected error for mismatched package name")
	}

	if _, err := r.Install("framework-cmsis", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"framework-cmsis/CMSIS/Include/core_cm4.h": ""})
	r := NewRegistry(testSpecs(), root)

	if err := r.Remove("framework-cmsis"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := r.Remove("framework-cmsis"); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("second Remove: err = %v, want ErrNotInstalled", err)
	}
	if err := r.Remove("nope"); !errors.Is(err, ErrUnknownPackage) {
		t.Errorf("unknown: err = %v", err)
	}
}
