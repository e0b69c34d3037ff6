//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const linkerTemplate = `/* M460 default linker script */
MEMORY
{
  FLASH (rx)  : ORIGIN = 0x00000000, LENGTH = $(CMflashSize)K
  RAM   (rwx) : ORIGIN = 0x20000000, LENGTH = $(CMramSize)K
}
ENTRY(Reset_Handler)
`

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir     string // HOME, holds ~/.m460/config.yaml
	PackagesDir string // M460_PACKAGES_DIR, installed platform packages
	ProjectDir  string // a project directory
}

// setupTestEnv creates isolated temp directories and sets environment
// variables so settings and packages are sandboxed.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:     t.TempDir(),
		PackagesDir: t.TempDir(),
		ProjectDir:  t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	t.Setenv("M460_PACKAGES_DIR", env.PackagesDir)
	return env
}

// setupPackages installs a synthetic toolchain, CMSIS core, M460 device
// package and OpenOCD into packagesDir.
func setupPackages(t *testing.T, packagesDir string) {
	t.Helper()

	writeFile(t, filepath.Join(packagesDir, "toolchain-gccarmnoneeabi", "package.json"),
		`{"name": "toolchain-gccarmnoneeabi", "version": "1.120301.0"}`)
	writeFile(t, filepath.Join(packagesDir, "toolchain-gccarmnoneeabi", "bin", "arm-none-eabi-gcc"), "")

	writeFile(t, filepath.Join(packagesDir, "framework-cmsis", "CMSIS", "Include", "core_cm4.h"), "")

	device := filepath.Join(packagesDir, "framework-cmsis-m460")
	writeFile(t, filepath.Join(device, "package.json"), `{"name": "framework-cmsis-m460", "version": "3.0.2"}`)
	writeFile(t, filepath.Join(device, "Include", "M460.h"), "")
	writeFile(t, filepath.Join(device, "Source", "system_m460.c"), "")
	writeFile(t, filepath.Join(device, "Source", "GCC", "startup_m460.s"), "")
	writeFile(t, filepath.Join(device, "Source", "GCC", "m460.ld"), linkerTemplate)
	writeFile(t, filepath.Join(device, "StdDriver", "inc", "gpio.h"), "")
	writeFile(t, filepath.Join(device, "StdDriver", "src", "gpio.c"), "")
	writeFile(t, filepath.Join(device, "StdDriver", "src", "uart.c"), "")

	writeFile(t, filepath.Join(packagesDir, "tool-openocd-nuvoton", "bin", "openocd"), "")
	writeFile(t, filepath.Join(packagesDir, "tool-openocd-nuvoton", "openocd", "scripts", "interface", "nulink.cfg"), "")
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// contains reports whether list holds s.
func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
