package cmsis

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/numicro-labs/m460/internal/board"
	"github.com/numicro-labs/m460/internal/buildenv"
	"github.com/numicro-labs/m460/internal/packages"
)

const template = `MEMORY
{
  FLASH (rx) : ORIGIN = 0x00000000, LENGTH = $(CMflashSize)K
  RAM (rwx)  : ORIGIN = 0x20000000, LENGTH = $(CMramSize)K
}
`

// writeFiles creates each file below root with placeholder content.
func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		content := "/* " + f + " */\n"
		if strings.HasSuffix(f, ".ld") {
			content = template
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// packageTree lays out the CMSIS core and M460 device packages.
func packageTree(t *testing.T, startup ...string) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root,
		"framework-cmsis/CMSIS/Include/core_cm4.h",
		"framework-cmsis-m460/Include/M460.h",
		"framework-cmsis-m460/Source/system_m460.c",
		"framework-cmsis-m460/Source/GCC/m460.ld",
		"framework-cmsis-m460/StdDriver/inc/uart.h",
		"framework-cmsis-m460/StdDriver/src/uart.c",
		"framework-cmsis-m460/StdDriver/src/gpio.c",
		"framework-cmsis-m460/StdDriver/src/README.md",
	)
	for _, s := range startup {
		writeFiles(t, root, "framework-cmsis-m460/Source/GCC/"+s)
	}
	return root
}

func newRegistry(root string) *packages.Registry {
	return packages.NewRegistry(map[string]packages.Spec{
		"framework-cmsis":      {Type: packages.TypeFramework},
		"framework-cmsis-m460": {Type: packages.TypeFramework},
	}, root)
}

func newBoard(t *testing.T, m board.Manifest) *board.Config {
	t.Helper()
	cfg, err := board.NewConfig("test_board", m)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	return cfg
}

func m467() board.Manifest {
	return board.Manifest{
		Name: "Test",
		Build: board.BuildSection{
			CPU:         "cortex-m4",
			MCU:         "m467hjhae",
			ProductLine: "M460",
			FCPU:        "200000000L",
		},
		Upload: board.UploadSection{MaximumRAMSize: 524288, MaximumSize: 1048576},
	}
}

func newLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

func TestStartupFile(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		wantBase string
		wantWarn bool
	}{
		{"lowercase only", []string{"startup_m460.s"}, "startup_m460.s", false},
		{"both cases", []string{"startup_m460.s", "startup_m460.S"}, "startup_m460.s", false},
		{"uppercase only", []string{"startup_m460.S"}, "", false},
		{"neither", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := t.TempDir()
			if err := os.MkdirAll(filepath.Join(src, "GCC"), 0755); err != nil {
				t.Fatal(err)
			}
			for _, f := range tt.files {
				if err := os.WriteFile(filepath.Join(src, "GCC", f), nil, 0644); err != nil {
					t.Fatal(err)
				}
			}
			// Case-insensitive filesystems cannot hold both names.
			if len(tt.files) == 2 {
				entries, _ := os.ReadDir(filepath.Join(src, "GCC"))
				if len(entries) != 2 {
					t.Skip("case-insensitive filesystem")
				}
			}

			var buf bytes.Buffer
			got := StartupFile(src, "m460", newLogger(&buf))

			if tt.wantBase == "" && got != "" {
				t.Errorf("StartupFile() = %q, want empty", got)
			}
			if tt.wantBase != "" && got != filepath.Join(src, "GCC", tt.wantBase) {
				t.Errorf("StartupFile() = %q, want %s", got, tt.wantBase)
			}
			if warned := strings.Contains(buf.String(), "could not find startup file"); warned != tt.wantWarn {
				t.Errorf("warning logged = %v, want %v (log: %s)", warned, tt.wantWarn, buf.String())
			}
		})
	}
}

func TestSourceFilter(t *testing.T) {
	got := SourceFilter("m460", "/pkg/Source/GCC/startup_m460.s")
	want := []string{"-<*>", "+<Source/system_m460.c>", "+<Source/GCC/startup_m460.s>", "+<StdDriver/src/*.c>"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SourceFilter() = %v, want %v", got, want)
	}

	if got := SourceFilter("m460", ""); got[2] != "+<Source/GCC/>" {
		t.Errorf("empty startup entry = %q, want +<Source/GCC/>", got[2])
	}
}

func TestApplyBareFlags(t *testing.T) {
	env := buildenv.New(buildenv.Options{ProjectDir: t.TempDir()})
	ApplyBareFlags(env, newBoard(t, m467()))

	ccflags := env.Get(buildenv.VarCCFlags)
	for _, want := range []string{"-mcpu=cortex-m4", "-mthumb", "-mfpu=fpv4-sp-d16", "-ffunction-sections", "-fdata-sections"} {
		if !contains(ccflags, want) {
			t.Errorf("CCFLAGS %v missing %s", ccflags, want)
		}
	}
	if !contains(env.Get(buildenv.VarLinkFlags), "-Wl,--gc-sections,--relax") {
		t.Errorf("LINKFLAGS missing gc-sections: %v", env.Get(buildenv.VarLinkFlags))
	}
	if got := env.Get(buildenv.VarCPPDefines); !reflect.DeepEqual(got, []string{"F_CPU=200000000L"}) {
		t.Errorf("CPPDEFINES = %v", got)
	}
}

func TestApplyBareFlags_NoFPU(t *testing.T) {
	m := m467()
	m.Build.CPU = "cortex-m0"
	m.Build.FCPU = ""
	env := buildenv.New(buildenv.Options{ProjectDir: t.TempDir()})
	ApplyBareFlags(env, newBoard(t, m))

	for _, f := range env.Get(buildenv.VarCCFlags) {
		if strings.HasPrefix(f, "-mfpu") {
			t.Errorf("unexpected FPU flag %s", f)
		}
	}
	if got := env.Get(buildenv.VarCPPDefines); len(got) != 0 {
		t.Errorf("CPPDEFINES = %v, want none", got)
	}
}

func TestConfigure(t *testing.T) {
	root := packageTree(t, "startup_m460.s")
	project := t.TempDir()
	env := buildenv.New(buildenv.Options{ProjectDir: project})
	var buf bytes.Buffer

	res, err := Configure(&Context{
		Board:    newBoard(t, m467()),
		Env:      env,
		Packages: newRegistry(root),
		Logger:   newLogger(&buf),
	})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}

	device := filepath.Join(root, "framework-cmsis-m460")
	wantScript := filepath.Join(env.BuildDir(), "FrameworkCMSIS", "m460_DEFAULT.ld")
	if res.LDScript != wantScript {
		t.Errorf("LDScript = %q, want %q", res.LDScript, wantScript)
	}
	if got := env.GetOne(buildenv.VarLDScriptPath); got != wantScript {
		t.Errorf("LDSCRIPT_PATH = %q, want %q", got, wantScript)
	}
	data, err := os.ReadFile(wantScript)
	if err != nil {
		t.Fatalf("reading generated script: %v", err)
	}
	if !strings.Contains(string(data), "LENGTH = 1024K") || !strings.Contains(string(data), "LENGTH = 512K") {
		t.Errorf("generated script has wrong sizes:\n%s", data)
	}

	wantCPP := []string{
		filepath.Join(root, "framework-cmsis", "CMSIS", "Include"),
		filepath.Join(device, "Include"),
		filepath.Join(device, "Source", "GCC"),
		filepath.Join(device, "StdDriver", "inc"),
	}
	if got := env.Get(buildenv.VarCPPPath); !reflect.DeepEqual(got, wantCPP) {
		t.Errorf("CPPPATH = %v, want %v", got, wantCPP)
	}
	link := env.Get(buildenv.VarLinkFlags)
	if !contains(link, "--specs=nano.specs") || !contains(link, "--specs=nosys.specs") {
		t.Errorf("LINKFLAGS = %v", link)
	}

	if res.Sources.VariantDir != filepath.Join(env.BuildDir(), "FrameworkCMSIS") {
		t.Errorf("VariantDir = %q", res.Sources.VariantDir)
	}
	wantFiles := []string{
		"Source/GCC/startup_m460.s",
		"Source/system_m460.c",
		"StdDriver/src/gpio.c",
		"StdDriver/src/uart.c",
	}
	if !reflect.DeepEqual(res.Sources.Files, wantFiles) {
		t.Errorf("Files = %v, want %v", res.Sources.Files, wantFiles)
	}
	if len(env.Sources()) != 1 {
		t.Errorf("registered %d source sets, want 1", len(env.Sources()))
	}
}

func TestConfigure_UppercaseStartupCompilesGCCDir(t *testing.T) {
	root := packageTree(t, "startup_m460.S")
	env := buildenv.New(buildenv.Options{ProjectDir: t.TempDir()})

	res, err := Configure(&Context{
		Board:    newBoard(t, m467()),
		Env:      env,
		Packages: newRegistry(root),
		Logger:   newLogger(&bytes.Buffer{}),
	})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if res.StartupFile != "" {
		t.Errorf("StartupFile = %q, want empty", res.StartupFile)
	}
	if !contains(res.Sources.Files, "Source/GCC/startup_m460.S") {
		t.Errorf("Files = %v, want the GCC directory selected", res.Sources.Files)
	}
}

func TestConfigure_ReusesExistingScript(t *testing.T) {
	root := packageTree(t, "startup_m460.s")
	env := buildenv.New(buildenv.Options{ProjectDir: t.TempDir()})
	existing := filepath.Join(env.BuildDir(), "FrameworkCMSIS", "m460_DEFAULT.ld")
	if err := os.MkdirAll(filepath.Dir(existing), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(existing, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Configure(&Context{
		Board:    newBoard(t, m467()),
		Env:      env,
		Packages: newRegistry(root),
		Logger:   newLogger(&bytes.Buffer{}),
	})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "stale" {
		t.Errorf("existing script was regenerated: %q", data)
	}
}

func TestConfigure_Errors(t *testing.T) {
	t.Run("missing product line", func(t *testing.T) {
		m := m467()
		m.Build.ProductLine = ""
		_, err := Configure(&Context{
			Board:    newBoard(t, m),
			Env:      buildenv.New(buildenv.Options{ProjectDir: t.TempDir()}),
			Packages: newRegistry(t.TempDir()),
		})
		if !errors.Is(err, board.ErrNoProductLine) {
			t.Errorf("err = %v, want ErrNoProductLine", err)
		}
	})

	t.Run("device package not installed", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, "framework-cmsis/CMSIS/Include/core_cm4.h")
		_, err := Configure(&Context{
			Board:    newBoard(t, m467()),
			Env:      buildenv.New(buildenv.Options{ProjectDir: t.TempDir()}),
			Packages: newRegistry(root),
		})
		if !errors.Is(err, packages.ErrNotInstalled) {
			t.Errorf("err = %v, want ErrNotInstalled", err)
		}
	})

	t.Run("device package without sources", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, "framework-cmsis/CMSIS/Include/core_cm4.h", "framework-cmsis-m460/Include/M460.h")
		_, err := Configure(&Context{
			Board:    newBoard(t, m467()),
			Env:      buildenv.New(buildenv.Options{ProjectDir: t.TempDir()}),
			Packages: newRegistry(root),
		})
		if !errors.Is(err, ErrPackageLayout) {
			t.Errorf("err = %v, want ErrPackageLayout", err)
		}
	})

	t.Run("missing template", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, "framework-cmsis/CMSIS/Include/core_cm4.h", "framework-cmsis-m460/Source/system_m460.c")
		_, err := Configure(&Context{
			Board:    newBoard(t, m467()),
			Env:      buildenv.New(buildenv.Options{ProjectDir: t.TempDir()}),
			Packages: newRegistry(root),
			Logger:   newLogger(&bytes.Buffer{}),
		})
		if !errors.Is(err, buildenv.ErrLDScriptNotFound) {
			t.Errorf("err = %v, want ErrLDScriptNotFound", err)
		}
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestLinkerScript_BoardDefined(t *testing.T) {
	root := packageTree(t)
	m := m467()
	m.Build.LDScript = "boards/custom.ld"
	env := buildenv.New(buildenv.Options{ProjectDir: t.TempDir()})
	var buf bytes.Buffer

	got, err := LinkerScript(&Context{
		Board:    newBoard(t, m),
		Env:      env,
		Packages: newRegistry(root),
		Logger:   newLogger(&buf),
	})
	if err != nil {
		t.Fatalf("LinkerScript: %v", err)
	}
	if got != "boards/custom.ld" || env.GetOne(buildenv.VarLDScriptPath) != "boards/custom.ld" {
		t.Errorf("LinkerScript() = %q, LDSCRIPT_PATH = %q", got, env.GetOne(buildenv.VarLDScriptPath))
	}
	if !strings.Contains(buf.String(), "Using board defined linker script") {
		t.Errorf("expected pass-through log, got: %s", buf.String())
	}
}
