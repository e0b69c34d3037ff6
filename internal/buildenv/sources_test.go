package buildenv

import (
	"path/filepath"
	"reflect"
	"testing"
)

func deviceTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range []string{
		"Source/system_m460.c",
		"Source/GCC/startup_m460.S",
		"Source/GCC/semihosting.h",
		"StdDriver/src/uart.c",
		"StdDriver/src/gpio.c",
		"StdDriver/src/readme.txt",
		"StdDriver/inc/uart.h",
	} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(f)), "")
	}
	return root
}

func TestMatchFilter(t *testing.T) {
	root := deviceTree(t)

	tests := []struct {
		name   string
		filter []string
		want   []string
	}{
		{
			name:   "exclude all then include",
			filter: []string{"-<*>", "+<Source/system_m460.c>", "+<StdDriver/src/*.c>"},
			want:   []string{"Source/system_m460.c", "StdDriver/src/gpio.c", "StdDriver/src/uart.c"},
		},
		{
			name:   "directory selects everything below",
			filter: []string{"+<Source/GCC/>"},
			want:   []string{"Source/GCC/semihosting.h", "Source/GCC/startup_m460.S"},
		},
		{
			name:   "later exclude wins",
			filter: []string{"+<StdDriver>", "-<StdDriver/inc>", "-<StdDriver/src/*.txt>"},
			want:   []string{"StdDriver/src/gpio.c", "StdDriver/src/uart.c"},
		},
		{
			name:   "missing path selects nothing",
			filter: []string{"+<Nope/*.c>"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchFilter(root, tt.filter)
			if err != nil {
				t.Fatalf("MatchFilter error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MatchFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchFilter_InvalidEntry(t *testing.T) {
	if _, err := MatchFilter(t.TempDir(), []string{"src/*.c"}); err == nil {
		t.Fatal("expected error for entry without +<>/-<>, got nil")
	}
}

func TestParseFilter(t *testing.T) {
	got := ParseFilter("-<*> +<src/*.c>\n-<src/old.c>")
	want := []string{"-<*>", "+<src/*.c>", "-<src/old.c>"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFilter = %v, want %v", got, want)
	}
}

func TestBuildSources(t *testing.T) {
	root := deviceTree(t)
	e := New(Options{ProjectDir: "/proj", BuildDir: "/proj/build"})

	set, err := e.BuildSources("$BUILD_DIR/FrameworkCMSIS", root, []string{"-<*>", "+<Source/system_m460.c>"})
	if err != nil {
		t.Fatalf("BuildSources error: %v", err)
	}
	if set.VariantDir != "/proj/build/FrameworkCMSIS" {
		t.Errorf("VariantDir = %q", set.VariantDir)
	}
	if !reflect.DeepEqual(set.Files, []string{"Source/system_m460.c"}) {
		t.Errorf("Files = %v", set.Files)
	}
	if n := len(e.Sources()); n != 1 {
		t.Errorf("Sources len = %d, want 1", n)
	}
}
