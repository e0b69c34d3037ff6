package debug

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/numicro-labs/m460/internal/board"
	"golang.org/x/exp/slices"
	"mvdan.cc/sh/v3/shell"
)

// ErrNoDebugTool is returned when a board offers no usable debug tool.
var ErrNoDebugTool = errors.New("no debug tool")

// SessionConfig is the debug server setup of one debug session.
type SessionConfig struct {
	Tool   string            `json:"tool" yaml:"tool"`
	Speed  string            `json:"speed,omitempty" yaml:"speed,omitempty"` // adapter speed in kHz; empty leaves the default
	Server board.DebugServer `json:"server" yaml:"server"`
}

// ConfigureSession returns a copy of cfg with the requested adapter speed
// applied. Only OpenOCD servers understand the speed argument; for any
// other server, or when no speed was requested, the copy is unchanged.
func ConfigureSession(cfg SessionConfig) SessionConfig {
	out := cfg
	out.Server.Arguments = slices.Clone(cfg.Server.Arguments)
	if cfg.Speed == "" {
		return out
	}
	if strings.Contains(strings.ToLower(cfg.Server.Executable), "openocd") {
		out.Server.Arguments = append(out.Server.Arguments, "-c", "adapter speed "+cfg.Speed)
	}
	return out
}

// SelectTool picks the debug tool for a session. An explicit name must exist
// in tools; otherwise the tool marked default wins, then an onboard tool, then
// the alphabetically first one.
func SelectTool(tools map[string]board.DebugTool, name string) (string, board.DebugTool, error) {
	if name != "" {
		tool, ok := tools[name]
		if !ok {
			return "", board.DebugTool{}, fmt.Errorf("%w %q for this board", ErrNoDebugTool, name)
		}
		return name, tool, nil
	}
	if len(tools) == 0 {
		return "", board.DebugTool{}, ErrNoDebugTool
	}

	names := make([]string, 0, len(tools))
	for n := range tools {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		if tools[n].Default {
			return n, tools[n], nil
		}
	}
	for _, n := range names {
		if tools[n].Onboard {
			return n, tools[n], nil
		}
	}
	return names[0], tools[names[0]], nil
}

// ResolveServer replaces $PACKAGE_DIR and ${PACKAGE_DIR} in the server's
// executable and arguments with packageDir, then appends extraArgs split with
// shell quoting rules. Other "$" references, such as OpenOCD Tcl variables,
// are passed through unchanged.
func ResolveServer(server board.DebugServer, packageDir, extraArgs string) (board.DebugServer, error) {
	pkg := strings.NewReplacer("${PACKAGE_DIR}", packageDir, "$PACKAGE_DIR", packageDir)

	out := server
	exe := pkg.Replace(server.Executable)
	if packageDir != "" && !filepath.IsAbs(exe) {
		exe = filepath.Join(packageDir, exe)
	}
	out.Executable = exe

	out.Arguments = make([]string, 0, len(server.Arguments))
	for _, arg := range server.Arguments {
		out.Arguments = append(out.Arguments, pkg.Replace(arg))
	}

	if strings.TrimSpace(extraArgs) != "" {
		env := func(name string) string {
			if name == "PACKAGE_DIR" {
				return packageDir
			}
			return ""
		}
		fields, err := shell.Fields(extraArgs, env)
		if err != nil {
			return board.DebugServer{}, fmt.Errorf("parsing extra server arguments: %w", err)
		}
		out.Arguments = append(out.Arguments, fields...)
	}
	return out, nil
}
