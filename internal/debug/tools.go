package debug

import (
	"github.com/numicro-labs/m460/internal/board"
	"golang.org/x/exp/slices"
)

// OpenOCD tool package and executable used for generated definitions.
const (
	OpenOCDPackage    = "tool-openocd-nuvoton"
	OpenOCDExecutable = "bin/openocd"
	openOCDTarget     = "target/numicroM4.cfg"
	openOCDScripts    = "$PACKAGE_DIR/openocd/scripts"
)

// Probes is the closed set of upload protocols that map to a debug probe
// with a default OpenOCD definition.
var Probes = []string{"nulink"}

// transportFor returns the OpenOCD transport for a probe.
func transportFor(probe string) string {
	if probe == "nulink" {
		return "hla_swd"
	}
	return "swd"
}

// WithDefaultTools returns a copy of the manifest in which every probe from
// Probes that is listed in upload.protocols but has no debug.tools entry gets
// a default OpenOCD definition. Existing entries are kept as they are. The
// result always carries a non-nil tools map; m itself is not modified.
func WithDefaultTools(m board.Manifest) board.Manifest {
	out := m.Clone()
	if out.Debug.Tools == nil {
		out.Debug.Tools = make(map[string]board.DebugTool)
	}

	for _, probe := range Probes {
		if !slices.Contains(out.Upload.Protocols, probe) {
			continue
		}
		if _, ok := out.Debug.Tools[probe]; ok {
			continue
		}
		out.Debug.Tools[probe] = defaultTool(probe, out.Debug)
	}
	return out
}

// AddedTools lists the probes WithDefaultTools would add for m.
func AddedTools(m board.Manifest) []string {
	var added []string
	for _, probe := range Probes {
		if _, ok := m.Debug.Tools[probe]; ok {
			continue
		}
		if slices.Contains(m.Upload.Protocols, probe) {
			added = append(added, probe)
		}
	}
	return added
}

func defaultTool(probe string, dbg board.DebugSection) board.DebugTool {
	args := []string{"-s", openOCDScripts}
	if dbg.OpenOCDBoard != "" {
		args = append(args, "-f", "board/"+dbg.OpenOCDBoard+".cfg")
	} else {
		args = append(args,
			"-f", "interface/"+probe+".cfg",
			"-c", "transport select "+transportFor(probe),
			"-f", openOCDTarget,
		)
		args = append(args, dbg.OpenOCDExtraArgs...)
	}

	return board.DebugTool{
		Server: board.DebugServer{
			Package:    OpenOCDPackage,
			Executable: OpenOCDExecutable,
			Arguments:  args,
		},
		Onboard: slices.Contains(dbg.OnboardTools, probe),
		Default: slices.Contains(dbg.DefaultTools, probe),
	}
}

// Augment applies WithDefaultTools to a loaded board configuration.
func Augment(cfg *board.Config) (*board.Config, error) {
	return board.NewConfig(cfg.ID(), WithDefaultTools(cfg.Manifest()))
}
