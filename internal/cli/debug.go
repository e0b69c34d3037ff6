package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/numicro-labs/m460/internal/debug"
	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/syntax"
)

var (
	debugTool  string
	debugSpeed string
	debugJSON  bool
)

func init() {
	debugCmd.Flags().StringVar(&debugTool, "tool", "", "Debug tool to use (overrides debug_tool)")
	debugCmd.Flags().StringVar(&debugSpeed, "speed", "", "Adapter speed in kHz (overrides debug_speed)")
	debugCmd.Flags().BoolVar(&debugJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(debugCmd)
}

var debugCmd = &cobra.Command{
	Use:   "debug [env]",
	Short: "Print the debug server command line of an environment",
	Long: `Select the environment's debug tool and print the command that starts its
debug server. $PACKAGE_DIR in server arguments is replaced by the tool
package's install directory, debug_server_extra_args are appended and a
requested adapter speed is passed to OpenOCD servers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDebug,
}

func runDebug(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(envArg(args))
	if err != nil {
		return err
	}

	toolName := debugTool
	if toolName == "" {
		toolName = ws.env.DebugTool
	}
	speed := debugSpeed
	if speed == "" {
		speed = ws.env.DebugSpeed
	}

	name, tool, err := debug.SelectTool(ws.board.Manifest().Debug.Tools, toolName)
	if err != nil {
		return fmt.Errorf("board %s: %w", ws.board.ID(), err)
	}

	var pkgDir string
	if tool.Server.Package != "" {
		pkgDir, err = ws.platform.Packages().Dir(tool.Server.Package)
		if err != nil {
			return fmt.Errorf("debug tool %s: %w", name, err)
		}
	}

	server, err := debug.ResolveServer(tool.Server, pkgDir, ws.env.DebugServerExtraArgs)
	if err != nil {
		return fmt.Errorf("debug tool %s: %w", name, err)
	}
	session := debug.ConfigureSession(debug.SessionConfig{Tool: name, Speed: speed, Server: server})

	out := cmd.OutOrStdout()
	if debugJSON {
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling debug session: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	line, err := commandLine(session.Server.Executable, session.Server.Arguments)
	if err != nil {
		return err
	}
	logger.Info("Debug server", "tool", name)
	fmt.Fprintln(out, line)
	return nil
}

// commandLine joins an executable and its arguments into a shell-quoted
// command line.
func commandLine(exe string, args []string) (string, error) {
	parts := make([]string, 0, len(args)+1)
	for _, s := range append([]string{exe}, args...) {
		q, err := syntax.Quote(s, syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("quoting %q: %w", s, err)
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " "), nil
}
