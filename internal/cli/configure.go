package cli

import (
	"encoding/json"
	"fmt"

	"github.com/numicro-labs/m460/internal/buildenv"
	"github.com/numicro-labs/m460/internal/cmsis"
	"github.com/numicro-labs/m460/internal/platform"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
	"golang.org/x/exp/slices"
)

var configureFormat string

func init() {
	configureCmd.Flags().StringVarP(&configureFormat, "format", "f", "yaml", "Output format (yaml, json)")
	rootCmd.AddCommand(configureCmd)
}

var configureCmd = &cobra.Command{
	Use:   "configure [env]",
	Short: "Configure the build environment and print it",
	Long: `Run the full configuration of a project environment: package selection,
bare-metal flags, CMSIS include paths, linker script and startup file, and the
CMSIS device source set. The resulting build environment is printed for a
build tool to consume.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigure,
}

// configuration is the printed result of configure.
type configuration struct {
	Env      string            `json:"env" yaml:"env"`
	Board    string            `json:"board" yaml:"board"`
	Packages []string          `json:"packages" yaml:"packages"`
	CMSIS    *cmsis.Result     `json:"cmsis,omitempty" yaml:"cmsis,omitempty"`
	Build    buildenv.Snapshot `json:"build" yaml:"build"`
}

func runConfigure(cmd *cobra.Command, args []string) error {
	if configureFormat != "yaml" && configureFormat != "json" {
		return fmt.Errorf("unsupported format %q (use yaml or json)", configureFormat)
	}

	ws, err := openWorkspace(envArg(args))
	if err != nil {
		return err
	}
	if err := ws.configurePackages(); err != nil {
		return err
	}

	result := configuration{
		Env:      ws.env.Name(),
		Board:    ws.board.ID(),
		Packages: ws.platform.Packages().Required(),
	}

	if slices.Contains(ws.env.Framework, platform.FrameworkCMSIS) {
		res, err := cmsis.Configure(ws.cmsisContext())
		if err != nil {
			return err
		}
		result.CMSIS = res
	} else {
		cmsis.ApplyBareFlags(ws.build, ws.board)
	}
	result.Build = ws.build.Snapshot()

	var data []byte
	if configureFormat == "json" {
		data, err = json.MarshalIndent(result, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yaml.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("marshaling configuration: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
