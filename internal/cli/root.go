package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/numicro-labs/m460/internal/branding"
	"github.com/numicro-labs/m460/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	projectDir string
	logLevel   string

	// logger is the build log shared by all commands.
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "m460"})
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` configures builds for Nuvoton NuMicro M460 boards: it selects
platform packages, generates default linker scripts, locates CMSIS startup
code and wires up OpenOCD debug servers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadErr := config.Load()
		level := logLevel
		if level == "" {
			level = config.LogLevel()
		}
		l, err := newLogger(cmd.ErrOrStderr(), level)
		if err != nil {
			return err
		}
		logger = l
		if loadErr != nil {
			logger.Warn("Ignoring config file", "err", loadErr)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project-dir", "d", ".", "Project directory containing m460.yaml or m460.toml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Build log level (debug, info, warn, error)")
}

// newLogger returns the build log writing to w at the given level.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: branding.CLIName(),
		Level:  lvl,
	}), nil
}

// versionString returns a formatted version string for display.
func versionString() string {
	if buildVersion == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", buildVersion, buildCommit, buildDate)
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
}
