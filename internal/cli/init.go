package cli

import (
	"fmt"
	"path/filepath"

	"github.com/numicro-labs/m460/internal/project"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init <board>",
	Short: "Create a project for a board",
	Long: `Create m460.yaml in the project directory with one CMSIS environment for
the given board, plus a boards/ directory for project-local board definitions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plat, err := boardPlatform()
		if err != nil {
			return err
		}
		if _, err := plat.Board(args[0]); err != nil {
			return err
		}

		p, err := project.Init(projectDir, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", filepath.Clean(p.Path()))
		return nil
	},
}
