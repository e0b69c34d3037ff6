package cli

import (
	"fmt"

	"github.com/numicro-labs/m460/internal/cmsis"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ldscriptCmd)
}

var ldscriptCmd = &cobra.Command{
	Use:   "ldscript [env]",
	Short: "Resolve the linker script of an environment",
	Long: `Print the linker script an environment links with. A board defined
build.ldscript is used as is; otherwise the default script is generated once
into <build_dir>/FrameworkCMSIS/<product_line>_DEFAULT.ld from the template
shipped with the CMSIS device package.

The default script is not regenerated when the board's memory sizes change.
Remove it (or the build directory) to pick up new sizes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(envArg(args))
		if err != nil {
			return err
		}
		path, err := cmsis.LinkerScript(ws.cmsisContext())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}
