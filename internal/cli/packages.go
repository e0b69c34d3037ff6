package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var packagesJSON bool

func init() {
	packagesCmd.Flags().BoolVar(&packagesJSON, "json", false, "Output in JSON format")
	packagesCmd.AddCommand(packagesInstallCmd)
	packagesCmd.AddCommand(packagesRemoveCmd)
	rootCmd.AddCommand(packagesCmd)
}

var packagesInstallCmd = &cobra.Command{
	Use:   "install <name> <dir>",
	Short: "Install a platform package from a local directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		plat, err := boardPlatform()
		if err != nil {
			return err
		}
		inst, err := plat.Packages().Install(args[0], args[1])
		if err != nil {
			return err
		}
		version := inst.Version
		if version == "" {
			version = "unversioned"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Installed %s (%s) to %s\n", inst.Name, version, inst.Dir)
		return nil
	},
}

var packagesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an installed platform package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plat, err := boardPlatform()
		if err != nil {
			return err
		}
		if err := plat.Packages().Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

var packagesCmd = &cobra.Command{
	Use:   "packages [env]",
	Short: "Show the platform packages an environment needs",
	Long: `Run package selection for a project environment and report every platform
package with its installation state. Packages are looked up in packages_dir
(default ~/.m460/packages).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPackages,
}

// packageEntry is a package status for display.
type packageEntry struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Version  string `json:"version,omitempty"`
	Dir      string `json:"dir,omitempty"`
	Error    string `json:"error,omitempty"`
}

func runPackages(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(envArg(args))
	if err != nil {
		return err
	}
	if err := ws.configurePackages(); err != nil {
		return err
	}

	var entries []packageEntry
	missing := 0
	for _, st := range ws.platform.Packages().Statuses() {
		e := packageEntry{
			Name:     st.Name,
			Type:     st.Spec.Type,
			Required: st.Required,
			Version:  st.Version,
			Dir:      st.Dir,
		}
		if st.Err != nil {
			e.Error = st.Err.Error()
			if st.Required {
				missing++
			}
		}
		entries = append(entries, e)
	}

	out := cmd.OutOrStdout()
	if packagesJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling packages: %w", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, headerStyle.Render("PACKAGE")+"\t"+headerStyle.Render("TYPE")+"\t"+
			headerStyle.Render("REQUIRED")+"\t"+headerStyle.Render("STATUS"))
		for _, e := range entries {
			required := "no"
			if e.Required {
				required = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Type, required, packageStatus(e))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if missing > 0 {
		return fmt.Errorf("%d required package(s) missing or invalid", missing)
	}
	return nil
}

func packageStatus(e packageEntry) string {
	switch {
	case e.Error != "":
		return errorStyle.Render(e.Error)
	case e.Version != "":
		return okStyle.Render(e.Version)
	default:
		return okStyle.Render("installed")
	}
}
