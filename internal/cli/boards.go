package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/numicro-labs/m460/internal/board"
	"github.com/numicro-labs/m460/internal/config"
	"github.com/numicro-labs/m460/internal/platform"
	"github.com/numicro-labs/m460/internal/project"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var (
	boardsJSON bool

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

func init() {
	boardsCmd.PersistentFlags().BoolVar(&boardsJSON, "json", false, "Output in JSON format")
	boardsCmd.AddCommand(boardsListCmd)
	boardsCmd.AddCommand(boardsShowCmd)
	boardsCmd.AddCommand(boardsValidateCmd)
	rootCmd.AddCommand(boardsCmd)
}

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List, inspect and validate board definitions",
	Long: `List the builtin boards plus the boards defined in the project's boards/
directory. Project boards shadow builtin boards with the same id.`,
	Args: cobra.NoArgs,
	RunE: runBoardsList,
}

var boardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known boards",
	Args:  cobra.NoArgs,
	RunE:  runBoardsList,
}

var boardsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a board definition including generated debug tools",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoardsShow,
}

var boardsValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate board definition files against the board schema",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBoardsValidate,
}

// boardEntry is a board summary for display.
type boardEntry struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MCU       string   `json:"mcu"`
	RAM       int64    `json:"ram"`
	Flash     int64    `json:"flash"`
	Protocols []string `json:"protocols"`
}

// boardPlatform opens the platform with project boards when the current
// directory is a project, and with the builtin boards only otherwise.
func boardPlatform() (*platform.Platform, error) {
	var dirs []string
	p, err := project.Load(projectDir)
	switch {
	case err == nil:
		dirs = p.BoardDirs()
	case !errors.Is(err, project.ErrNoProject):
		return nil, err
	}
	return platform.New(platform.Options{
		PackagesDir: config.PackagesDir(),
		BoardDirs:   dirs,
		Logger:      logger,
	})
}

func runBoardsList(cmd *cobra.Command, args []string) error {
	plat, err := boardPlatform()
	if err != nil {
		return err
	}
	boards, err := plat.Boards()
	if err != nil {
		return err
	}

	entries := make([]boardEntry, 0, len(boards))
	for _, cfg := range boards {
		m := cfg.Manifest()
		entries = append(entries, boardEntry{
			ID:        cfg.ID(),
			Name:      m.Name,
			MCU:       m.Build.MCU,
			RAM:       m.Upload.MaximumRAMSize,
			Flash:     m.Upload.MaximumSize,
			Protocols: m.Upload.Protocols,
		})
	}

	out := cmd.OutOrStdout()
	if boardsJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling boards: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, headerStyle.Render("ID")+"\t"+headerStyle.Render("NAME")+"\t"+
		headerStyle.Render("MCU")+"\t"+headerStyle.Render("RAM")+"\t"+
		headerStyle.Render("FLASH")+"\t"+headerStyle.Render("PROTOCOLS"))
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Name, e.MCU, formatSize(e.RAM), formatSize(e.Flash), strings.Join(e.Protocols, ","))
	}
	return w.Flush()
}

func runBoardsShow(cmd *cobra.Command, args []string) error {
	plat, err := boardPlatform()
	if err != nil {
		return err
	}
	cfg, err := plat.Board(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if boardsJSON {
		data, err := json.MarshalIndent(cfg.Raw(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling board: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	data, err := yaml.Marshal(cfg.Raw())
	if err != nil {
		return fmt.Errorf("marshaling board: %w", err)
	}
	fmt.Fprintf(out, "%s %s\n\n", headerStyle.Render(cfg.ID()), hintStyle.Render("("+cfg.Manifest().Name+")"))
	fmt.Fprint(out, string(data))
	return nil
}

func runBoardsValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		res, err := board.ValidateFile(path)
		if err != nil {
			fmt.Fprintf(out, "%s %s: %v\n", errorStyle.Render("✗"), path, err)
			failed++
			continue
		}
		if res.Valid {
			fmt.Fprintf(out, "%s %s\n", okStyle.Render("✓"), path)
			continue
		}
		failed++
		fmt.Fprintf(out, "%s %s\n", errorStyle.Render("✗"), path)
		for _, issue := range res.Issues {
			loc := issue.Path
			if loc == "" {
				loc = "/"
			}
			fmt.Fprintf(out, "    %s: %s %s\n", loc, issue.Message, hintStyle.Render("("+issue.Keyword+")"))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d board definitions invalid", failed, len(args))
	}
	return nil
}

// formatSize renders a byte count in KB, or "-" when unknown.
func formatSize(n int64) string {
	if n <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dK", n/1024)
}
