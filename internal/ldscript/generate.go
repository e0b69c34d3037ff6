package ldscript

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
)

// Template placeholders filled from the board's upload limits.
const (
	KeyRAMSize   = "CMramSize"
	KeyFlashSize = "CMflashSize"
)

// Sizes are the memory limits of a board, in bytes.
type Sizes struct {
	RAM   int64
	Flash int64
}

// KiB truncates a byte count to whole kibibytes.
func KiB(bytes int64) int64 {
	return bytes / 1024
}

// Values returns the template values for the sizes.
func (s Sizes) Values() map[string]string {
	return map[string]string{
		KeyRAMSize:   strconv.FormatInt(KiB(s.RAM), 10),
		KeyFlashSize: strconv.FormatInt(KiB(s.Flash), 10),
	}
}

// Render rewrites the template's placeholders and fills in the sizes.
func Render(template string, sizes Sizes) (string, error) {
	return Substitute(RewritePlaceholders(template), sizes.Values())
}

// Generate renders the template at templatePath into scriptPath, creating
// parent directories. A zero RAM or flash size is logged but not fatal.
func Generate(templatePath, scriptPath string, sizes Sizes, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	if sizes.RAM == 0 || sizes.Flash == 0 {
		logger.Warn("either RAM or flash size is zero in upload config of board definition; "+
			"the default linker script may not work. Provide both sizes in the board definition "+
			"or use a custom linker script for the board",
			"ram", sizes.RAM, "flash", sizes.Flash)
	}

	data, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("reading linker script template: %w", err)
	}

	script, err := Render(string(data), sizes)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", templatePath, err)
	}

	if err := os.MkdirAll(filepath.Dir(scriptPath), 0755); err != nil {
		return fmt.Errorf("creating linker script directory: %w", err)
	}
	if err := os.WriteFile(scriptPath, []byte(script), 0644); err != nil {
		return fmt.Errorf("writing linker script: %w", err)
	}
	return nil
}
