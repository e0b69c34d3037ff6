package cmsis

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// StartupFile returns the path of the GCC startup file for a product line
// below sourcesPath, or "" when there is none.
//
// Only the lower-case startup_<line>.s is returned. An upper-case
// startup_<line>.S silences the missing-file warning but is not returned;
// the source filter built from an empty name then selects the whole GCC
// directory, which still compiles it.
func StartupFile(sourcesPath, productLine string, logger *log.Logger) string {
	if logger == nil {
		logger = log.Default()
	}

	lower := filepath.Join(sourcesPath, "GCC", "startup_"+productLine+".s")
	upper := filepath.Join(sourcesPath, "GCC", "startup_"+productLine+".S")

	if isFile(lower) {
		logger.Info("Using startup file", "product_line", productLine, "path", lower)
		return lower
	}
	if !isFile(upper) {
		logger.Warn("could not find startup file in source directory of CMSIS package; "+
			"ignore this if the startup file is part of your project",
			"file", "startup_"+productLine+"(.S|.s)")
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
