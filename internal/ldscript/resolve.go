package ldscript

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/numicro-labs/m460/internal/board"
	"github.com/numicro-labs/m460/internal/buildenv"
)

// VariantDir is the build subdirectory that holds CMSIS outputs, including
// the generated default linker script.
const VariantDir = "FrameworkCMSIS"

// DefaultPath returns where the default linker script for a product line is
// generated.
func DefaultPath(buildDir, productLine string) string {
	return filepath.Join(buildDir, VariantDir, productLine+"_DEFAULT.ld")
}

// TemplateName returns the platform template name for a product line.
func TemplateName(productLine string) string {
	return productLine + ".ld"
}

// Resolve returns the linker script to use for the board.
//
// A board-defined build.ldscript is returned unchanged. Otherwise the default
// script in the build directory is reused when present, or generated from the
// template found through env.GetActualLDScript. An existing default script is
// never regenerated, even when the board's sizes have changed since; delete
// the build directory to pick up new sizes.
func Resolve(env *buildenv.Env, cfg *board.Config, logger *log.Logger) (string, error) {
	if logger == nil {
		logger = log.Default()
	}

	if custom := cfg.GetString("build.ldscript", ""); custom != "" {
		logger.Info("Using board defined linker script", "path", custom)
		return custom, nil
	}

	line, err := cfg.ProductLine()
	if err != nil {
		return "", err
	}

	scriptPath := DefaultPath(env.BuildDir(), line)
	if info, err := os.Stat(scriptPath); err == nil && !info.IsDir() {
		logger.Debug("Reusing default linker script", "path", scriptPath)
		return scriptPath, nil
	}

	name := TemplateName(line)
	env.Replace(buildenv.VarLDScriptPath, name)
	logger.Info("Generating default linker script from platform template", "template", name)

	templatePath, err := env.GetActualLDScript()
	if err != nil {
		return "", fmt.Errorf("locating linker script template: %w", err)
	}

	sizes := Sizes{
		RAM:   cfg.GetInt("upload.maximum_ram_size", 0),
		Flash: cfg.GetInt("upload.maximum_size", 0),
	}
	if err := Generate(templatePath, scriptPath, sizes, logger); err != nil {
		return "", err
	}
	return scriptPath, nil
}
