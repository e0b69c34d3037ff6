package cmsis

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/numicro-labs/m460/internal/buildenv"
	"github.com/numicro-labs/m460/internal/ldscript"
)

// Result describes what Configure resolved.
type Result struct {
	ProductLine string              `json:"product_line" yaml:"product_line"`
	CoreDir     string              `json:"core_dir" yaml:"core_dir"`
	DeviceDir   string              `json:"device_dir" yaml:"device_dir"`
	LDScript    string              `json:"ldscript" yaml:"ldscript"`
	StartupFile string              `json:"startup_file,omitempty" yaml:"startup_file,omitempty"`
	Sources     *buildenv.SourceSet `json:"sources" yaml:"sources"`
}

// SourceFilter returns the filter selecting the device sources compiled for
// a product line. startup is the startup file path; only its base name is
// used and an empty path selects the whole GCC directory.
func SourceFilter(productLine, startup string) []string {
	name := ""
	if startup != "" {
		name = filepath.Base(startup)
	}
	return []string{
		"-<*>",
		"+<Source/system_" + productLine + ".c>",
		"+<Source/GCC/" + name + ">",
		"+<StdDriver/src/*.c>",
	}
}

// Configure sets up ctx.Env for building against CMSIS.
func Configure(ctx *Context) (*Result, error) {
	logger := ctx.logger()

	line, err := ctx.Board.ProductLine()
	if err != nil {
		return nil, err
	}

	ApplyBareFlags(ctx.Env, ctx.Board)

	coreDir, err := ctx.Packages.Dir(CorePackage)
	if err != nil {
		return nil, err
	}
	if !isDir(coreDir) {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrPackageLayout, coreDir)
	}
	deviceDir, err := ctx.deviceDir(line)
	if err != nil {
		return nil, err
	}
	sourcesDir := filepath.Join(deviceDir, "Source")

	script, err := ctx.linkerScript(sourcesDir)
	if err != nil {
		return nil, err
	}

	startup := StartupFile(sourcesDir, line, logger)

	ctx.Env.Append(buildenv.VarCPPPath,
		filepath.Join(coreDir, "CMSIS", "Include"),
		filepath.Join(deviceDir, "Include"),
		filepath.Join(deviceDir, "Source", "GCC"),
		filepath.Join(deviceDir, "StdDriver", "inc"),
	)
	ctx.Env.Append(buildenv.VarLinkFlags, "--specs=nano.specs", "--specs=nosys.specs")

	set, err := ctx.Env.BuildSources(path.Join("$BUILD_DIR", ldscript.VariantDir), deviceDir, SourceFilter(line, startup))
	if err != nil {
		return nil, fmt.Errorf("registering CMSIS sources: %w", err)
	}

	return &Result{
		ProductLine: line,
		CoreDir:     coreDir,
		DeviceDir:   deviceDir,
		LDScript:    script,
		StartupFile: startup,
		Sources:     set,
	}, nil
}

// LinkerScript resolves the board's linker script and stores it in
// LDSCRIPT_PATH. The device package must be installed since it provides the
// linker script templates.
func LinkerScript(ctx *Context) (string, error) {
	line, err := ctx.Board.ProductLine()
	if err != nil {
		return "", err
	}
	deviceDir, err := ctx.deviceDir(line)
	if err != nil {
		return "", err
	}
	return ctx.linkerScript(filepath.Join(deviceDir, "Source"))
}

// deviceDir returns the device package directory for a product line. The
// package and its Source directory must exist.
func (c *Context) deviceDir(line string) (string, error) {
	dir, err := c.Packages.Dir(DevicePackagePrefix + line)
	if err != nil {
		return "", err
	}
	if !isDir(filepath.Join(dir, "Source")) {
		return "", fmt.Errorf("%w: %s has no Source directory", ErrPackageLayout, dir)
	}
	return dir, nil
}

func (c *Context) linkerScript(sourcesDir string) (string, error) {
	// Linker script templates ship next to the GCC startup code.
	c.Env.Append(buildenv.VarLibPath, filepath.Join(sourcesDir, "GCC"))

	script, err := ldscript.Resolve(c.Env, c.Board, c.logger())
	if err != nil {
		return "", err
	}
	c.Env.Replace(buildenv.VarLDScriptPath, script)
	return script, nil
}
