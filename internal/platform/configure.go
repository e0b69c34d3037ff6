package platform

import (
	"errors"
	"fmt"

	"github.com/numicro-labs/m460/internal/packages"
	"golang.org/x/exp/slices"
)

// FrameworkCMSIS is the framework name for the CMSIS framework.
const FrameworkCMSIS = "cmsis"

var (
	// ErrNoBoard is returned when a project environment names no board.
	ErrNoBoard = errors.New("the project configuration must specify a valid board for the current environment")
	// ErrNoMCU is returned when CMSIS is requested but no MCU is known.
	ErrNoMCU = errors.New("no valid MCU")
)

// PackageOptions are the project settings the package step looks at.
type PackageOptions struct {
	Board      string
	Frameworks []string
	// MCU overrides the board's build.mcu when set.
	MCU string
}

// DevicePackage returns the CMSIS device package for an MCU: the first three
// bytes of the MCU id, as given, followed by "0" (m467hjhae ->
// framework-cmsis-m460).
func DevicePackage(mcu string) string {
	prefix := mcu
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return "framework-cmsis-" + prefix + "0"
}

// ConfigureDefaultPackages marks the packages needed by a project
// environment as required.
//
// For CMSIS projects the MCU-specific device package is required first; an
// MCU must be known in that case. Then every requested framework's package
// and, for upload or debug targets, the board's debug tool packages are
// required. Toolchains are never optional.
func (p *Platform) ConfigureDefaultPackages(opts PackageOptions, targets []string) error {
	if opts.Board == "" {
		return ErrNoBoard
	}
	cfg, err := p.Board(opts.Board)
	if err != nil {
		return err
	}

	mcu := opts.MCU
	if mcu == "" {
		mcu = cfg.GetString("build.mcu", "")
	}

	if slices.Contains(opts.Frameworks, FrameworkCMSIS) {
		if mcu == "" {
			return fmt.Errorf("%w: either the project configuration or the definition of board %q must specify build.mcu", ErrNoMCU, opts.Board)
		}
		device := DevicePackage(mcu)
		if p.registry.Known(device) {
			if err := p.registry.Require(device); err != nil {
				return err
			}
		} else {
			p.logger.Warn("Missing CMSIS device package", "package", device, "mcu", mcu)
		}
	}

	for _, fw := range opts.Frameworks {
		spec, ok := p.manifest.Frameworks[fw]
		if !ok {
			return fmt.Errorf("framework %q is not supported by platform %s", fw, p.manifest.Name)
		}
		if err := p.registry.Require(spec.Package); err != nil {
			return fmt.Errorf("framework %s: %w", fw, err)
		}
	}

	for _, name := range p.registry.Names() {
		if spec, _ := p.registry.Spec(name); spec.Type == packages.TypeToolchain {
			if err := p.registry.Require(name); err != nil {
				return err
			}
		}
	}

	if slices.Contains(targets, "upload") || slices.Contains(targets, "debug") {
		for _, tool := range cfg.Manifest().Debug.Tools {
			pkg := tool.Server.Package
			if pkg == "" {
				continue
			}
			if !p.registry.Known(pkg) {
				p.logger.Warn("Debug tool refers to an unknown package", "package", pkg)
				continue
			}
			if err := p.registry.Require(pkg); err != nil {
				return err
			}
		}
	}

	return nil
}
