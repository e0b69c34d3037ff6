package cli

import (
	"fmt"

	"github.com/numicro-labs/m460/internal/board"
	"github.com/numicro-labs/m460/internal/buildenv"
	"github.com/numicro-labs/m460/internal/cmsis"
	"github.com/numicro-labs/m460/internal/config"
	"github.com/numicro-labs/m460/internal/debug"
	"github.com/numicro-labs/m460/internal/platform"
	"github.com/numicro-labs/m460/internal/project"
)

// workspace is everything a command needs to act on one project
// environment.
type workspace struct {
	project  *project.Project
	env      *project.Env
	platform *platform.Platform
	board    *board.Config
	build    *buildenv.Env
}

// openWorkspace loads the project in projectDir and resolves the named
// environment (or the default one when name is empty).
func openWorkspace(name string) (*workspace, error) {
	p, err := project.Load(projectDir)
	if err != nil {
		return nil, err
	}
	env, err := p.Env(name)
	if err != nil {
		return nil, err
	}
	if env.Board == "" {
		return nil, fmt.Errorf("environment %s: %w", env.Name(), platform.ErrNoBoard)
	}

	plat, err := platform.New(platform.Options{
		PackagesDir: config.PackagesDir(),
		BoardDirs:   p.BoardDirs(),
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	cfg, err := plat.Board(env.Board)
	if err != nil {
		return nil, err
	}
	cfg, err = env.ApplyTo(cfg)
	if err != nil {
		return nil, err
	}
	// Overrides may add upload protocols.
	cfg, err = debug.Augment(cfg)
	if err != nil {
		return nil, err
	}

	buildDir := env.BuildDir
	if buildDir == "" {
		buildDir = config.BuildDir()
	}

	return &workspace{
		project:  p,
		env:      env,
		platform: plat,
		board:    cfg,
		build: buildenv.New(buildenv.Options{
			ProjectDir: p.Dir(),
			BuildDir:   buildDir,
		}),
	}, nil
}

// configurePackages runs the package selection step for the environment.
func (w *workspace) configurePackages() error {
	return w.platform.ConfigureDefaultPackages(platform.PackageOptions{
		Board:      w.env.Board,
		Frameworks: w.env.Framework,
		MCU:        w.env.MCU(),
	}, w.env.Targets)
}

// cmsisContext returns the CMSIS configuration context of the workspace.
func (w *workspace) cmsisContext() *cmsis.Context {
	return &cmsis.Context{
		Board:    w.board,
		Env:      w.build,
		Packages: w.platform.Packages(),
		Logger:   logger,
	}
}

// envArg returns the optional environment argument.
func envArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
