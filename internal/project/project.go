package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/numicro-labs/m460/internal/board"
	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// Project file names, in lookup order.
const (
	YAMLFile = "m460.yaml"
	TOMLFile = "m460.toml"
)

// BoardsDir is the project directory holding project-local board
// definitions.
const BoardsDir = "boards"

var (
	// ErrNoProject is returned when a directory has no project file.
	ErrNoProject = errors.New("no project file found")
	// ErrUnknownEnv is returned for environment names not in the project.
	ErrUnknownEnv = errors.New("unknown environment")
)

// Project is the decoded project file.
type Project struct {
	DefaultEnvs []string        `yaml:"default_envs,omitempty" toml:"default_envs,omitempty"`
	Envs        map[string]*Env `yaml:"envs" toml:"envs"`

	dir  string
	path string
}

// Env is one build environment of a project.
type Env struct {
	Board     string   `yaml:"board" toml:"board"`
	Framework []string `yaml:"framework,omitempty" toml:"framework,omitempty"`
	BuildDir  string   `yaml:"build_dir,omitempty" toml:"build_dir,omitempty"`
	Targets   []string `yaml:"targets,omitempty" toml:"targets,omitempty"`

	BoardBuild  map[string]interface{} `yaml:"board_build,omitempty" toml:"board_build,omitempty"`
	BoardUpload map[string]interface{} `yaml:"board_upload,omitempty" toml:"board_upload,omitempty"`
	BoardDebug  map[string]interface{} `yaml:"board_debug,omitempty" toml:"board_debug,omitempty"`

	DebugTool            string `yaml:"debug_tool,omitempty" toml:"debug_tool,omitempty"`
	DebugSpeed           string `yaml:"debug_speed,omitempty" toml:"debug_speed,omitempty"`
	DebugServerExtraArgs string `yaml:"debug_server_extra_args,omitempty" toml:"debug_server_extra_args,omitempty"`

	name string
}

// Find returns the project file in dir. YAML wins when both exist.
func Find(dir string) (string, error) {
	for _, name := range []string{YAMLFile, TOMLFile} {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s (expected %s or %s)", ErrNoProject, dir, YAMLFile, TOMLFile)
}

// Load reads the project file from dir.
func Load(dir string) (*Project, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads a project file. The format follows the file extension.
func LoadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project config: %w", err)
	}

	var p Project
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &p)
	default:
		err = yaml.Unmarshal(data, &p)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing project config %s: %w", path, err)
	}

	p.path = path
	p.dir = filepath.Dir(path)
	for name, env := range p.Envs {
		if env == nil {
			env = &Env{}
			p.Envs[name] = env
		}
		env.name = name
	}
	return &p, nil
}

// Save writes the project as YAML into dir.
func Save(dir string, p *Project) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling project config: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, YAMLFile), data, 0644); err != nil {
		return fmt.Errorf("writing project config: %w", err)
	}
	return nil
}

// Init creates a project in dir with one CMSIS environment named after the
// board, plus an empty boards directory.
func Init(dir, boardID string) (*Project, error) {
	if _, err := Find(dir); err == nil {
		return nil, fmt.Errorf("project already initialized in %s", dir)
	}
	if err := os.MkdirAll(filepath.Join(dir, BoardsDir), 0755); err != nil {
		return nil, fmt.Errorf("creating boards directory: %w", err)
	}

	p := &Project{
		DefaultEnvs: []string{boardID},
		Envs: map[string]*Env{
			boardID: {Board: boardID, Framework: []string{"cmsis"}},
		},
	}
	if err := Save(dir, p); err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(dir, YAMLFile))
}

// Dir returns the project directory.
func (p *Project) Dir() string { return p.dir }

// Path returns the project file path.
func (p *Project) Path() string { return p.path }

// BoardDirs returns the directories searched for project-local boards.
func (p *Project) BoardDirs() []string {
	return []string{filepath.Join(p.dir, BoardsDir)}
}

// EnvNames returns all environment names, sorted.
func (p *Project) EnvNames() []string {
	names := make([]string, 0, len(p.Envs))
	for name := range p.Envs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Env returns a named environment. An empty name selects the first default
// environment, or the only environment of the project.
func (p *Project) Env(name string) (*Env, error) {
	if name == "" {
		switch {
		case len(p.DefaultEnvs) > 0:
			name = p.DefaultEnvs[0]
		case len(p.Envs) == 1:
			name = p.EnvNames()[0]
		default:
			return nil, fmt.Errorf("%w: no environment given and no default_envs set (have %s)",
				ErrUnknownEnv, strings.Join(p.EnvNames(), ", "))
		}
	}
	env, ok := p.Envs[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownEnv, name)
	}
	return env, nil
}

// Name returns the environment name.
func (e *Env) Name() string { return e.name }

// Overrides returns the board overrides as dotted keys.
func (e *Env) Overrides() map[string]interface{} {
	out := make(map[string]interface{})
	for prefix, values := range map[string]map[string]interface{}{
		"build":  e.BoardBuild,
		"upload": e.BoardUpload,
		"debug":  e.BoardDebug,
	} {
		for k, v := range values {
			out[prefix+"."+k] = v
		}
	}
	return out
}

// MCU returns the board_build.mcu override, or "".
func (e *Env) MCU() string {
	if v, ok := e.BoardBuild["mcu"]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

// ApplyTo returns cfg with the environment's board overrides applied.
func (e *Env) ApplyTo(cfg *board.Config) (*board.Config, error) {
	return cfg.Override(e.Overrides())
}
