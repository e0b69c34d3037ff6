package platform

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/numicro-labs/m460/internal/board"
	"github.com/numicro-labs/m460/internal/debug"
	"github.com/numicro-labs/m460/internal/packages"
)

//go:embed platform.json
var manifestBytes []byte

// Framework is a framework entry of the platform manifest.
type Framework struct {
	Package     string `json:"package"`
	Description string `json:"description,omitempty"`
}

// Manifest is the decoded platform manifest.
type Manifest struct {
	Name        string                   `json:"name"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Version     string                   `json:"version"`
	Frameworks  map[string]Framework     `json:"frameworks"`
	Packages    map[string]packages.Spec `json:"packages"`
}

// Options configures a Platform.
type Options struct {
	// PackagesDir holds installed packages, one directory per package.
	PackagesDir string
	// BoardDirs are extra directories with board definitions; later ones
	// shadow earlier ones and the builtin boards. Missing directories are
	// skipped.
	BoardDirs []string
	Logger    *log.Logger
}

// Platform is one configured instance of the M460 platform.
type Platform struct {
	manifest Manifest
	registry *packages.Registry
	boards   *board.Catalog
	logger   *log.Logger
}

// LoadManifest decodes the embedded platform manifest.
func LoadManifest() (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(manifestBytes, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing platform manifest: %w", err)
	}
	return m, nil
}

// New loads the platform manifest and board catalog.
func New(opts Options) (*Platform, error) {
	m, err := LoadManifest()
	if err != nil {
		return nil, err
	}

	boards, err := board.Builtin()
	if err != nil {
		return nil, fmt.Errorf("loading builtin boards: %w", err)
	}
	for _, dir := range opts.BoardDirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := boards.Load(os.DirFS(dir), "."); err != nil {
			return nil, fmt.Errorf("loading boards from %s: %w", dir, err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Platform{
		manifest: m,
		registry: packages.NewRegistry(m.Packages, opts.PackagesDir),
		boards:   boards,
		logger:   logger,
	}, nil
}

// Manifest returns the platform manifest.
func (p *Platform) Manifest() Manifest { return p.manifest }

// Packages returns the package registry.
func (p *Platform) Packages() *packages.Registry { return p.registry }

// Logger returns the build log.
func (p *Platform) Logger() *log.Logger { return p.logger }

// Board returns the board with the given id, with default debug tools added
// for its upload protocols.
func (p *Platform) Board(id string) (*board.Config, error) {
	cfg, err := p.boards.Get(id)
	if err != nil {
		return nil, err
	}
	return p.withDebugTools(cfg)
}

// Boards returns every known board, sorted by id, with default debug tools.
func (p *Platform) Boards() ([]*board.Config, error) {
	ids := p.boards.IDs()
	out := make([]*board.Config, 0, len(ids))
	for _, id := range ids {
		cfg, err := p.Board(id)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}

func (p *Platform) withDebugTools(cfg *board.Config) (*board.Config, error) {
	for _, probe := range debug.AddedTools(cfg.Manifest()) {
		p.logger.Debug("Creating OpenOCD definition for upload protocol", "board", cfg.ID(), "protocol", probe)
	}
	return debug.Augment(cfg)
}
