package board

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed boards/*.json
var builtinFS embed.FS

// ErrUnknownBoard is returned when a board id is not in the catalog.
var ErrUnknownBoard = errors.New("unknown board")

// boardExts lists the file extensions recognized as board definitions.
var boardExts = map[string]bool{".json": true, ".yaml": true, ".yml": true}

// Catalog is a set of board definitions indexed by id.
type Catalog struct {
	boards map[string]*Config
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{boards: make(map[string]*Config)}
}

// Builtin returns the boards shipped with the platform.
func Builtin() (*Catalog, error) {
	c := NewCatalog()
	if err := c.Load(builtinFS, "boards"); err != nil {
		return nil, err
	}
	return c, nil
}

// Load adds every board definition found directly in dir of fsys. Boards
// loaded later replace earlier ones with the same id, so project-local
// definitions can shadow the builtin set.
func (c *Catalog) Load(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("reading boards directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !boardExts[path.Ext(entry.Name())] {
			continue
		}
		p := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading board %s: %w", p, err)
		}
		cfg, err := ParseBytes(idFromPath(entry.Name()), data)
		if err != nil {
			return err
		}
		c.Add(cfg)
	}
	return nil
}

// Add inserts or replaces a board.
func (c *Catalog) Add(cfg *Config) {
	c.boards[cfg.ID()] = cfg
}

// Get returns the board with the given id.
func (c *Catalog) Get(id string) (*Config, error) {
	cfg, ok := c.boards[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownBoard, id)
	}
	return cfg, nil
}

// IDs returns all board ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.boards))
	for id := range c.boards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of boards.
func (c *Catalog) Len() int { return len(c.boards) }
