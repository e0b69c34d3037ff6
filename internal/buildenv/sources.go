package buildenv

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/exp/slices"
)

// SourceSet is a group of sources compiled into a variant directory.
type SourceSet struct {
	VariantDir string   `json:"variant_dir" yaml:"variant_dir"`
	SrcDir     string   `json:"src_dir" yaml:"src_dir"`
	Filter     []string `json:"filter" yaml:"filter"`
	Files      []string `json:"files" yaml:"files"` // relative to SrcDir, sorted
}

var filterRe = regexp.MustCompile(`([+-])<([^>]*)>`)

// ParseFilter splits a filter string such as "-<*> +<src/*.c>" into its
// entries.
func ParseFilter(s string) []string {
	return filterRe.FindAllString(s, -1)
}

// BuildSources registers a source set. Filter entries are "+<glob>" or
// "-<glob>", applied in order; a glob matching a directory selects every file
// below it. Paths in variantDir and srcDir are substituted first.
func (e *Env) BuildSources(variantDir, srcDir string, filter []string) (*SourceSet, error) {
	variant, err := e.Subst(variantDir)
	if err != nil {
		return nil, err
	}
	src, err := e.Subst(srcDir)
	if err != nil {
		return nil, err
	}

	files, err := MatchFilter(src, filter)
	if err != nil {
		return nil, err
	}

	set := SourceSet{
		VariantDir: variant,
		SrcDir:     src,
		Filter:     slices.Clone(filter),
		Files:      files,
	}
	e.sources = append(e.sources, set)
	return &set, nil
}

// Sources returns a copy of the registered source sets.
func (e *Env) Sources() []SourceSet {
	out := make([]SourceSet, len(e.sources))
	for i, s := range e.sources {
		s.Filter = slices.Clone(s.Filter)
		s.Files = slices.Clone(s.Files)
		out[i] = s
	}
	return out
}

// MatchFilter evaluates filter entries against root and returns the selected
// files relative to root.
func MatchFilter(root string, filter []string) ([]string, error) {
	selected := make(map[string]bool)

	for _, entry := range filter {
		m := filterRe.FindStringSubmatch(strings.TrimSpace(entry))
		if m == nil {
			return nil, fmt.Errorf("invalid source filter entry %q", entry)
		}
		include := m[1] == "+"

		matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(m[2])))
		if err != nil {
			return nil, fmt.Errorf("source filter %q: %w", entry, err)
		}

		for _, match := range matches {
			files, err := expandMatch(root, match)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				if include {
					selected[f] = true
				} else {
					delete(selected, f)
				}
			}
		}
	}

	out := make([]string, 0, len(selected))
	for f := range selected {
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}

// expandMatch returns match (or every file below it, for a directory) as
// slash-separated paths relative to root.
func expandMatch(root, match string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(match, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", match, err)
	}
	return files, nil
}
