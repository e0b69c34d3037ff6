package board

import (
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Config is an immutable board configuration. It pairs the typed manifest
// with a generic map so that arbitrary dotted keys can be looked up the same
// way board definition files are documented ("build.mcu", "debug.tools").
type Config struct {
	id       string
	manifest Manifest
	raw      map[string]interface{}
}

// NewConfig builds a Config for the board with the given id. The manifest is
// copied; later changes to m are not observed.
func NewConfig(id string, m Manifest) (*Config, error) {
	own := m.Clone()

	data, err := yaml.Marshal(&own)
	if err != nil {
		return nil, fmt.Errorf("encoding board %s: %w", id, err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding board %s: %w", id, err)
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	return &Config{id: id, manifest: own, raw: raw}, nil
}

// ID returns the board identifier (the manifest file name without extension).
func (c *Config) ID() string { return c.id }

// Manifest returns a deep copy of the typed manifest.
func (c *Config) Manifest() Manifest { return c.manifest.Clone() }

// Raw returns a deep copy of the manifest as a generic map.
func (c *Config) Raw() map[string]interface{} {
	return cloneValue(c.raw).(map[string]interface{})
}

// Get looks up a dotted key such as "upload.maximum_ram_size".
func (c *Config) Get(key string) (interface{}, bool) {
	var cur interface{} = c.raw
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cloneValue(cur), true
}

// GetString returns the value at key formatted as a string, or def when the
// key is absent.
func (c *Config) GetString(key, def string) string {
	v, ok := c.Get(key)
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// GetInt returns the integer value at key, or def when the key is absent or
// not numeric.
func (c *Config) GetInt(key string, def int64) int64 {
	v, ok := c.Get(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 0, 64); err == nil {
			return i
		}
	}
	return def
}

// GetStrings returns the list at key. Scalars are returned as a one-element
// list; a missing key yields nil.
func (c *Config) GetStrings(key string) []string {
	v, ok := c.Get(key)
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return []string{val}
	default:
		return []string{fmt.Sprint(val)}
	}
}
