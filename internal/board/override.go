package board

import (
	"fmt"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Override returns a copy of the board with dotted keys replaced, such as
// {"build.mcu": "m467sjhan", "upload.maximum_size": 262144}. String values
// that read as YAML numbers or booleans are stored typed, so overrides taken
// from project files can target numeric fields.
func (c *Config) Override(values map[string]interface{}) (*Config, error) {
	if len(values) == 0 {
		return c, nil
	}

	raw := c.Raw()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := setPath(raw, key, scalar(values[key])); err != nil {
			return nil, fmt.Errorf("board %s: %w", c.id, err)
		}
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding board %s: %w", c.id, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("applying overrides to board %s: %w", c.id, err)
	}
	return NewConfig(c.id, m)
}

func setPath(root map[string]interface{}, key string, value interface{}) error {
	parts := strings.Split(key, ".")
	cur := root
	for i, part := range parts[:len(parts)-1] {
		next, ok := cur[part]
		if !ok || next == nil {
			child := map[string]interface{}{}
			cur[part] = child
			cur = child
			continue
		}
		child, ok := next.(map[string]interface{})
		if !ok {
			return fmt.Errorf("cannot set %q: %q is not a section", key, strings.Join(parts[:i+1], "."))
		}
		cur = child
	}
	cur[parts[len(parts)-1]] = value
	return nil
}

func scalar(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	var decoded interface{}
	if err := yaml.Unmarshal([]byte(s), &decoded); err != nil {
		return s
	}
	switch decoded.(type) {
	case int, int64, uint64, float64, bool:
		return decoded
	}
	return s
}
