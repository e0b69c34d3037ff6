package board

import (
	"golang.org/x/exp/slices"
)

// Clone returns a deep copy of the manifest.
func (m Manifest) Clone() Manifest {
	out := m
	out.Frameworks = slices.Clone(m.Frameworks)
	out.Extra = cloneMap(m.Extra)

	out.Build.Extra = cloneMap(m.Build.Extra)

	out.Upload.Protocols = slices.Clone(m.Upload.Protocols)
	out.Upload.Extra = cloneMap(m.Upload.Extra)

	out.Debug = m.Debug.Clone()
	return out
}

// Clone returns a deep copy of the debug section.
func (d DebugSection) Clone() DebugSection {
	out := d
	out.OpenOCDExtraArgs = slices.Clone(d.OpenOCDExtraArgs)
	out.OnboardTools = slices.Clone(d.OnboardTools)
	out.DefaultTools = slices.Clone(d.DefaultTools)
	out.Extra = cloneMap(d.Extra)
	if d.Tools != nil {
		out.Tools = make(map[string]DebugTool, len(d.Tools))
		for name, tool := range d.Tools {
			out.Tools[name] = tool.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the tool.
func (t DebugTool) Clone() DebugTool {
	out := t
	out.Server.Arguments = slices.Clone(t.Server.Arguments)
	return out
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	return cloneValue(m).(map[string]interface{})
}

// cloneValue deep-copies values produced by YAML decoding.
func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[k] = cloneValue(item)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, item := range val {
			a[i] = cloneValue(item)
		}
		return a
	default:
		return val
	}
}
