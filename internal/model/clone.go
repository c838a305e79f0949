package model

import "maps"

// CloneMap returns a deep copy of a decoded configuration tree. Nested maps
// and slices are copied; scalars are shared.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}

	return out
}

// CloneValue deep copies the containers a YAML decoder produces.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneMap(t)
	case map[any]any:
		out := make(map[any]any, len(t))
		for k, e := range t {
			out[k] = CloneValue(e)
		}

		return out
	case map[string]string:
		return maps.Clone(t)
	case []any:
		if t == nil {
			return t
		}

		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}

		return out
	case []string:
		if t == nil {
			return t
		}

		return append([]string(nil), t...)
	default:
		return v
	}
}
