// Package placeholder substitutes ${NAME} and ${NAME:default} tokens with
// environment values.
package placeholder

import (
	"fmt"
	"maps"
	"os"
	"regexp"
	"slices"
	"strings"
)

var tokenRe = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)

// LookupFunc returns the value of a variable and whether it is set.
type LookupFunc func(name string) (string, bool)

// Resolvable is implemented by record types that visit their own string
// fields.
type Resolvable interface {
	ResolvePlaceholders(r *Resolver) error
}

// Resolver replaces tokens using a lookup function.
type Resolver struct {
	lookup LookupFunc
}

// New returns a Resolver backed by lookup. A nil lookup reads the process
// environment.
func New(lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	return &Resolver{lookup: lookup}
}

// Resolve replaces every token in s. An unset variable yields its default, or
// "" when none was given. Substituted text is not scanned again.
func (r *Resolver) Resolve(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}

	return tokenRe.ReplaceAllStringFunc(s, func(tok string) string {
		m := tokenRe.FindStringSubmatch(tok)
		if v, ok := r.lookup(strings.TrimSpace(m[1])); ok {
			return v
		}

		return m[2]
	})
}

// String resolves the string pointed to by p in place.
func (r *Resolver) String(p *string) {
	if p != nil {
		*p = r.Resolve(*p)
	}
}

// Strings resolves every element of ss in place.
func (r *Resolver) Strings(ss []string) {
	for i := range ss {
		ss[i] = r.Resolve(ss[i])
	}
}

// Value resolves a decoded value tree. Maps and slices are rewritten in place
// and the same container is returned; strings come back substituted and other
// scalars unchanged. String map keys are resolved too.
func (r *Resolver) Value(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, int, int64, uint64, float64:
		return t, nil
	case string:
		return r.Resolve(t), nil
	case []string:
		r.Strings(t)

		return t, nil
	case []any:
		for i := range t {
			rv, err := r.Value(t[i])
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}

			t[i] = rv
		}

		return t, nil
	case map[string]string:
		resolved := make(map[string]string, len(t))
		for _, k := range slices.Sorted(maps.Keys(t)) {
			resolved[r.Resolve(k)] = r.Resolve(t[k])
		}

		clear(t)
		maps.Copy(t, resolved)

		return t, nil
	case map[string]any:
		if err := r.Map(t); err != nil {
			return nil, err
		}

		return t, nil
	case map[any]any:
		resolved := make(map[any]any, len(t))
		for k, e := range t {
			rv, err := r.Value(e)
			if err != nil {
				return nil, fmt.Errorf("key %v: %w", k, err)
			}

			if ks, ok := k.(string); ok {
				k = r.Resolve(ks)
			}

			resolved[k] = rv
		}

		clear(t)
		maps.Copy(t, resolved)

		return t, nil
	case Resolvable:
		if err := t.ResolvePlaceholders(r); err != nil {
			return nil, err
		}

		return t, nil
	default:
		return nil, fmt.Errorf("cannot resolve placeholders in value of type %T", v)
	}
}

// Map resolves every key and value of m in place. When two keys resolve to
// the same name the one sorting last wins.
func (r *Resolver) Map(m map[string]any) error {
	resolved := make(map[string]any, len(m))

	for _, k := range slices.Sorted(maps.Keys(m)) {
		rv, err := r.Value(m[k])
		if err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}

		resolved[r.Resolve(k)] = rv
	}

	clear(m)
	maps.Copy(m, resolved)

	return nil
}
