package placeholder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pubcfg/internal/placeholder"
)

func lookupFrom(env map[string]string) placeholder.LookupFunc {
	return func(name string) (string, bool) {
		v, ok := env[name]

		return v, ok
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := placeholder.New(lookupFrom(map[string]string{
		"FOO":   "value",
		"EMPTY": "",
		"LOOP":  "${FOO}",
	}))

	tests := []struct {
		in   string
		want string
	}{
		{in: "${FOO:bar}", want: "value"},
		{in: "${MISSING:bar}", want: "bar"},
		{in: "${MISSING}", want: ""},
		{in: "${MISSING:}", want: ""},
		{in: "${ FOO }", want: "value"},
		{in: "${EMPTY:fallback}", want: ""},
		{in: "pre-${FOO}-${MISSING:x}-post", want: "pre-value-x-post"},
		{in: "${LOOP}", want: "${FOO}"},
		{in: "no tokens", want: "no tokens"},
		{in: "${unterminated", want: "${unterminated"},
		{in: "${URL:https://example.com}", want: "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, r.Resolve(tt.in))
		})
	}
}

func TestResolve_ProcessEnvironment(t *testing.T) {
	t.Setenv("PUBCFG_PLACEHOLDER_TEST", "from-env")

	r := placeholder.New(nil)
	assert.Equal(t, "from-env", r.Resolve("${PUBCFG_PLACEHOLDER_TEST:bar}"))
	assert.Equal(t, "bar", r.Resolve("${PUBCFG_PLACEHOLDER_UNSET:bar}"))
}

func TestValue_Tree(t *testing.T) {
	t.Parallel()

	r := placeholder.New(lookupFrom(map[string]string{"KEY": "k1"}))

	inner := map[string]any{"name": "${KEY}"}
	tree := map[string]any{
		"keyname": "${KEY}",
		"skip":    true,
		"count":   3,
		"nested":  inner,
		"list":    []any{"${KEY}", 1.5, map[string]any{"deep": "${NONE:d}"}},
		"flat":    map[string]string{"x": "${KEY}"},
	}

	got, err := r.Value(tree)
	require.NoError(t, err)

	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "k1", m["keyname"])
	assert.Equal(t, true, m["skip"])
	assert.Equal(t, 3, m["count"])
	assert.Equal(t, "k1", inner["name"], "nested maps are mutated in place")
	assert.Equal(t, "k1", tree["list"].([]any)[0])
	assert.Equal(t, "d", tree["list"].([]any)[2].(map[string]any)["deep"])
	assert.Equal(t, "k1", tree["flat"].(map[string]string)["x"])
}

func TestValue_MapKeys(t *testing.T) {
	t.Parallel()

	r := placeholder.New(lookupFrom(map[string]string{"PROFILE": "release"}))

	cfg := map[string]any{
		"${PROFILE}.skip": true,
		"plain":           "${PROFILE}",
		"props":           map[string]string{"${PROFILE:dev}.id": "x"},
		"raw":             map[any]any{"${MISSING:fallback}": "${PROFILE}", 7: "seven"},
	}

	require.NoError(t, r.Map(cfg))

	assert.Equal(t, map[string]any{
		"release.skip": true,
		"plain":        "release",
		"props":        map[string]string{"release.id": "x"},
		"raw":          map[any]any{"fallback": "release", 7: "seven"},
	}, cfg)
}

type record struct {
	Name string
	Tags []string
}

func (rec *record) ResolvePlaceholders(r *placeholder.Resolver) error {
	r.String(&rec.Name)
	r.Strings(rec.Tags)

	return nil
}

func TestValue_Resolvable(t *testing.T) {
	t.Parallel()

	r := placeholder.New(lookupFrom(map[string]string{"N": "n"}))
	rec := &record{Name: "${N}", Tags: []string{"${N}-tag"}}

	got, err := r.Value([]any{rec})
	require.NoError(t, err)
	assert.Same(t, rec, got.([]any)[0])
	assert.Equal(t, "n", rec.Name)
	assert.Equal(t, []string{"n-tag"}, rec.Tags)
}

func TestValue_UnsupportedType(t *testing.T) {
	t.Parallel()

	r := placeholder.New(lookupFrom(nil))

	_, err := r.Value(map[string]any{"bad": struct{ X string }{X: "${A}"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "bad"`)
}
