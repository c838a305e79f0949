package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pubcfg/internal/model"
)

func TestMetadataBuilder_Plugin(t *testing.T) {
	t.Parallel()

	info := model.PluginStrategyInfo{
		Coordinates:   model.Coordinates{GroupID: "g", ArtifactID: "a", Version: "1"},
		Goal:          "sign",
		Configuration: map[string]any{"skip": true},
		ExpandTags:    []string{"x"},
	}

	meta, err := model.NewMetadataBuilder(model.KindPlugin).
		ID("gpg").
		Title("GPG").
		SerialNumber(7).
		StrategyID(model.StrategyIDPrefix + "gpg").
		BaseStrategyInfo(model.BaseStrategyInfo{Order: 2, Enabled: true, Dependencies: []string{"src"}}).
		Plugin(info).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "gpg", meta.ID())
	assert.Equal(t, "GPG", meta.Title())
	assert.Equal(t, 7, meta.SerialNumber())
	assert.Equal(t, "strategy-gpg", meta.StrategyID())
	assert.Equal(t, "plugin", meta.StrategyType())
	assert.True(t, meta.IsExecutable())

	got, ok := meta.Plugin()
	require.True(t, ok)
	assert.Equal(t, "g:a:1", got.String())

	_, ok = meta.Dependency()
	assert.False(t, ok)
	_, ok = meta.License()
	assert.False(t, ok)

	// Mutating the source or a returned copy must not leak into the metadata.
	info.ExpandTags[0] = "changed"
	got.Configuration["skip"] = false
	base := meta.BaseStrategyInfo()
	base.Dependencies[0] = "changed"

	again, _ := meta.Plugin()
	assert.Equal(t, []string{"x"}, again.ExpandTags)
	assert.Equal(t, true, again.Configuration["skip"])
	assert.Equal(t, []string{"src"}, meta.BaseStrategyInfo().Dependencies)
}

func TestMetadataBuilder_License(t *testing.T) {
	t.Parallel()

	meta, err := model.NewMetadataBuilder(model.KindLicense).
		ID("apache").
		License(model.LicenseStrategyInfo{Name: "Apache-2.0", URL: "https://x", Distribution: "repo"}, "Apache-2.0").
		Build()
	require.NoError(t, err)

	lic, ok := meta.License()
	require.True(t, ok)
	assert.Equal(t, "Apache-2.0", lic.Name)
	assert.Equal(t, "Apache-2.0", meta.LicenseType())
	assert.False(t, meta.IsExecutable())
}

func TestMetadataBuilder_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		builder *model.MetadataBuilder
	}{
		{
			name:    "unknown kind",
			builder: model.NewMetadataBuilder(model.Kind("bogus")).ID("x"),
		},
		{
			name:    "missing id",
			builder: model.NewMetadataBuilder(model.KindPlugin),
		},
		{
			name: "payload mismatch",
			builder: model.NewMetadataBuilder(model.KindDependency).ID("x").
				Plugin(model.PluginStrategyInfo{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.builder.Build()
			require.Error(t, err)
		})
	}
}

func TestMetadataBuilder_SingleUse(t *testing.T) {
	t.Parallel()

	b := model.NewMetadataBuilder(model.KindPlugin).ID("x")

	_, err := b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	require.Error(t, err)
}

func TestMetadataBuilder_PluginDeepCopy(t *testing.T) {
	t.Parallel()

	nested := map[string]any{"b": "x"}
	list := []any{"one", map[string]any{"k": "v"}}
	info := model.PluginStrategyInfo{
		Configuration: map[string]any{"a": nested, "list": list},
		Executions:    map[string]any{"e": map[string]any{"goals": []any{"sign"}}},
	}

	meta, err := model.NewMetadataBuilder(model.KindPlugin).ID("gpg").Plugin(info).Build()
	require.NoError(t, err)

	nested["b"] = "from-source"
	list[1].(map[string]any)["k"] = "from-source"

	got, _ := meta.Plugin()
	got.Configuration["a"].(map[string]any)["c"] = "from-accessor"
	got.Executions["e"].(map[string]any)["goals"].([]any)[0] = "from-accessor"

	again, _ := meta.Plugin()
	assert.Equal(t, map[string]any{"b": "x"}, again.Configuration["a"])
	assert.Equal(t, []any{"one", map[string]any{"k": "v"}}, again.Configuration["list"])
	assert.Equal(t, map[string]any{"goals": []any{"sign"}}, again.Executions["e"])
}

func TestCloneValue(t *testing.T) {
	t.Parallel()

	src := map[string]any{
		"m":    map[any]any{"k": []string{"a"}},
		"s":    map[string]string{"x": "y"},
		"n":    1.5,
		"none": nil,
	}

	out := model.CloneMap(src)
	require.Equal(t, src, out)

	out["m"].(map[any]any)["k"].([]string)[0] = "changed"
	out["s"].(map[string]string)["x"] = "changed"

	assert.Equal(t, []string{"a"}, src["m"].(map[any]any)["k"])
	assert.Equal(t, "y", src["s"].(map[string]string)["x"])
	assert.Nil(t, model.CloneMap(nil))
}
