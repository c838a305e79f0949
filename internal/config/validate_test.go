package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pubcfg/internal/config"
	"github.com/donaldgifford/pubcfg/internal/model"
)

func intPtr(n int) *int { return &n }

func validPlugin(id string) *model.Entry {
	return &model.Entry{
		Kind:         model.KindPlugin,
		ID:           id,
		Title:        id,
		SerialNumber: intPtr(1),
		PluginInfo: &model.PluginInfo{
			Coordinates: model.Coordinates{GroupID: "g", ArtifactID: id, Version: "1"},
		},
	}
}

func TestValidateEntries_FailFast(t *testing.T) {
	t.Parallel()

	v, err := config.NewValidator()
	require.NoError(t, err)

	bad1 := validPlugin("first")
	bad1.Title = ""
	bad2 := validPlugin("second")
	bad2.PluginInfo.Version = ""

	err = config.ValidateEntries(v, model.KindPlugin, []*model.Entry{validPlugin("ok"), bad1, bad2})
	require.ErrorIs(t, err, config.ErrValidation)
	assert.Contains(t, err.Error(), "plugins[1] (first)")
	assert.Contains(t, err.Error(), "title is required")
	assert.NotContains(t, err.Error(), "second")
}

func TestValidateEntries_Valid(t *testing.T) {
	t.Parallel()

	v, err := config.NewValidator()
	require.NoError(t, err)

	require.NoError(t, config.ValidateEntries(v, model.KindPlugin, []*model.Entry{validPlugin("a"), validPlugin("b")}))
}

func TestValidateEntries_SystemScopeNeedsPath(t *testing.T) {
	t.Parallel()

	v, err := config.NewValidator()
	require.NoError(t, err)

	e := &model.Entry{
		Kind: model.KindDependency, ID: "tools", Title: "tools", SerialNumber: intPtr(1),
		DependencyInfo: &model.DependencyInfo{
			Coordinates: model.Coordinates{GroupID: "com.sun", ArtifactID: "tools", Version: "1.8"},
			Scope:       "System",
		},
	}

	err = config.ValidateEntries(v, model.KindDependency, []*model.Entry{e})
	require.ErrorIs(t, err, config.ErrValidation)
	assert.Contains(t, err.Error(), "systemPath")

	e.DependencyInfo.SystemPath = "/opt/jdk/lib/tools.jar"
	require.NoError(t, config.ValidateEntries(v, model.KindDependency, []*model.Entry{e}))
}

func TestValidator_WaitUntil(t *testing.T) {
	t.Parallel()

	v, err := config.NewValidator()
	require.NoError(t, err)

	type settings struct {
		WaitUntil string `validate:"wait_until"`
	}

	require.NoError(t, v.Struct(settings{WaitUntil: "VALIDATED"}))
	require.Error(t, v.Struct(settings{WaitUntil: "soon"}))
}
