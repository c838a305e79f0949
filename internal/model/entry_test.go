package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pubcfg/internal/model"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, err := model.ParseKind("dependency")
	require.NoError(t, err)
	assert.Equal(t, model.KindDependency, k)
	assert.Equal(t, "dependencies", k.Plural())
	assert.Equal(t, "dependencyInfo", k.InfoKey())

	_, err = model.ParseKind("profile")
	require.Error(t, err)
}

func TestBaseInfo_IsEnabled(t *testing.T) {
	t.Parallel()

	off := false

	assert.True(t, (&model.BaseInfo{}).IsEnabled())
	assert.False(t, (&model.BaseInfo{Enabled: &off}).IsEnabled())
}

func TestDependencyInfo_ApplyDefaults(t *testing.T) {
	t.Parallel()

	d := &model.DependencyInfo{}
	d.ApplyDefaults()
	assert.Equal(t, "jar", d.Type)
	assert.Equal(t, "compile", d.Scope)

	d = &model.DependencyInfo{Type: "pom", Scope: "test"}
	d.ApplyDefaults()
	assert.Equal(t, "pom", d.Type)
	assert.Equal(t, "test", d.Scope)
}

func TestEntry_InfoBlocks(t *testing.T) {
	t.Parallel()

	e := &model.Entry{Kind: model.KindPlugin, PluginInfo: &model.PluginInfo{}}
	assert.True(t, e.HasInfo())
	assert.Empty(t, e.ForeignInfo())

	e.LicenseType = "MIT"
	assert.Equal(t, "licenseType", e.ForeignInfo())

	e.DependencyInfo = &model.DependencyInfo{}
	assert.Equal(t, "dependencyInfo", e.ForeignInfo())

	lic := &model.Entry{Kind: model.KindLicense}
	assert.False(t, lic.HasInfo())
}

func TestLoadStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "UNLOADED", model.LoadUnloaded.String())
	assert.Equal(t, "FAILED", model.LoadFailed.String())
	assert.Equal(t, "REMOTE_CONFIG_CENTER", model.SourceRemoteConfigCenter.String())
}
