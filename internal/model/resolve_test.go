package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pubcfg/internal/model"
	"github.com/donaldgifford/pubcfg/internal/placeholder"
)

func TestEntry_ResolvePlaceholders(t *testing.T) {
	t.Parallel()

	r := placeholder.New(func(name string) (string, bool) {
		if name == "GPG_VERSION" {
			return "3.2.8", true
		}

		return "", false
	})

	e := &model.Entry{
		Kind:  model.KindPlugin,
		ID:    "gpg",
		Title: "${TITLE:GPG signing}",
		BaseInfo: model.BaseInfo{
			Dependencies: []string{"${DEP:source}"},
		},
		PluginInfo: &model.PluginInfo{
			Coordinates: model.Coordinates{
				GroupID:    "org.apache.maven.plugins",
				ArtifactID: "maven-gpg-plugin",
				Version:    "${GPG_VERSION}",
			},
			Configuration: map[string]any{
				"keyname":  "${GPG_KEYNAME}",
				"gpgArgs":  []any{"--pinentry-mode", "${MODE:loopback}"},
				"useAgent": true,
			},
		},
	}

	require.NoError(t, e.ResolvePlaceholders(r))

	assert.Equal(t, "GPG signing", e.Title)
	assert.Equal(t, []string{"source"}, e.BaseInfo.Dependencies)
	assert.Equal(t, "3.2.8", e.PluginInfo.Version)
	assert.Equal(t, "", e.PluginInfo.Configuration["keyname"])
	assert.Equal(t, []any{"--pinentry-mode", "loopback"}, e.PluginInfo.Configuration["gpgArgs"])
	assert.Equal(t, true, e.PluginInfo.Configuration["useAgent"])
}

func TestEntry_ResolvePlaceholders_License(t *testing.T) {
	t.Parallel()

	r := placeholder.New(func(string) (string, bool) { return "", false })

	e := &model.Entry{
		Kind:        model.KindLicense,
		LicenseType: "${LT:Apache-2.0}",
		LicenseInfo: &model.LicenseInfo{URL: "${URL:https://www.apache.org/licenses/LICENSE-2.0.txt}"},
	}

	require.NoError(t, e.ResolvePlaceholders(r))
	assert.Equal(t, "Apache-2.0", e.LicenseType)
	assert.Equal(t, "https://www.apache.org/licenses/LICENSE-2.0.txt", e.LicenseInfo.URL)
}
