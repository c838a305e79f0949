package strategy

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/pubcfg/internal/manifest"
	"github.com/donaldgifford/pubcfg/internal/model"
)

// Declaration describes an externally supplied strategy in a discovery
// manifest.
type Declaration struct {
	Type       string `yaml:"type"`
	Kind       string `yaml:"kind"`
	GroupID    string `yaml:"groupId"`
	ArtifactID string `yaml:"artifactId"`
	Version    string `yaml:"version"`
	Order      int    `yaml:"order"`
	Required   bool   `yaml:"required"`
	Disabled   bool   `yaml:"disabled"`

	// Plugin fields.
	Goal          string         `yaml:"goal"`
	ExecutionID   string         `yaml:"executionId"`
	Phase         string         `yaml:"phase"`
	Extensions    bool           `yaml:"extensions"`
	Configuration map[string]any `yaml:"configuration"`

	// Dependency fields.
	Scope          string `yaml:"scope"`
	DependencyType string `yaml:"dependencyType"`

	// License fields.
	Name         string `yaml:"name"`
	URL          string `yaml:"url"`
	Distribution string `yaml:"distribution"`
	LicenseType  string `yaml:"licenseType"`
}

type discoveryFile struct {
	Strategies []Declaration `yaml:"strategies"`
}

// LoadDiscovery reads a discovery manifest and returns one constructor per
// declared strategy.
func LoadDiscovery(path string) ([]Constructor, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading discovery manifest %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f discoveryFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing discovery manifest %s: %w", path, err)
	}

	ctors := make([]Constructor, 0, len(f.Strategies))
	for _, d := range f.Strategies {
		ctors = append(ctors, d.Constructor())
	}

	return ctors, nil
}

// Constructor returns a constructor building the declared strategy.
func (d Declaration) Constructor() Constructor {
	return func() (Strategy, error) {
		return d.build()
	}
}

func (d Declaration) build() (Strategy, error) {
	if strings.TrimSpace(d.Type) == "" {
		return nil, errors.New("declaration type is required")
	}

	kind, err := model.ParseKind(d.Kind)
	if err != nil {
		return nil, fmt.Errorf("declaration %q: %w", d.Type, err)
	}

	switch kind {
	case model.KindPlugin:
		p := NewPluginStrategy(d.Type,
			model.Coordinates{GroupID: d.GroupID, ArtifactID: d.ArtifactID, Version: d.Version},
			d.Order, d.Required).
			WithGoal(d.Goal, d.ExecutionID, d.Phase).
			WithConfiguration(d.Configuration)
		p.extensions = d.Extensions
		p.enabled = !d.Disabled

		return p, nil
	case model.KindDependency:
		s := NewDependencyStrategy(d.Type, manifest.Dependency{
			GroupID:    d.GroupID,
			ArtifactID: d.ArtifactID,
			Version:    d.Version,
			Type:       d.DependencyType,
			Scope:      d.Scope,
		}, d.Order, !d.Disabled)
		s.required = d.Required

		return s, nil
	default:
		s := NewLicenseStrategy(d.Type, manifest.License{
			Name:         d.Name,
			URL:          d.URL,
			Distribution: d.Distribution,
		}, d.LicenseType)
		s.order = d.Order
		s.required = d.Required
		s.enabled = !d.Disabled

		return s, nil
	}
}
