package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/donaldgifford/pubcfg/internal/manifest"
	"github.com/donaldgifford/pubcfg/internal/model"
)

// DependencyStrategy adds a dependency declaration.
type DependencyStrategy struct {
	base

	dep     manifest.Dependency
	generic bool
}

var (
	_ Strategy = (*DependencyStrategy)(nil)
	_ Binder   = (*DependencyStrategy)(nil)
)

// NewDependencyStrategy returns a dependency strategy registered under typ.
func NewDependencyStrategy(typ string, dep manifest.Dependency, order int, enabled bool) *DependencyStrategy {
	return &DependencyStrategy{
		base: base{
			typ:     typ,
			name:    typ,
			kind:    model.KindDependency,
			order:   order,
			enabled: enabled,
		},
		dep: dep,
	}
}

// Dependency returns the declaration this strategy adds.
func (d *DependencyStrategy) Dependency() manifest.Dependency {
	dep := d.dep
	dep.Exclusions = append([]manifest.Exclusion(nil), d.dep.Exclusions...)

	return dep
}

// Bind overlays dependency metadata on the defaults.
func (d *DependencyStrategy) Bind(meta *model.StrategyMetadata) (Strategy, error) {
	if meta.Kind() != model.KindDependency {
		return nil, fmt.Errorf("binding %s: metadata %q is a %s", d.typ, meta.ID(), meta.Kind())
	}

	info, ok := meta.Dependency()
	if !ok && d.generic {
		return nil, fmt.Errorf("%w: dependency %q has no dependencyInfo", ErrIncomplete, meta.ID())
	}

	c := *d
	c.dep = d.Dependency()
	c.bindBase(meta)

	if !ok {
		return &c, nil
	}

	c.dep.GroupID = orDefault(info.GroupID, c.dep.GroupID)
	c.dep.ArtifactID = orDefault(info.ArtifactID, c.dep.ArtifactID)
	c.dep.Version = orDefault(info.Version, c.dep.Version)
	c.dep.Type = orDefault(info.Type, c.dep.Type)
	c.dep.Scope = orDefault(info.Scope, c.dep.Scope)
	c.dep.Classifier = orDefault(info.Classifier, c.dep.Classifier)
	c.dep.SystemPath = orDefault(info.SystemPath, c.dep.SystemPath)
	c.dep.Optional = c.dep.Optional || info.Optional

	// A version range, when given, replaces the pinned version.
	if strings.TrimSpace(info.VersionRange) != "" {
		c.dep.Version = info.VersionRange
	}

	for _, x := range info.Exclusions {
		c.dep.Exclusions = append(c.dep.Exclusions, manifest.Exclusion{GroupID: x.GroupID, ArtifactID: x.ArtifactID})
	}

	return &c, nil
}

// Check requires complete coordinates.
func (d *DependencyStrategy) Check(*Settings) error {
	if strings.TrimSpace(d.dep.GroupID) == "" || strings.TrimSpace(d.dep.ArtifactID) == "" {
		return Critical(d.name, "dependency coordinates are incomplete")
	}

	return nil
}

// Exists matches on groupId and artifactId.
func (d *DependencyStrategy) Exists(m manifest.Manifest) bool {
	return m.HasDependency(d.dep.GroupID, d.dep.ArtifactID)
}

// Apply appends the dependency.
func (d *DependencyStrategy) Apply(_ context.Context, m manifest.Manifest, _ *Settings) error {
	if err := m.AddDependency(d.Dependency()); err != nil {
		return fmt.Errorf("adding dependency %s:%s: %w", d.dep.GroupID, d.dep.ArtifactID, err)
	}

	return nil
}
