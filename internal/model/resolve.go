package model

import (
	"fmt"

	"github.com/donaldgifford/pubcfg/internal/placeholder"
)

// ResolvePlaceholders substitutes tokens in every string field of the entry
// and its info blocks.
func (e *Entry) ResolvePlaceholders(r *placeholder.Resolver) error {
	r.String(&e.ID)
	r.String(&e.Title)
	r.String(&e.LicenseType)
	e.BaseInfo.resolve(r)

	if e.PluginInfo != nil {
		if err := e.PluginInfo.ResolvePlaceholders(r); err != nil {
			return fmt.Errorf("%s: %w", KindPlugin.InfoKey(), err)
		}
	}

	if e.DependencyInfo != nil {
		if err := e.DependencyInfo.ResolvePlaceholders(r); err != nil {
			return fmt.Errorf("%s: %w", KindDependency.InfoKey(), err)
		}
	}

	if e.LicenseInfo != nil {
		if err := e.LicenseInfo.ResolvePlaceholders(r); err != nil {
			return fmt.Errorf("%s: %w", KindLicense.InfoKey(), err)
		}
	}

	return nil
}

func (b *BaseInfo) resolve(r *placeholder.Resolver) {
	r.String(&b.Description)
	r.Strings(b.Dependencies)
}

func (c *Coordinates) resolve(r *placeholder.Resolver) {
	r.String(&c.GroupID)
	r.String(&c.ArtifactID)
	r.String(&c.Version)
}

// ResolvePlaceholders implements placeholder.Resolvable.
func (p *PluginInfo) ResolvePlaceholders(r *placeholder.Resolver) error {
	p.Coordinates.resolve(r)
	r.String(&p.Goal)
	r.String(&p.ExecutionID)
	r.String(&p.Phase)
	r.Strings(p.ExpandTags)
	r.Strings(p.IncompatibleLicenses)

	if err := r.Map(p.Configuration); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	if err := r.Map(p.Executions); err != nil {
		return fmt.Errorf("executions: %w", err)
	}

	return nil
}

// ResolvePlaceholders implements placeholder.Resolvable.
func (d *DependencyInfo) ResolvePlaceholders(r *placeholder.Resolver) error {
	d.Coordinates.resolve(r)
	r.String(&d.Type)
	r.String(&d.Scope)
	r.String(&d.Classifier)
	r.String(&d.SystemPath)
	r.String(&d.VersionRange)

	for i := range d.Exclusions {
		r.String(&d.Exclusions[i].GroupID)
		r.String(&d.Exclusions[i].ArtifactID)
	}

	return nil
}

// ResolvePlaceholders implements placeholder.Resolvable.
func (l *LicenseInfo) ResolvePlaceholders(r *placeholder.Resolver) error {
	r.String(&l.Name)
	r.String(&l.URL)
	r.String(&l.Distribution)

	return nil
}
