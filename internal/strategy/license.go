package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/donaldgifford/pubcfg/internal/manifest"
	"github.com/donaldgifford/pubcfg/internal/model"
)

// LicenseStrategy adds a license declaration.
type LicenseStrategy struct {
	base

	license     manifest.License
	licenseType string
	generic     bool
}

var (
	_ Strategy = (*LicenseStrategy)(nil)
	_ Binder   = (*LicenseStrategy)(nil)
)

// NewLicenseStrategy returns a license strategy registered under typ.
func NewLicenseStrategy(typ string, lic manifest.License, licenseType string) *LicenseStrategy {
	return &LicenseStrategy{
		base: base{
			typ:     typ,
			name:    typ,
			kind:    model.KindLicense,
			enabled: true,
		},
		license:     lic,
		licenseType: licenseType,
	}
}

// License returns the declaration this strategy adds.
func (l *LicenseStrategy) License() manifest.License { return l.license }

// LicenseType returns the declared license type, e.g. "Apache-2.0".
func (l *LicenseStrategy) LicenseType() string { return l.licenseType }

// Bind overlays license metadata on the defaults. A license type found in
// the predefined catalog supplies the defaults when it differs from the
// strategy's own.
func (l *LicenseStrategy) Bind(meta *model.StrategyMetadata) (Strategy, error) {
	if meta.Kind() != model.KindLicense {
		return nil, fmt.Errorf("binding %s: metadata %q is a %s", l.typ, meta.ID(), meta.Kind())
	}

	info, ok := meta.License()
	known, isKnown := LookupLicense(meta.LicenseType())

	if !ok && !isKnown && l.generic {
		return nil, fmt.Errorf("%w: license %q has no licenseInfo and type %q is not predefined",
			ErrIncomplete, meta.ID(), meta.LicenseType())
	}

	c := *l
	c.bindBase(meta)
	c.licenseType = orDefault(meta.LicenseType(), c.licenseType)

	if isKnown && licenseKey(known.SPDX) != licenseKey(l.licenseType) {
		c.license = known.License
	}

	if ok {
		c.license.Name = orDefault(info.Name, c.license.Name)
		c.license.URL = orDefault(info.URL, c.license.URL)
		c.license.Distribution = orDefault(info.Distribution, c.license.Distribution)
	}

	return &c, nil
}

// Check requires a name and an https URL.
func (l *LicenseStrategy) Check(*Settings) error {
	if strings.TrimSpace(l.license.Name) == "" {
		return Critical(l.name, "license name is required")
	}

	if !strings.HasPrefix(strings.ToLower(l.license.URL), "https") {
		return Critical(l.name, "license url %q must use https", l.license.URL)
	}

	return nil
}

// Exists matches on name or URL.
func (l *LicenseStrategy) Exists(m manifest.Manifest) bool {
	return manifest.HasLicense(m, l.license)
}

// Apply appends the license.
func (l *LicenseStrategy) Apply(_ context.Context, m manifest.Manifest, _ *Settings) error {
	if err := m.AddLicense(l.license); err != nil {
		return fmt.Errorf("adding license %s: %w", l.license.Name, err)
	}

	return nil
}
