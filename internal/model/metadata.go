package model

import (
	"errors"
	"fmt"
	"slices"
)

// StrategyIDPrefix is prepended to an entry id to form its strategy id.
const StrategyIDPrefix = "strategy-"

// BaseStrategyInfo is the metadata copy of an entry's BaseInfo.
type BaseStrategyInfo struct {
	Order        int
	Enabled      bool
	Required     bool
	Description  string
	Dependencies []string
}

func (b BaseStrategyInfo) clone() BaseStrategyInfo {
	b.Dependencies = slices.Clone(b.Dependencies)

	return b
}

// PluginStrategyInfo is the plugin payload of StrategyMetadata.
type PluginStrategyInfo struct {
	Coordinates

	Goal                 string
	ExecutionID          string
	Phase                string
	Extensions           bool
	ExpandTags           []string
	Configuration        map[string]any
	Executions           map[string]any
	IncompatibleLicenses []string
}

func (p PluginStrategyInfo) clone() PluginStrategyInfo {
	p.ExpandTags = slices.Clone(p.ExpandTags)
	p.Configuration = CloneMap(p.Configuration)
	p.Executions = CloneMap(p.Executions)
	p.IncompatibleLicenses = slices.Clone(p.IncompatibleLicenses)

	return p
}

// DependencyStrategyInfo is the dependency payload of StrategyMetadata.
type DependencyStrategyInfo struct {
	Coordinates

	Type         string
	Scope        string
	Optional     bool
	Classifier   string
	Exclusions   []Exclusion
	SystemPath   string
	VersionRange string
}

func (d DependencyStrategyInfo) clone() DependencyStrategyInfo {
	d.Exclusions = slices.Clone(d.Exclusions)

	return d
}

// LicenseStrategyInfo is the license payload of StrategyMetadata.
type LicenseStrategyInfo struct {
	Name         string
	URL          string
	Distribution string
}

// StrategyMetadata is the immutable runtime form of an Entry. It is only
// produced through MetadataBuilder; accessors hand out copies.
type StrategyMetadata struct {
	kind         Kind
	id           string
	title        string
	serialNumber int
	base         BaseStrategyInfo
	strategyID   string

	plugin      *PluginStrategyInfo
	dependency  *DependencyStrategyInfo
	license     *LicenseStrategyInfo
	licenseType string
}

// Kind returns the domain tag.
func (m *StrategyMetadata) Kind() Kind { return m.kind }

// ID returns the source entry id.
func (m *StrategyMetadata) ID() string { return m.id }

// Title returns the source entry title.
func (m *StrategyMetadata) Title() string { return m.title }

// SerialNumber returns the source entry serial number.
func (m *StrategyMetadata) SerialNumber() int { return m.serialNumber }

// StrategyID returns the synthesized "strategy-<id>" identifier.
func (m *StrategyMetadata) StrategyID() string { return m.strategyID }

// StrategyType returns the strategy type tag, which is the domain name.
func (m *StrategyMetadata) StrategyType() string { return string(m.kind) }

// BaseStrategyInfo returns a copy of the shared attributes.
func (m *StrategyMetadata) BaseStrategyInfo() BaseStrategyInfo { return m.base.clone() }

// IsExecutable is true iff the entry is enabled.
func (m *StrategyMetadata) IsExecutable() bool { return m.base.Enabled }

// Plugin returns the plugin payload, if any.
func (m *StrategyMetadata) Plugin() (PluginStrategyInfo, bool) {
	if m.plugin == nil {
		return PluginStrategyInfo{}, false
	}

	return m.plugin.clone(), true
}

// Dependency returns the dependency payload, if any.
func (m *StrategyMetadata) Dependency() (DependencyStrategyInfo, bool) {
	if m.dependency == nil {
		return DependencyStrategyInfo{}, false
	}

	return m.dependency.clone(), true
}

// License returns the license payload, if any.
func (m *StrategyMetadata) License() (LicenseStrategyInfo, bool) {
	if m.license == nil {
		return LicenseStrategyInfo{}, false
	}

	return *m.license, true
}

// LicenseType returns the declared license type of a license entry.
func (m *StrategyMetadata) LicenseType() string { return m.licenseType }

// MetadataBuilder assembles a StrategyMetadata. A builder is single use.
type MetadataBuilder struct {
	m     StrategyMetadata
	built bool
}

// NewMetadataBuilder starts a builder for the given domain.
func NewMetadataBuilder(kind Kind) *MetadataBuilder {
	return &MetadataBuilder{m: StrategyMetadata{kind: kind}}
}

// ID sets the entry id.
func (b *MetadataBuilder) ID(id string) *MetadataBuilder {
	b.m.id = id

	return b
}

// Title sets the title.
func (b *MetadataBuilder) Title(title string) *MetadataBuilder {
	b.m.title = title

	return b
}

// SerialNumber sets the serial number.
func (b *MetadataBuilder) SerialNumber(n int) *MetadataBuilder {
	b.m.serialNumber = n

	return b
}

// StrategyID sets the strategy id.
func (b *MetadataBuilder) StrategyID(id string) *MetadataBuilder {
	b.m.strategyID = id

	return b
}

// BaseStrategyInfo sets the shared attributes.
func (b *MetadataBuilder) BaseStrategyInfo(info BaseStrategyInfo) *MetadataBuilder {
	b.m.base = info.clone()

	return b
}

// Plugin installs the plugin payload.
func (b *MetadataBuilder) Plugin(info PluginStrategyInfo) *MetadataBuilder {
	c := info.clone()
	b.m.plugin = &c

	return b
}

// Dependency installs the dependency payload.
func (b *MetadataBuilder) Dependency(info DependencyStrategyInfo) *MetadataBuilder {
	c := info.clone()
	b.m.dependency = &c

	return b
}

// License installs the license payload and its type.
func (b *MetadataBuilder) License(info LicenseStrategyInfo, licenseType string) *MetadataBuilder {
	c := info
	b.m.license = &c
	b.m.licenseType = licenseType

	return b
}

// Build returns the finished metadata. It fails when the builder was already
// used, the kind is unknown, the id is blank, or a payload of another domain
// was installed.
func (b *MetadataBuilder) Build() (*StrategyMetadata, error) {
	if b.built {
		return nil, errors.New("metadata builder already used")
	}

	if !b.m.kind.Valid() {
		return nil, fmt.Errorf("metadata builder: unknown kind %q", b.m.kind)
	}

	if b.m.id == "" {
		return nil, errors.New("metadata builder: id is required")
	}

	if (b.m.plugin != nil && b.m.kind != KindPlugin) ||
		(b.m.dependency != nil && b.m.kind != KindDependency) ||
		(b.m.license != nil && b.m.kind != KindLicense) {
		return nil, fmt.Errorf("metadata builder: payload does not match kind %q", b.m.kind)
	}

	b.built = true
	m := b.m

	return &m, nil
}
