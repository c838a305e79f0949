package model

// BaseInfo holds the attributes every entry shares.
type BaseInfo struct {
	Order int `yaml:"order"`

	// Enabled is a pointer so that an omitted key keeps its default of true.
	Enabled *bool `yaml:"enabled"`

	Required     bool     `yaml:"required"`
	Description  string   `yaml:"description"`
	Dependencies []string `yaml:"dependencies"`
}

// IsEnabled returns the effective enabled flag, defaulting to true.
func (b *BaseInfo) IsEnabled() bool {
	return b.Enabled == nil || *b.Enabled
}

// Coordinates identify an artifact.
type Coordinates struct {
	GroupID    string `yaml:"groupId" validate:"notblank"`
	ArtifactID string `yaml:"artifactId" validate:"notblank"`
	Version    string `yaml:"version" validate:"notblank"`
}

// String renders the coordinates as groupId:artifactId:version.
func (c Coordinates) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// PluginInfo is the domain block of a plugin entry.
type PluginInfo struct {
	Coordinates `yaml:",inline"`

	Goal                 string         `yaml:"goal"`
	ExecutionID          string         `yaml:"executionId"`
	Phase                string         `yaml:"phase"`
	Extensions           bool           `yaml:"extensions"`
	ExpandTags           []string       `yaml:"expandTags"`
	Configuration        map[string]any `yaml:"configuration"`
	Executions           map[string]any `yaml:"executions"`
	IncompatibleLicenses []string       `yaml:"incompatibleLicenses"`
}

// Exclusion removes a transitive dependency.
type Exclusion struct {
	GroupID    string `yaml:"groupId" validate:"notblank"`
	ArtifactID string `yaml:"artifactId" validate:"notblank"`
}

// Dependency defaults applied when the keys are omitted.
const (
	DefaultDependencyType  = "jar"
	DefaultDependencyScope = "compile"
)

// DependencyInfo is the domain block of a dependency entry.
type DependencyInfo struct {
	Coordinates `yaml:",inline"`

	Type         string      `yaml:"type"`
	Scope        string      `yaml:"scope" validate:"omitempty,maven_scope"`
	Optional     bool        `yaml:"optional"`
	Classifier   string      `yaml:"classifier"`
	Exclusions   []Exclusion `yaml:"exclusions" validate:"dive"`
	SystemPath   string      `yaml:"systemPath"`
	VersionRange string      `yaml:"versionRange"`
}

// ApplyDefaults fills the type and scope when they were left blank.
func (d *DependencyInfo) ApplyDefaults() {
	if d.Type == "" {
		d.Type = DefaultDependencyType
	}

	if d.Scope == "" {
		d.Scope = DefaultDependencyScope
	}
}

// LicenseInfo is the domain block of a license entry.
type LicenseInfo struct {
	Name         string `yaml:"name" validate:"notblank"`
	URL          string `yaml:"url" validate:"notblank"`
	Distribution string `yaml:"distribution" validate:"notblank"`
}

// Entry is one configuration record. Kind selects which of the info blocks
// is meaningful; the others must stay nil.
type Entry struct {
	Kind Kind `yaml:"-"`

	ID           string   `yaml:"id" validate:"notblank"`
	Title        string   `yaml:"title" validate:"notblank"`
	SerialNumber *int     `yaml:"serialNumber" validate:"required"`
	BaseInfo     BaseInfo `yaml:"baseInfo"`

	PluginInfo     *PluginInfo     `yaml:"pluginInfo"`
	DependencyInfo *DependencyInfo `yaml:"dependencyInfo"`
	LicenseInfo    *LicenseInfo    `yaml:"licenseInfo"`
	LicenseType    string          `yaml:"licenseType"`
}

// NodeID returns the entry id for dependency graph checks.
func (e *Entry) NodeID() string {
	return e.ID
}

// DependencyIDs returns the ids this entry declares it depends on.
func (e *Entry) DependencyIDs() []string {
	return e.BaseInfo.Dependencies
}

// HasInfo reports whether the info block matching the entry's kind is set.
func (e *Entry) HasInfo() bool {
	switch e.Kind {
	case KindPlugin:
		return e.PluginInfo != nil
	case KindDependency:
		return e.DependencyInfo != nil
	case KindLicense:
		return e.LicenseInfo != nil
	default:
		return false
	}
}

// ForeignInfo returns the YAML key of an info block that does not belong to
// the entry's kind, or "" when there is none.
func (e *Entry) ForeignInfo() string {
	if e.Kind != KindPlugin && e.PluginInfo != nil {
		return KindPlugin.InfoKey()
	}

	if e.Kind != KindDependency && e.DependencyInfo != nil {
		return KindDependency.InfoKey()
	}

	if e.Kind != KindLicense && (e.LicenseInfo != nil || e.LicenseType != "") {
		if e.LicenseInfo != nil {
			return KindLicense.InfoKey()
		}

		return "licenseType"
	}

	return ""
}
