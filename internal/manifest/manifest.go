// Package manifest models the build descriptor being configured: its
// plugins, dependencies and licenses.
package manifest

import "strings"

// DefaultPluginGroupID is assumed for plugins declared without a groupId.
const DefaultPluginGroupID = "org.apache.maven.plugins"

// Execution binds plugin goals to a lifecycle phase.
type Execution struct {
	ID            string
	Phase         string
	Goals         []string
	Configuration map[string]any
}

// Plugin is a build plugin declaration.
type Plugin struct {
	GroupID       string
	ArtifactID    string
	Version       string
	Extensions    bool
	Configuration map[string]any
	Executions    []Execution

	// Flags are extra plugin-level elements rendered as <flag>true</flag>,
	// such as "inherited".
	Flags []string
}

// Exclusion removes a transitive dependency.
type Exclusion struct {
	GroupID    string
	ArtifactID string
}

// Dependency is a dependency declaration.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string
	Type       string
	Scope      string
	Classifier string
	Optional   bool
	SystemPath string
	Exclusions []Exclusion
}

// License is a license declaration.
type License struct {
	Name         string
	URL          string
	Distribution string
}

// Manifest is the target the orchestration chain mutates. Writes are not
// transactional.
type Manifest interface {
	HasPlugin(groupID, artifactID string) bool
	AddPlugin(p Plugin) error

	HasDependency(groupID, artifactID string) bool
	Dependencies() []Dependency
	AddDependency(d Dependency) error

	Licenses() []License
	AddLicense(l License) error
}

// HasLicense reports whether m declares a license matching l by name or URL.
func HasLicense(m Manifest, l License) bool {
	for _, have := range m.Licenses() {
		if sameLicense(have, l) {
			return true
		}
	}

	return false
}

func sameLicense(a, b License) bool {
	if a.Name != "" && strings.EqualFold(strings.TrimSpace(a.Name), strings.TrimSpace(b.Name)) {
		return true
	}

	return a.URL != "" && strings.TrimRight(a.URL, "/") == strings.TrimRight(b.URL, "/")
}

func pluginGroup(groupID string) string {
	if strings.TrimSpace(groupID) == "" {
		return DefaultPluginGroupID
	}

	return strings.TrimSpace(groupID)
}
