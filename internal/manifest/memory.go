package manifest

import (
	"slices"
	"sync"
)

// Memory is an in-memory Manifest. Writes counts every successful mutation.
type Memory struct {
	mu           sync.Mutex
	plugins      []Plugin
	dependencies []Dependency
	licenses     []License
	writes       int
}

var _ Manifest = (*Memory)(nil)

// NewMemory returns an empty Memory manifest.
func NewMemory() *Memory {
	return &Memory{}
}

// HasPlugin implements Manifest.
func (m *Memory) HasPlugin(groupID, artifactID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.ContainsFunc(m.plugins, func(p Plugin) bool {
		return pluginGroup(p.GroupID) == pluginGroup(groupID) && p.ArtifactID == artifactID
	})
}

// AddPlugin implements Manifest.
func (m *Memory) AddPlugin(p Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plugins = append(m.plugins, p)
	m.writes++

	return nil
}

// Plugins returns the declared plugins in insertion order.
func (m *Memory) Plugins() []Plugin {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.plugins)
}

// HasDependency implements Manifest.
func (m *Memory) HasDependency(groupID, artifactID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.ContainsFunc(m.dependencies, func(d Dependency) bool {
		return d.GroupID == groupID && d.ArtifactID == artifactID
	})
}

// Dependencies implements Manifest.
func (m *Memory) Dependencies() []Dependency {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.dependencies)
}

// AddDependency implements Manifest.
func (m *Memory) AddDependency(d Dependency) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dependencies = append(m.dependencies, d)
	m.writes++

	return nil
}

// Licenses implements Manifest.
func (m *Memory) Licenses() []License {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.licenses)
}

// AddLicense implements Manifest.
func (m *Memory) AddLicense(l License) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.licenses = append(m.licenses, l)
	m.writes++

	return nil
}

// Writes returns the number of mutations applied so far.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.writes
}
