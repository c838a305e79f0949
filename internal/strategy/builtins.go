package strategy

import (
	"strings"

	"github.com/donaldgifford/pubcfg/internal/manifest"
	"github.com/donaldgifford/pubcfg/internal/model"
)

// Built-in strategy types.
const (
	TypeGPG               = "gpg"
	TypeSource            = "source"
	TypeJavadoc           = "javadoc"
	TypeCentralPublishing = "central-publishing"
	TypeDeploy            = "deploy"
	TypePlexusUtils       = "plexus-utils"
	TypeApache2           = "apache-2.0"
	TypeMIT               = "mit"
	TypeGPL3              = "gpl-3.0"

	// Generic types resolve any metadata of their kind.
	TypePlugin     = "plugin"
	TypeDependency = "dependency"
	TypeLicense    = "license"
)

const mavenPlugins = manifest.DefaultPluginGroupID

// GPG signs artifacts during verify. It needs a key name and passphrase.
func GPG() *PluginStrategy {
	p := NewPluginStrategy(TypeGPG,
		model.Coordinates{GroupID: mavenPlugins, ArtifactID: "maven-gpg-plugin", Version: "3.2.8"}, 0, false).
		WithGoal("sign", "sign-artifacts", "verify")

	p.precheck = func(p *PluginStrategy, s *Settings) error {
		keyname := s.GPGKeyname
		if k, ok := p.configuration["keyname"].(string); ok && strings.TrimSpace(keyname) == "" {
			keyname = k
		}

		if strings.TrimSpace(keyname) == "" {
			return Critical(p.name, "gpg key name is required")
		}

		if strings.TrimSpace(s.GPGPassphrase) == "" {
			return Critical(p.name, "gpg passphrase is required")
		}

		return nil
	}

	p.fromSettings = func(s *Settings) map[string]any {
		if strings.TrimSpace(s.GPGKeyname) == "" {
			return nil
		}

		return map[string]any{"keyname": s.GPGKeyname}
	}

	p.goalProps = func(s *Settings) map[string]string {
		return map[string]string{"gpg.passphrase": s.GPGPassphrase}
	}

	return p
}

// Source attaches a sources jar.
func Source() *PluginStrategy {
	return NewPluginStrategy(TypeSource,
		model.Coordinates{GroupID: mavenPlugins, ArtifactID: "maven-source-plugin", Version: "3.3.1"}, 1, true).
		WithGoal("jar-no-fork", "attach-sources", "")
}

// Javadoc attaches a javadoc jar.
func Javadoc() *PluginStrategy {
	return NewPluginStrategy(TypeJavadoc,
		model.Coordinates{GroupID: mavenPlugins, ArtifactID: "maven-javadoc-plugin", Version: "3.12.0"}, 2, true).
		WithGoal("jar", "attach-javadocs", "")
}

// CentralPublishing uploads the bundle to the central portal. It is a build
// extension and needs a publishing server id.
func CentralPublishing() *PluginStrategy {
	p := NewPluginStrategy(TypeCentralPublishing,
		model.Coordinates{GroupID: "org.sonatype.central", ArtifactID: "central-publishing-maven-plugin", Version: "0.9.0"}, 3, true).
		WithExtensions()

	p.precheck = func(p *PluginStrategy, s *Settings) error {
		server := s.PublishingServerID
		if v, ok := p.configuration["publishingServerId"].(string); ok && strings.TrimSpace(server) == "" {
			server = v
		}

		if strings.TrimSpace(server) == "" {
			return Critical(p.name, "publishing server id is required")
		}

		if s.WaitUntil != "" && !model.ValidWaitUntil(s.WaitUntil) {
			return Critical(p.name, "waitUntil %q must be one of %s", s.WaitUntil, strings.Join(model.WaitUntilValues, ", "))
		}

		return nil
	}

	p.fromSettings = func(s *Settings) map[string]any {
		cfg := map[string]any{
			"autoPublish": s.AutoPublish,
			"waitUntil":   s.EffectiveWaitUntil(),
		}

		if strings.TrimSpace(s.PublishingServerID) != "" {
			cfg["publishingServerId"] = s.PublishingServerID
		}

		return cfg
	}

	return p
}

// Deploy disables the default deploy plugin in favour of central publishing.
func Deploy() *PluginStrategy {
	return NewPluginStrategy(TypeDeploy,
		model.Coordinates{GroupID: mavenPlugins, ArtifactID: "maven-deploy-plugin", Version: "3.1.0"}, 4, false).
		WithConfiguration(map[string]any{"skip": true})
}

// GenericPlugin is driven entirely by metadata.
func GenericPlugin() *PluginStrategy {
	p := NewPluginStrategy(TypePlugin, model.Coordinates{}, 0, false)
	p.generic = true

	return p
}

// PlexusUtils declares plexus-utils as provided. It is off unless a
// configuration entry enables it.
func PlexusUtils() *DependencyStrategy {
	return NewDependencyStrategy(TypePlexusUtils, manifest.Dependency{
		GroupID:    "org.codehaus.plexus",
		ArtifactID: "plexus-utils",
		Version:    "3.4.2",
		Scope:      "provided",
	}, 0, false)
}

// GenericDependency is driven entirely by metadata.
func GenericDependency() *DependencyStrategy {
	d := NewDependencyStrategy(TypeDependency, manifest.Dependency{}, 0, true)
	d.generic = true

	return d
}

// Apache2 declares the Apache License 2.0.
func Apache2() *LicenseStrategy {
	return knownLicense(TypeApache2, "Apache-2.0")
}

// MIT declares the MIT License. It is off unless a configuration entry
// enables it.
func MIT() *LicenseStrategy {
	l := knownLicense(TypeMIT, "MIT")
	l.enabled = false

	return l
}

// GPL3 declares the GNU General Public License v3.0. It is off unless a
// configuration entry enables it.
func GPL3() *LicenseStrategy {
	l := knownLicense(TypeGPL3, "GPL-3.0")
	l.enabled = false

	return l
}

func knownLicense(typ, spdx string) *LicenseStrategy {
	k, _ := LookupLicense(spdx)

	return NewLicenseStrategy(typ, k.License, k.SPDX)
}

// GenericLicense is driven entirely by metadata.
func GenericLicense() *LicenseStrategy {
	l := NewLicenseStrategy(TypeLicense, manifest.License{}, "")
	l.generic = true

	return l
}

// Builtins returns fresh instances of every built-in strategy.
func Builtins() []Strategy {
	return []Strategy{
		GPG(),
		Source(),
		Javadoc(),
		CentralPublishing(),
		Deploy(),
		GenericPlugin(),
		PlexusUtils(),
		GenericDependency(),
		Apache2(),
		MIT(),
		GPL3(),
		GenericLicense(),
	}
}
