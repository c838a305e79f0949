// Package model defines configuration entries, their converted strategy
// metadata, and per-domain load bookkeeping.
package model

import (
	"fmt"
	"slices"
	"strings"
)

// Kind tags the domain an entry or metadata value belongs to.
type Kind string

// Supported domains.
const (
	KindPlugin     Kind = "plugin"
	KindDependency Kind = "dependency"
	KindLicense    Kind = "license"
)

// Kinds lists every domain in the order the engine loads them.
var Kinds = []Kind{KindLicense, KindDependency, KindPlugin}

// Valid reports whether k is one of the supported domains.
func (k Kind) Valid() bool {
	switch k {
	case KindPlugin, KindDependency, KindLicense:
		return true
	default:
		return false
	}
}

// Plural returns the top-level YAML key holding entries of this kind.
func (k Kind) Plural() string {
	switch k {
	case KindPlugin:
		return "plugins"
	case KindDependency:
		return "dependencies"
	case KindLicense:
		return "licenses"
	default:
		return string(k)
	}
}

// InfoKey returns the YAML key of the domain-specific info block.
func (k Kind) InfoKey() string {
	return string(k) + "Info"
}

// ParseKind converts a user-supplied domain name into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown kind %q, must be one of: plugin, dependency, license", s)
	}

	return k, nil
}

// WaitUntilValues are the states central publishing can wait for.
var WaitUntilValues = []string{"uploaded", "validated", "published"}

// ValidWaitUntil reports whether s names one of WaitUntilValues, ignoring
// case.
func ValidWaitUntil(s string) bool {
	return slices.Contains(WaitUntilValues, strings.ToLower(strings.TrimSpace(s)))
}
