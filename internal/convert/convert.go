// Package convert turns validated configuration entries into immutable
// strategy metadata.
package convert

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/donaldgifford/pubcfg/internal/model"
)

var (
	// ErrConversion is returned when a translator produces no value.
	ErrConversion = errors.New("conversion failed")

	// ErrInvalidInput flags a caller programming error such as a nil entry
	// or a missing translator.
	ErrInvalidInput = errors.New("invalid converter input")
)

// Converter converts entries of any domain.
type Converter struct {
	logger *slog.Logger
}

// New returns a Converter. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Converter{logger: logger}
}

// Convert dispatches on the entry's kind.
func (c *Converter) Convert(e *model.Entry) (*model.StrategyMetadata, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil entry", ErrInvalidInput)
	}

	switch e.Kind {
	case model.KindPlugin:
		return c.Plugin(e)
	case model.KindDependency:
		return c.Dependency(e)
	case model.KindLicense:
		return c.License(e)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, e.Kind)
	}
}

// Plugin converts a plugin entry.
func (c *Converter) Plugin(e *model.Entry) (*model.StrategyMetadata, error) {
	return convert(c, e, model.KindPlugin, e.PluginInfo, pluginInfo,
		func(b *model.MetadataBuilder, info *model.PluginStrategyInfo) {
			b.Plugin(*info)
		})
}

// Dependency converts a dependency entry.
func (c *Converter) Dependency(e *model.Entry) (*model.StrategyMetadata, error) {
	return convert(c, e, model.KindDependency, e.DependencyInfo, dependencyInfo,
		func(b *model.MetadataBuilder, info *model.DependencyStrategyInfo) {
			b.Dependency(*info)
		})
}

// License converts a license entry.
func (c *Converter) License(e *model.Entry) (*model.StrategyMetadata, error) {
	return convert(c, e, model.KindLicense, e.LicenseInfo, licenseInfo,
		func(b *model.MetadataBuilder, info *model.LicenseStrategyInfo) {
			b.License(*info, e.LicenseType)
		})
}

// convert copies the base fields and, when the info block is present,
// installs its translation. An absent block is logged; a translator that
// returns nil fails the conversion.
func convert[I, M any](
	c *Converter,
	e *model.Entry,
	kind model.Kind,
	info *I,
	translate func(*I) *M,
	set func(*model.MetadataBuilder, *M),
) (*model.StrategyMetadata, error) {
	if e == nil || translate == nil || set == nil {
		return nil, fmt.Errorf("%w: entry, translator and setter are required", ErrInvalidInput)
	}

	b := baseBuilder(kind, e)

	if info == nil {
		c.logger.Warn("entry has no info block, converting without it",
			"kind", kind, "id", e.ID)
	} else {
		m := translate(info)
		if m == nil {
			return nil, fmt.Errorf("%w: %s translator returned nothing for %q", ErrConversion, kind.InfoKey(), e.ID)
		}

		set(b, m)
	}

	meta, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}

	return meta, nil
}

func baseBuilder(kind model.Kind, e *model.Entry) *model.MetadataBuilder {
	serial := 0
	if e.SerialNumber != nil {
		serial = *e.SerialNumber
	}

	return model.NewMetadataBuilder(kind).
		ID(e.ID).
		Title(e.Title).
		SerialNumber(serial).
		StrategyID(model.StrategyIDPrefix + e.ID).
		BaseStrategyInfo(model.BaseStrategyInfo{
			Order:        e.BaseInfo.Order,
			Enabled:      e.BaseInfo.IsEnabled(),
			Required:     e.BaseInfo.Required,
			Description:  e.BaseInfo.Description,
			Dependencies: slices.Clone(e.BaseInfo.Dependencies),
		})
}

func pluginInfo(p *model.PluginInfo) *model.PluginStrategyInfo {
	return &model.PluginStrategyInfo{
		Coordinates:          p.Coordinates,
		Goal:                 p.Goal,
		ExecutionID:          p.ExecutionID,
		Phase:                p.Phase,
		Extensions:           p.Extensions,
		ExpandTags:           p.ExpandTags,
		Configuration:        p.Configuration,
		Executions:           p.Executions,
		IncompatibleLicenses: p.IncompatibleLicenses,
	}
}

func dependencyInfo(d *model.DependencyInfo) *model.DependencyStrategyInfo {
	return &model.DependencyStrategyInfo{
		Coordinates:  d.Coordinates,
		Type:         d.Type,
		Scope:        d.Scope,
		Optional:     d.Optional,
		Classifier:   d.Classifier,
		Exclusions:   d.Exclusions,
		SystemPath:   d.SystemPath,
		VersionRange: d.VersionRange,
	}
}

func licenseInfo(l *model.LicenseInfo) *model.LicenseStrategyInfo {
	return &model.LicenseStrategyInfo{
		Name:         l.Name,
		URL:          l.URL,
		Distribution: l.Distribution,
	}
}
