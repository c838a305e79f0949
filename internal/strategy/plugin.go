package strategy

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/donaldgifford/pubcfg/internal/invoker"
	"github.com/donaldgifford/pubcfg/internal/manifest"
	"github.com/donaldgifford/pubcfg/internal/model"
)

// PluginStrategy adds a build plugin and optionally runs one of its goals.
type PluginStrategy struct {
	base

	coords        model.Coordinates
	goal          string
	executionID   string
	phase         string
	extensions    bool
	flags         []string
	configuration map[string]any
	executions    []manifest.Execution
	incompatible  []string

	// generic strategies have no coordinates of their own.
	generic bool

	// precheck adds built-in preconditions.
	precheck func(p *PluginStrategy, s *Settings) error
	// fromSettings contributes configuration derived from run settings.
	fromSettings func(s *Settings) map[string]any
	// goalProps contributes -D properties that must not land in the manifest.
	goalProps func(s *Settings) map[string]string
}

var (
	_ Strategy = (*PluginStrategy)(nil)
	_ Binder   = (*PluginStrategy)(nil)
)

// NewPluginStrategy returns a plugin strategy registered under typ with the
// given defaults.
func NewPluginStrategy(typ string, coords model.Coordinates, order int, required bool) *PluginStrategy {
	return &PluginStrategy{
		base: base{
			typ:      typ,
			name:     typ,
			kind:     model.KindPlugin,
			order:    order,
			enabled:  true,
			required: required,
		},
		coords: coords,
	}
}

// WithGoal sets the goal bound by the default execution.
func (p *PluginStrategy) WithGoal(goal, executionID, phase string) *PluginStrategy {
	p.goal, p.executionID, p.phase = goal, executionID, phase

	return p
}

// WithConfiguration sets the default plugin configuration.
func (p *PluginStrategy) WithConfiguration(cfg map[string]any) *PluginStrategy {
	p.configuration = model.CloneMap(cfg)

	return p
}

// WithExtensions marks the plugin as a build extension.
func (p *PluginStrategy) WithExtensions() *PluginStrategy {
	p.extensions = true

	return p
}

// Coordinates returns the plugin coordinates.
func (p *PluginStrategy) Coordinates() model.Coordinates { return p.coords }

// Goal returns the goal invoked after the plugin is added, if any.
func (p *PluginStrategy) Goal() string { return p.goal }

func (p *PluginStrategy) clone() *PluginStrategy {
	c := *p
	c.flags = slices.Clone(p.flags)
	c.configuration = model.CloneMap(p.configuration)
	c.executions = slices.Clone(p.executions)
	c.incompatible = slices.Clone(p.incompatible)

	return &c
}

// Bind overlays metadata on the defaults. Non-blank metadata values win and
// configuration maps are merged with metadata keys taking precedence.
func (p *PluginStrategy) Bind(meta *model.StrategyMetadata) (Strategy, error) {
	if meta.Kind() != model.KindPlugin {
		return nil, fmt.Errorf("binding %s: metadata %q is a %s", p.typ, meta.ID(), meta.Kind())
	}

	info, ok := meta.Plugin()
	if !ok && p.generic {
		return nil, fmt.Errorf("%w: plugin %q has no pluginInfo", ErrIncomplete, meta.ID())
	}

	c := p.clone()
	c.bindBase(meta)

	if !ok {
		return c, nil
	}

	c.coords.GroupID = orDefault(info.GroupID, c.coords.GroupID)
	c.coords.ArtifactID = orDefault(info.ArtifactID, c.coords.ArtifactID)
	c.coords.Version = orDefault(info.Version, c.coords.Version)
	c.goal = orDefault(info.Goal, c.goal)
	c.executionID = orDefault(info.ExecutionID, c.executionID)
	c.phase = orDefault(info.Phase, c.phase)
	c.extensions = c.extensions || info.Extensions

	for _, tag := range info.ExpandTags {
		if tag == "extensions" {
			c.extensions = true

			continue
		}

		if !slices.Contains(c.flags, tag) {
			c.flags = append(c.flags, tag)
		}
	}

	if len(info.Configuration) > 0 {
		if c.configuration == nil {
			c.configuration = make(map[string]any, len(info.Configuration))
		}

		maps.Copy(c.configuration, info.Configuration)
	}

	execs, err := parseExecutions(info.Executions)
	if err != nil {
		return nil, fmt.Errorf("binding plugin %q: %w", meta.ID(), err)
	}

	c.executions = append(c.executions, execs...)
	c.incompatible = append(c.incompatible, info.IncompatibleLicenses...)

	return c, nil
}

// Check rejects declared licenses the plugin is incompatible with, then runs
// built-in preconditions.
func (p *PluginStrategy) Check(s *Settings) error {
	if strings.TrimSpace(p.coords.GroupID) == "" || strings.TrimSpace(p.coords.ArtifactID) == "" {
		return Critical(p.name, "plugin coordinates are incomplete")
	}

	for _, lic := range s.Licenses {
		for _, bad := range p.incompatible {
			if strings.EqualFold(strings.TrimSpace(lic), strings.TrimSpace(bad)) {
				return Critical(p.name, "plugin %s is incompatible with declared license %q", p.coords, lic)
			}
		}
	}

	if p.precheck != nil {
		return p.precheck(p, s)
	}

	return nil
}

// Exists matches on groupId and artifactId.
func (p *PluginStrategy) Exists(m manifest.Manifest) bool {
	return m.HasPlugin(p.coords.GroupID, p.coords.ArtifactID)
}

// Plugin renders the manifest entry this strategy adds under s.
func (p *PluginStrategy) Plugin(s *Settings) manifest.Plugin {
	cfg := model.CloneMap(p.configuration)

	if p.fromSettings != nil {
		extra := p.fromSettings(s)
		if len(extra) > 0 && cfg == nil {
			cfg = make(map[string]any, len(extra))
		}

		maps.Copy(cfg, extra)
	}

	pl := manifest.Plugin{
		GroupID:       p.coords.GroupID,
		ArtifactID:    p.coords.ArtifactID,
		Version:       p.coords.Version,
		Extensions:    p.extensions,
		Configuration: cfg,
		Flags:         slices.Clone(p.flags),
	}

	if p.goal != "" {
		pl.Executions = append(pl.Executions, manifest.Execution{
			ID:    p.executionID,
			Phase: p.phase,
			Goals: []string{p.goal},
		})
	}

	pl.Executions = append(pl.Executions, p.executions...)

	return pl
}

// Apply adds the plugin and, when an invoker is configured and the plugin
// has a goal, runs that goal.
func (p *PluginStrategy) Apply(ctx context.Context, m manifest.Manifest, s *Settings) error {
	pl := p.Plugin(s)

	if err := m.AddPlugin(pl); err != nil {
		return fmt.Errorf("adding plugin %s: %w", p.coords, err)
	}

	if s.Invoker == nil || p.goal == "" {
		return nil
	}

	return s.Invoker.Invoke(ctx, invoker.Goal{
		Coordinates: p.coords,
		Goal:        p.goal,
		Properties:  p.properties(pl.Configuration, s),
		PomFile:     s.PomFile,
	})
}

// properties flattens scalar configuration into -D properties. Run settings
// properties and secrets from goalProps take precedence.
func (p *PluginStrategy) properties(cfg map[string]any, s *Settings) map[string]string {
	props := make(map[string]string, len(cfg)+len(s.Properties))

	for k, v := range cfg {
		switch v.(type) {
		case map[string]any, []any, []string, nil:
		default:
			props[k] = fmt.Sprint(v)
		}
	}

	maps.Copy(props, s.Properties)

	if p.goalProps != nil {
		maps.Copy(props, p.goalProps(s))
	}

	return props
}

// parseExecutions reads the executions map: execution id to a block with
// phase, goals (list or single string) and configuration.
func parseExecutions(raw map[string]any) ([]manifest.Execution, error) {
	ids := slices.Sorted(maps.Keys(raw))
	out := make([]manifest.Execution, 0, len(ids))

	for _, id := range ids {
		block, ok := raw[id].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("execution %q must be a mapping", id)
		}

		x := manifest.Execution{ID: id}

		for k, v := range block {
			switch k {
			case "phase":
				x.Phase = fmt.Sprint(v)
			case "goals":
				switch g := v.(type) {
				case string:
					x.Goals = []string{g}
				case []any:
					for _, e := range g {
						x.Goals = append(x.Goals, fmt.Sprint(e))
					}
				default:
					return nil, fmt.Errorf("execution %q: goals must be a string or list", id)
				}
			case "configuration":
				cfg, ok := v.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("execution %q: configuration must be a mapping", id)
				}

				x.Configuration = cfg
			default:
				return nil, fmt.Errorf("execution %q: unknown key %q", id, k)
			}
		}

		out = append(out, x)
	}

	return out, nil
}
