package manifest

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// POM is a Manifest backed by a Maven pom.xml. Elements it does not manage
// are kept as read.
type POM struct {
	path   string
	doc    *etree.Document
	root   *etree.Element
	writes int
}

var _ Manifest = (*POM)(nil)

// OpenPOM reads and parses the pom.xml at path.
func OpenPOM(path string) (*POM, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(filepath.Clean(path)); err != nil {
		return nil, fmt.Errorf("reading pom %s: %w", path, err)
	}

	p, err := newPOM(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing pom %s: %w", path, err)
	}

	p.path = path

	return p, nil
}

// ParsePOM parses pom.xml content held in memory.
func ParsePOM(data []byte) (*POM, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing pom: %w", err)
	}

	return newPOM(doc)
}

func newPOM(doc *etree.Document) (*POM, error) {
	root := doc.Root()
	if root == nil || root.Tag != "project" {
		return nil, errors.New("root element must be <project>")
	}

	return &POM{doc: doc, root: root}, nil
}

// Path returns the file the POM was opened from, if any.
func (p *POM) Path() string { return p.path }

// Writes returns the number of mutations applied since the POM was read.
func (p *POM) Writes() int { return p.writes }

// HasPlugin searches build/plugins and build/pluginManagement/plugins.
func (p *POM) HasPlugin(groupID, artifactID string) bool {
	want := pluginGroup(groupID)

	for _, path := range []string{"./build/plugins/plugin", "./build/pluginManagement/plugins/plugin"} {
		for _, el := range p.root.FindElements(path) {
			if pluginGroup(childText(el, "groupId")) == want && childText(el, "artifactId") == artifactID {
				return true
			}
		}
	}

	return false
}

// AddPlugin appends a plugin to build/plugins.
func (p *POM) AddPlugin(pl Plugin) error {
	plugins := ensure(ensure(p.root, "build"), "plugins")
	el := plugins.CreateElement("plugin")

	el.CreateElement("groupId").SetText(pluginGroup(pl.GroupID))
	el.CreateElement("artifactId").SetText(pl.ArtifactID)
	setOptional(el, "version", pl.Version)

	if pl.Extensions {
		el.CreateElement("extensions").SetText("true")
	}

	for _, f := range pl.Flags {
		el.CreateElement(f).SetText("true")
	}

	if len(pl.Configuration) > 0 {
		renderValue(el, "configuration", pl.Configuration)
	}

	if len(pl.Executions) > 0 {
		execs := el.CreateElement("executions")
		for _, x := range pl.Executions {
			xe := execs.CreateElement("execution")
			setOptional(xe, "id", x.ID)
			setOptional(xe, "phase", x.Phase)

			if len(x.Goals) > 0 {
				goals := xe.CreateElement("goals")
				for _, g := range x.Goals {
					goals.CreateElement("goal").SetText(g)
				}
			}

			if len(x.Configuration) > 0 {
				renderValue(xe, "configuration", x.Configuration)
			}
		}
	}

	p.writes++

	return nil
}

// HasDependency searches dependencies and dependencyManagement/dependencies.
func (p *POM) HasDependency(groupID, artifactID string) bool {
	for _, path := range []string{"./dependencies/dependency", "./dependencyManagement/dependencies/dependency"} {
		for _, el := range p.root.FindElements(path) {
			if childText(el, "groupId") == groupID && childText(el, "artifactId") == artifactID {
				return true
			}
		}
	}

	return false
}

// Dependencies returns the direct dependencies.
func (p *POM) Dependencies() []Dependency {
	var out []Dependency

	for _, el := range p.root.FindElements("./dependencies/dependency") {
		optional, _ := strconv.ParseBool(childText(el, "optional"))

		d := Dependency{
			GroupID:    childText(el, "groupId"),
			ArtifactID: childText(el, "artifactId"),
			Version:    childText(el, "version"),
			Type:       childText(el, "type"),
			Scope:      childText(el, "scope"),
			Classifier: childText(el, "classifier"),
			Optional:   optional,
			SystemPath: childText(el, "systemPath"),
		}

		for _, ex := range el.FindElements("./exclusions/exclusion") {
			d.Exclusions = append(d.Exclusions, Exclusion{
				GroupID:    childText(ex, "groupId"),
				ArtifactID: childText(ex, "artifactId"),
			})
		}

		out = append(out, d)
	}

	return out
}

// AddDependency appends to dependencies. Type jar and scope compile are
// omitted since they are Maven's defaults.
func (p *POM) AddDependency(d Dependency) error {
	el := ensure(p.root, "dependencies").CreateElement("dependency")

	el.CreateElement("groupId").SetText(d.GroupID)
	el.CreateElement("artifactId").SetText(d.ArtifactID)
	setOptional(el, "version", d.Version)

	if d.Type != "" && d.Type != "jar" {
		el.CreateElement("type").SetText(d.Type)
	}

	setOptional(el, "classifier", d.Classifier)

	if d.Scope != "" && !strings.EqualFold(d.Scope, "compile") {
		el.CreateElement("scope").SetText(strings.ToLower(d.Scope))
	}

	setOptional(el, "systemPath", d.SystemPath)

	if d.Optional {
		el.CreateElement("optional").SetText("true")
	}

	if len(d.Exclusions) > 0 {
		exs := el.CreateElement("exclusions")
		for _, x := range d.Exclusions {
			ex := exs.CreateElement("exclusion")
			ex.CreateElement("groupId").SetText(x.GroupID)
			ex.CreateElement("artifactId").SetText(x.ArtifactID)
		}
	}

	p.writes++

	return nil
}

// Licenses returns the declared licenses.
func (p *POM) Licenses() []License {
	var out []License

	for _, el := range p.root.FindElements("./licenses/license") {
		out = append(out, License{
			Name:         childText(el, "name"),
			URL:          childText(el, "url"),
			Distribution: childText(el, "distribution"),
		})
	}

	return out
}

// AddLicense appends to licenses.
func (p *POM) AddLicense(l License) error {
	el := ensure(p.root, "licenses").CreateElement("license")

	setOptional(el, "name", l.Name)
	setOptional(el, "url", l.URL)
	setOptional(el, "distribution", l.Distribution)

	p.writes++

	return nil
}

// WriteTo renders the document with two-space indentation.
func (p *POM) WriteTo(w io.Writer) (int64, error) {
	p.doc.Indent(2)

	return p.doc.WriteTo(w)
}

// Save writes the document back to the file it was opened from.
func (p *POM) Save() error {
	if p.path == "" {
		return errors.New("saving pom: no file path")
	}

	p.doc.Indent(2)

	if err := p.doc.WriteToFile(p.path); err != nil {
		return fmt.Errorf("writing pom %s: %w", p.path, err)
	}

	return nil
}

func childText(el *etree.Element, tag string) string {
	c := el.SelectElement(tag)
	if c == nil {
		return ""
	}

	return strings.TrimSpace(c.Text())
}

func ensure(el *etree.Element, tag string) *etree.Element {
	if c := el.SelectElement(tag); c != nil {
		return c
	}

	return el.CreateElement(tag)
}

func setOptional(el *etree.Element, tag, value string) {
	if value != "" {
		el.CreateElement(tag).SetText(value)
	}
}

// renderValue writes value under parent as <key>. Maps become child
// elements in key order; list items are named after the singular of key.
func renderValue(parent *etree.Element, key string, value any) {
	el := parent.CreateElement(key)

	switch v := value.(type) {
	case nil:
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		for _, k := range keys {
			renderValue(el, k, v[k])
		}
	case map[string]string:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		for _, k := range keys {
			el.CreateElement(k).SetText(v[k])
		}
	case []any:
		item := singular(key)
		for _, e := range v {
			renderValue(el, item, e)
		}
	case []string:
		item := singular(key)
		for _, e := range v {
			el.CreateElement(item).SetText(e)
		}
	default:
		el.SetText(fmt.Sprint(v))
	}
}

func singular(key string) string {
	switch {
	case strings.HasSuffix(key, "ies") && len(key) > 3:
		return strings.TrimSuffix(key, "ies") + "y"
	case strings.HasSuffix(key, "s") && len(key) > 1:
		return strings.TrimSuffix(key, "s")
	default:
		return "item"
	}
}
