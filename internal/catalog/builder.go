// Package catalog holds the builder documents that describe Layera's
// generated stylesheets.
//
// A builder is one YAML document: a name, a banner, an ordered list of titled
// sections and optional functional groups over the sections' categories. The
// built-in Layera builders are embedded in the binary; project directories can
// add builders or replace built-in ones by name.
package catalog

import (
	"github.com/layera/stylegen/internal/stylesheet"
)

// Builder is a named, ordered list of sections compiled into one stylesheet.
type Builder struct {
	Name        string
	Banner      string
	Description string
	Sections    []Section
	Groups      stylesheet.Groups
	// Source is the file the builder was loaded from.
	Source string

	categories *stylesheet.Registry
}

// Section is a titled section, optionally registered under a category key.
type Section struct {
	Title    string
	Category string
	Rules    stylesheet.Section
}

// NewBuilder assembles a builder and indexes its categories.
func NewBuilder(name, banner string, sections []Section, groups stylesheet.Groups) *Builder {
	b := &Builder{
		Name:     name,
		Banner:   banner,
		Sections: sections,
		Groups:   groups,
	}
	b.index()
	return b
}

func (b *Builder) index() {
	b.categories = stylesheet.NewRegistry()
	for _, s := range b.Sections {
		if s.Category != "" {
			b.categories.Set(s.Category, s.Rules)
		}
	}
	if b.Groups == nil {
		b.Groups = stylesheet.Groups{}
	}
}

// Categories returns the builder's category registry.
func (b *Builder) Categories() *stylesheet.Registry {
	return b.categories
}

// Category returns the section registered under key, or nil.
func (b *Builder) Category(key string) stylesheet.Section {
	return b.categories.GetCategory(key)
}

// Group returns the selectors of every category in the named group.
func (b *Builder) Group(key string) []string {
	return stylesheet.FilterByFunctionalGroup(b.categories, b.Groups, key)
}

// TitledSections returns the sections in aggregation order.
func (b *Builder) TitledSections() []stylesheet.TitledSection {
	out := make([]stylesheet.TitledSection, 0, len(b.Sections))
	for _, s := range b.Sections {
		out = append(out, stylesheet.TitledSection{Title: s.Title, Section: s.Rules})
	}
	return out
}

// CSS compiles the builder into a single stylesheet.
func (b *Builder) CSS() string {
	return stylesheet.AggregateAll(b.Banner, b.TitledSections())
}

// RuleCount returns the number of top-level rules across all sections.
func (b *Builder) RuleCount() int {
	n := 0
	for _, s := range b.Sections {
		n += len(s.Rules)
	}
	return n
}
