// Package stylesheet compiles ordered style objects into CSS text.
//
// A Section maps selectors to declaration blocks. Property names are written
// in camelCase and converted to kebab-case on output; values are emitted
// verbatim. Slices carry insertion order, so output order always equals the
// order in which rules and declarations were defined.
//
// At-rules (selectors starting with '@') may carry one extra nesting level:
// an @media block holds nested class rules and an @keyframes block holds
// keyframe offsets.
package stylesheet

import "strings"

// Declaration is a single CSS property/value pair. Value is expected to be a
// string or a number; Validate reports anything else.
type Declaration struct {
	Property string
	Value    any
}

// Number is a numeric value kept in its source spelling, such as "1.50" or
// "1e21". It is emitted exactly as written.
type Number string

// Body is the right-hand side of a Rule: a Block, a nested Section (at-rules
// only) or Raw. A nil Body is a null block.
type Body interface {
	isBody()
}

// Block is an ordered declaration block.
type Block []Declaration

// Rule binds a selector to its body.
type Rule struct {
	Selector string
	Body     Body
}

// Section is an ordered list of rules.
type Section []Rule

// Raw carries a non-mapping body from loosely typed input, such as a YAML
// scalar or list where a declaration block was expected.
type Raw struct {
	Value any
}

func (Block) isBody()   {}
func (Section) isBody() {}
func (Raw) isBody()     {}

// TitledSection is a named section used when aggregating a builder.
type TitledSection struct {
	Title   string
	Section Section
}

// Selectors returns the selector names of s in order.
func (s Section) Selectors() []string {
	names := make([]string, 0, len(s))
	for _, rule := range s {
		names = append(names, rule.Selector)
	}
	return names
}

// Lookup returns the body bound to selector and whether it exists.
func (s Section) Lookup(selector string) (Body, bool) {
	for _, rule := range s {
		if rule.Selector == selector {
			return rule.Body, true
		}
	}
	return nil, false
}

// IsAtRule reports whether selector is an at-rule header.
func IsAtRule(selector string) bool {
	return strings.HasPrefix(selector, "@")
}

// IsKeyframes reports whether selector is an @keyframes header.
func IsKeyframes(selector string) bool {
	return strings.HasPrefix(selector, "@keyframes")
}

// IsMedia reports whether selector is an @media header.
func IsMedia(selector string) bool {
	return strings.HasPrefix(selector, "@media")
}
