package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	stylerr "github.com/layera/stylegen/internal/errors"
	"github.com/layera/stylegen/internal/stylesheet"
)

var builderName = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Parse decodes one builder document. source names the document in errors.
//
// Mappings are walked node by node so that selector and property order is
// kept. Shapes that are not declaration blocks (null, scalars, lists, nested
// objects under a class selector) are preserved so that stylesheet.Validate
// can report them.
func Parse(data []byte, source string) (*Builder, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, parseError(source, nil, "document is empty")
		}
		return nil, stylerr.NewParseError(stylerr.ErrCodeInvalidDocument, "cannot decode YAML", err).
			WithLocation(source, 0, 0)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, parseError(source, root, "builder document must be a mapping")
	}

	var (
		name, banner, description string
		sections                  []Section
		groups                    stylesheet.Groups
	)

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "name":
			name = strings.TrimSpace(value.Value)
		case "banner":
			banner = value.Value
		case "description":
			description = value.Value
		case "sections":
			parsed, err := parseSections(value, source)
			if err != nil {
				return nil, err
			}
			sections = parsed
		case "groups":
			parsed, err := parseGroups(value, source)
			if err != nil {
				return nil, err
			}
			groups = parsed
		default:
			return nil, parseError(source, key, fmt.Sprintf("unknown field %q", key.Value))
		}
	}

	if !builderName.MatchString(name) {
		return nil, parseError(source, root, fmt.Sprintf("builder name %q must be lowercase letters, digits and hyphens", name))
	}
	if banner == "" {
		banner = strings.ToUpper(strings.ReplaceAll(name, "-", " "))
	}

	b := NewBuilder(name, banner, sections, groups)
	b.Description = description
	b.Source = source
	return b, nil
}

func parseSections(node *yaml.Node, source string) ([]Section, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, parseError(source, node, "sections must be a list")
	}

	sections := make([]Section, 0, len(node.Content))
	seenCategories := make(map[string]bool)
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return nil, parseError(source, item, "each section must be a mapping")
		}

		var section Section
		var rulesNode *yaml.Node
		for i := 0; i+1 < len(item.Content); i += 2 {
			key, value := item.Content[i], item.Content[i+1]
			switch key.Value {
			case "title":
				section.Title = value.Value
			case "category":
				section.Category = value.Value
			case "rules":
				rulesNode = value
			default:
				return nil, parseError(source, key, fmt.Sprintf("unknown section field %q", key.Value))
			}
		}

		if section.Title == "" {
			return nil, parseError(source, item, "section title is required")
		}
		if section.Category != "" {
			if seenCategories[section.Category] {
				return nil, parseError(source, item, fmt.Sprintf("category %q is defined twice", section.Category))
			}
			seenCategories[section.Category] = true
		}
		if rulesNode != nil && !isNull(rulesNode) {
			if rulesNode.Kind != yaml.MappingNode {
				return nil, parseError(source, rulesNode, "rules must be a mapping of selectors")
			}
			rules, err := parseRules(rulesNode, false, source)
			if err != nil {
				return nil, err
			}
			section.Rules = rules
		}

		sections = append(sections, section)
	}
	return sections, nil
}

func parseRules(node *yaml.Node, nested bool, source string) (stylesheet.Section, error) {
	rules := make(stylesheet.Section, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		selector := key.Value
		if seen[selector] {
			return nil, parseError(source, key, fmt.Sprintf("selector %q is defined twice", selector))
		}
		seen[selector] = true

		body, err := parseBody(value, !nested && stylesheet.IsAtRule(selector), source)
		if err != nil {
			return nil, err
		}
		rules = append(rules, stylesheet.Rule{Selector: selector, Body: body})
	}
	return rules, nil
}

// parseBody converts the value bound to a selector. At-rules whose entries are
// themselves mappings become nested sections.
func parseBody(node *yaml.Node, atRule bool, source string) (stylesheet.Body, error) {
	node = resolveAlias(node)
	switch {
	case isNull(node):
		return nil, nil
	case node.Kind == yaml.MappingNode:
		if atRule && hasMappingValues(node) {
			return parseRules(node, true, source)
		}
		return parseBlock(node, source)
	default:
		v, err := decodeValue(node, source)
		if err != nil {
			return nil, err
		}
		return stylesheet.Raw{Value: v}, nil
	}
}

func parseBlock(node *yaml.Node, source string) (stylesheet.Block, error) {
	block := make(stylesheet.Block, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], resolveAlias(node.Content[i+1])
		if seen[key.Value] {
			return nil, parseError(source, key, fmt.Sprintf("property %q is defined twice", key.Value))
		}
		seen[key.Value] = true

		var v any
		if value.Kind == yaml.MappingNode {
			inner, err := parseBlock(value, source)
			if err != nil {
				return nil, err
			}
			v = inner
		} else {
			decoded, err := decodeValue(value, source)
			if err != nil {
				return nil, err
			}
			v = decoded
		}
		block = append(block, stylesheet.Declaration{Property: key.Value, Value: v})
	}
	return block, nil
}

// decodeValue returns numeric scalars in their source spelling so that
// "1.50", "010" or "1e21" reach the stylesheet unchanged.
func decodeValue(node *yaml.Node, source string) (any, error) {
	if node.Kind == yaml.ScalarNode {
		switch node.ShortTag() {
		case "!!int", "!!float":
			return stylesheet.Number(node.Value), nil
		}
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, stylerr.NewParseError(stylerr.ErrCodeInvalidDocument, "cannot decode value", err).
			WithLocation(source, node.Line, node.Column)
	}
	return v, nil
}

func hasMappingValues(node *yaml.Node) bool {
	for i := 1; i < len(node.Content); i += 2 {
		if resolveAlias(node.Content[i]).Kind == yaml.MappingNode {
			return true
		}
	}
	return false
}

func parseGroups(node *yaml.Node, source string) (stylesheet.Groups, error) {
	if node.Kind != yaml.MappingNode {
		return nil, parseError(source, node, "groups must be a mapping of group name to categories")
	}
	groups := make(stylesheet.Groups, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var categories []string
		if err := value.Decode(&categories); err != nil {
			return nil, parseError(source, value, fmt.Sprintf("group %q must be a list of category keys", key.Value))
		}
		groups[key.Value] = categories
	}
	return groups, nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func parseError(source string, node *yaml.Node, message string) *stylerr.StyleError {
	line, column := 0, 0
	if node != nil {
		line, column = node.Line, node.Column
	}
	return stylerr.NewParseError(stylerr.ErrCodeInvalidDocument, message, nil).
		WithLocation(source, line, column)
}
