package stylesheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var upperLetter = regexp.MustCompile(`([A-Z])`)

// KebabCase converts a camelCase property name to kebab-case by inserting a
// hyphen before every uppercase letter and lowercasing the result.
//
//	fontSize            -> font-size
//	borderTopLeftRadius -> border-top-left-radius
//	WebkitTransition    -> -webkit-transition
func KebabCase(property string) string {
	return strings.ToLower(upperLetter.ReplaceAllString(property, "-$1"))
}

// FormatValue renders a declaration value verbatim. Numbers use their
// shortest decimal form.
func FormatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case Number:
		return string(v)
	case int:
		return strconv.Itoa(v)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// PropertyToCSSText renders one declaration line: "  <kebab-property>: <value>;".
func PropertyToCSSText(property string, value any) string {
	return "  " + KebabCase(property) + ": " + FormatValue(value) + ";"
}

// BlockToCSSText renders every declaration of b in order, one per line.
func BlockToCSSText(b Block) string {
	lines := make([]string, 0, len(b))
	for _, d := range b {
		lines = append(lines, PropertyToCSSText(d.Property, d.Value))
	}
	return strings.Join(lines, "\n")
}

// SectionToCSSText renders every rule of s in order. Each rule is followed by
// a blank line.
func SectionToCSSText(s Section) string {
	var sb strings.Builder
	for _, rule := range s {
		writeRule(&sb, rule)
	}
	return sb.String()
}

// GenerateCommentedSection prefixes the compiled section with a single
// "/* <title> */" line.
func GenerateCommentedSection(title string, s Section) string {
	return "/* " + title + " */\n" + SectionToCSSText(s)
}

// AggregateAll renders the named banner followed by every titled section in
// the given order.
func AggregateAll(name string, sections []TitledSection) string {
	var sb strings.Builder
	sb.WriteString("/* " + name + " */\n\n")
	for _, ts := range sections {
		sb.WriteString(GenerateCommentedSection(ts.Title, ts.Section))
	}
	return sb.String()
}

// writeRule emits one rule. Every block, top-level or nested, is written as
// "{\n<declarations>\n}", so an empty or malformed body leaves one blank line.
func writeRule(sb *strings.Builder, rule Rule) {
	if !IsAtRule(rule.Selector) {
		block, _ := rule.Body.(Block)
		sb.WriteString(classSelector(rule.Selector) + " {\n" + BlockToCSSText(block) + "\n}\n\n")
		return
	}

	sb.WriteString(rule.Selector + " {\n")
	switch body := rule.Body.(type) {
	case Section:
		keyframes := IsKeyframes(rule.Selector)
		for _, inner := range body {
			selector := inner.Selector
			if !keyframes {
				selector = classSelector(selector)
			}
			block, _ := inner.Body.(Block)
			sb.WriteString("  " + selector + " {\n" + indent(BlockToCSSText(block)) + "\n  }\n")
		}
	case Block:
		sb.WriteString(BlockToCSSText(body) + "\n")
	default:
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")
}

// classSelector adds the class dot unless the selector already starts with a
// selector sigil.
func classSelector(selector string) string {
	if selector == "" {
		return "."
	}
	switch selector[0] {
	case '.', '#', ':', '*', '[':
		return selector
	}
	return "." + selector
}

func indent(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
