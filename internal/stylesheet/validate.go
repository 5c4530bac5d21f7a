package stylesheet

import (
	"fmt"
	"io"
	"strings"
)

// Violation classifies a shape problem found by Validate.
type Violation string

const (
	ViolationEmptySelector Violation = "empty-selector"
	ViolationEmptyProperty Violation = "empty-property"
	ViolationInvalidBlock  Violation = "invalid-block"
	ViolationInvalidValue  Violation = "invalid-value"
)

// Diagnostic describes the first shape violation found in a section.
type Diagnostic struct {
	Kind     Violation
	Path     []string // selectors from the outermost rule inward
	Property string
	Value    any
	Message  string
}

// String renders the diagnostic as a single human-readable line.
func (d Diagnostic) String() string {
	var sb strings.Builder
	sb.WriteString(string(d.Kind))
	if len(d.Path) > 0 {
		sb.WriteString(" at " + strings.Join(d.Path, " > "))
	}
	if d.Property != "" {
		sb.WriteString(" [" + d.Property + "]")
	}
	sb.WriteString(": " + d.Message)
	return sb.String()
}

// Sink receives validation diagnostics.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(d Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// WriterSink writes each diagnostic on its own line to w.
func WriterSink(w io.Writer) Sink {
	return SinkFunc(func(d Diagnostic) {
		fmt.Fprintf(w, "style validation failed: %s\n", d)
	})
}

// ShapeError is returned by Check for the first violation found.
type ShapeError struct {
	Diagnostic Diagnostic
}

func (e *ShapeError) Error() string {
	return "invalid style section: " + e.Diagnostic.String()
}

// Validate walks every selector, property and value of s. On the first
// violation it reports one diagnostic to sink (which may be nil) and returns
// false. It never panics on malformed input.
func Validate(s Section, sink Sink) bool {
	d, ok := inspectSection(s, nil, false)
	if ok {
		return true
	}
	if sink != nil {
		sink.Report(d)
	}
	return false
}

// Check is Validate for callers that prefer an error. It returns nil or a
// *ShapeError.
func Check(s Section) error {
	if d, ok := inspectSection(s, nil, false); !ok {
		return &ShapeError{Diagnostic: d}
	}
	return nil
}

func inspectSection(s Section, path []string, nested bool) (Diagnostic, bool) {
	for _, rule := range s {
		rulePath := appendPath(path, rule.Selector)
		if strings.TrimSpace(rule.Selector) == "" {
			return Diagnostic{
				Kind:    ViolationEmptySelector,
				Path:    rulePath,
				Message: "selector name is empty",
			}, false
		}

		if !nested && IsAtRule(rule.Selector) {
			switch body := rule.Body.(type) {
			case Section:
				if d, ok := inspectSection(body, rulePath, true); !ok {
					return d, false
				}
				continue
			case Block:
				if d, ok := inspectBlock(body, rulePath); !ok {
					return d, false
				}
				continue
			}
			return invalidBlock(rulePath, rule.Body), false
		}

		block, ok := rule.Body.(Block)
		if !ok {
			return invalidBlock(rulePath, rule.Body), false
		}
		if d, ok := inspectBlock(block, rulePath); !ok {
			return d, false
		}
	}
	return Diagnostic{}, true
}

func inspectBlock(b Block, path []string) (Diagnostic, bool) {
	for _, decl := range b {
		if strings.TrimSpace(decl.Property) == "" {
			return Diagnostic{
				Kind:    ViolationEmptyProperty,
				Path:    path,
				Message: "property name is empty",
			}, false
		}
		if !IsScalar(decl.Value) {
			return Diagnostic{
				Kind:     ViolationInvalidValue,
				Path:     path,
				Property: decl.Property,
				Value:    decl.Value,
				Message:  fmt.Sprintf("value must be a string or number, got %s", describe(decl.Value)),
			}, false
		}
	}
	return Diagnostic{}, true
}

// IsScalar reports whether v is a string or a number.
func IsScalar(v any) bool {
	switch v.(type) {
	case string, Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

func invalidBlock(path []string, body Body) Diagnostic {
	return Diagnostic{
		Kind:    ViolationInvalidBlock,
		Path:    path,
		Value:   body,
		Message: fmt.Sprintf("declaration block must be an object, got %s", describeBody(body)),
	}
}

func describeBody(body Body) string {
	switch b := body.(type) {
	case nil:
		return "null"
	case Raw:
		return describe(b.Value)
	case Section:
		return "nested rules"
	}
	return fmt.Sprintf("%T", body)
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case Block, map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

func appendPath(path []string, selector string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, selector)
}
