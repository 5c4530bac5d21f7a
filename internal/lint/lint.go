// Package lint re-reads compiled stylesheets with a real CSS tokenizer and
// reports declarations that browsers would drop or misread.
package lint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	stylerr "github.com/layera/stylegen/internal/errors"
	"github.com/layera/stylegen/internal/logging"
)

// Severity ranks a finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Rule names.
const (
	RuleVarSuffix  = "var-suffix"
	RuleEmptyValue = "empty-value"
	RuleParse      = "parse"
)

// Finding is a single lint result.
type Finding struct {
	Source   string   `json:"source" yaml:"source"`
	Rule     string   `json:"rule" yaml:"rule"`
	Severity Severity `json:"severity" yaml:"severity"`
	Selector string   `json:"selector,omitempty" yaml:"selector,omitempty"`
	Property string   `json:"property,omitempty" yaml:"property,omitempty"`
	Value    string   `json:"value,omitempty" yaml:"value,omitempty"`
	Message  string   `json:"message" yaml:"message"`
}

func (f Finding) String() string {
	var sb strings.Builder
	if f.Source != "" {
		sb.WriteString(f.Source + ": ")
	}
	fmt.Fprintf(&sb, "%s [%s]", f.Severity, f.Rule)
	if f.Selector != "" {
		sb.WriteString(" " + f.Selector)
	}
	if f.Property != "" {
		sb.WriteString(" { " + f.Property + " }")
	}
	sb.WriteString(": " + f.Message)
	return sb.String()
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Linter checks CSS text.
type Linter struct {
	logger logging.Logger
}

// New creates a linter.
func New(logger logging.Logger) *Linter {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Linter{logger: logger.WithComponent("lint")}
}

// Lint tokenizes data and returns the findings in document order.
func (l *Linter) Lint(ctx context.Context, data []byte, source string) []Finding {
	l.logger.Debug(ctx, "Linting stylesheet", "source", source, "bytes", len(data))

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	var (
		findings []Finding
		scopes   []string
	)
	report := func(f Finding) {
		f.Source = source
		f.Selector = strings.Join(scopes, " ")
		findings = append(findings, f)
	}

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err != io.EOF {
				report(Finding{
					Rule:     RuleParse,
					Severity: SeverityError,
					Message:  err.Error(),
				})
			}
			return findings

		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			scopes = append(scopes, strings.TrimSpace(joinTokens(data, parser.Values())))

		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			if len(scopes) > 0 {
				scopes = scopes[:len(scopes)-1]
			}

		case css.BadDeclarationGrammar:
			report(Finding{
				Rule:     RuleParse,
				Severity: SeverityError,
				Value:    strings.TrimSpace(joinTokens(data, parser.Values())),
				Message:  "malformed declaration",
			})

		case css.DeclarationGrammar:
			for _, f := range checkDeclaration(string(data), parser.Values()) {
				report(f)
			}
		}
	}
}

// LintFile reads and lints a stylesheet on disk.
func (l *Linter) LintFile(ctx context.Context, path string) ([]Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stylerr.WrapIO(err, stylerr.ErrCodeReadFailed, "cannot read stylesheet "+path)
	}
	return l.Lint(ctx, data, path), nil
}

// Err turns error-severity findings into a lint failure, or returns nil.
func Err(findings []Finding) error {
	var errs []string
	for _, f := range findings {
		if f.Severity == SeverityError {
			errs = append(errs, f.String())
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return stylerr.NewValidationError(stylerr.ErrCodeLintFailed,
		fmt.Sprintf("%d lint error(s): %s", len(errs), strings.Join(errs, "; ")))
}

func checkDeclaration(property string, values []css.Token) []Finding {
	value := strings.TrimSpace(joinTokens(nil, values))
	if value == "" {
		return []Finding{{
			Rule:     RuleEmptyValue,
			Severity: SeverityWarning,
			Property: property,
			Message:  "declaration has no value",
		}}
	}

	var findings []Finding
	depth := 0
	varDepth := -1
	for i, tok := range values {
		switch tok.TokenType {
		case css.FunctionToken:
			if strings.EqualFold(string(tok.Data), "var(") && varDepth < 0 {
				varDepth = depth
			}
			depth++
		case css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
			if depth == varDepth {
				varDepth = -1
				if i+1 < len(values) && isSuffix(values[i+1].TokenType) {
					findings = append(findings, Finding{
						Rule:     RuleVarSuffix,
						Severity: SeverityWarning,
						Property: property,
						Value:    value,
						Message: fmt.Sprintf("%q is glued to a var() reference and makes the value invalid",
							string(values[i+1].Data)),
					})
				}
			}
		}
	}
	return findings
}

func isSuffix(tt css.TokenType) bool {
	switch tt {
	case css.NumberToken, css.DimensionToken, css.PercentageToken, css.IdentToken, css.HashToken:
		return true
	}
	return false
}

func joinTokens(head []byte, tokens []css.Token) string {
	var sb strings.Builder
	sb.Write(head)
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	return sb.String()
}
