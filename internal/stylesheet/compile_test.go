package stylesheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKebabCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"fontSize", "font-size"},
		{"borderTopLeftRadius", "border-top-left-radius"},
		{"color", "color"},
		{"font-size", "font-size"},
		{"WebkitTransition", "-webkit-transition"},
		{"zIndex", "z-index"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, KebabCase(tt.input))
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "12px", FormatValue("12px"))
	assert.Equal(t, "100", FormatValue(100))
	assert.Equal(t, "0.5", FormatValue(0.5))
	assert.Equal(t, "1.25", FormatValue(float32(1.25)))
	assert.Equal(t, "7", FormatValue(int64(7)))
	assert.Equal(t, "3", FormatValue(uint8(3)))
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "1.50", FormatValue(Number("1.50")))
	assert.Equal(t, "1e21", FormatValue(Number("1e21")))
}

func TestPropertyToCSSText(t *testing.T) {
	assert.Equal(t, "  background-color: red;", PropertyToCSSText("backgroundColor", "red"))
	assert.Equal(t, "  z-index: 10;", PropertyToCSSText("zIndex", 10))
	assert.Equal(t, "  color: red !important;", PropertyToCSSText("color", "red !important"))
	assert.Equal(t, "  color: var(--layera-color-success)10;",
		PropertyToCSSText("color", "var(--layera-color-success)10"))
}

func TestBlockToCSSText(t *testing.T) {
	block := Block{
		{"backgroundColor", "red"},
		{"fontSize", "12px"},
	}
	assert.Equal(t, "  background-color: red;\n  font-size: 12px;", BlockToCSSText(block))
	assert.Equal(t, "", BlockToCSSText(nil))
}

func TestSectionToCSSText(t *testing.T) {
	t.Run("plain rules keep insertion order", func(t *testing.T) {
		section := Section{
			{"b-rule", Block{{"color", "blue"}}},
			{"a-rule", Block{{"color", "red"}}},
		}
		expected := ".b-rule {\n  color: blue;\n}\n\n.a-rule {\n  color: red;\n}\n\n"
		assert.Equal(t, expected, SectionToCSSText(section))
	})

	t.Run("leading dot is not doubled", func(t *testing.T) {
		section := Section{
			{".already-dotted", Block{{"margin", 0}}},
			{":root", Block{{"--layera-gap", "8px"}}},
		}
		out := SectionToCSSText(section)
		assert.Contains(t, out, ".already-dotted {\n")
		assert.NotContains(t, out, "..already-dotted")
		assert.Contains(t, out, ":root {\n")
		assert.Equal(t, 1, strings.Count(out, "already-dotted"))
	})

	t.Run("media query nests class rules", func(t *testing.T) {
		section := Section{
			{"@media (max-width: 768px)", Section{
				{"layera-sidebar", Block{{"display", "none"}}},
				{"layera-main", Block{{"paddingLeft", 0}, {"width", "100%"}}},
			}},
		}
		expected := "@media (max-width: 768px) {\n" +
			"  .layera-sidebar {\n    display: none;\n  }\n" +
			"  .layera-main {\n    padding-left: 0;\n    width: 100%;\n  }\n" +
			"}\n\n"
		assert.Equal(t, expected, SectionToCSSText(section))
	})

	t.Run("keyframes keep offsets verbatim", func(t *testing.T) {
		section := Section{
			{"@keyframes spin", Section{
				{"0%", Block{{"transform", "rotate(0deg)"}}},
				{"100%", Block{{"transform", "rotate(360deg)"}}},
			}},
		}
		expected := "@keyframes spin {\n" +
			"  0% {\n    transform: rotate(0deg);\n  }\n" +
			"  100% {\n    transform: rotate(360deg);\n  }\n" +
			"}\n\n"
		assert.Equal(t, expected, SectionToCSSText(section))
	})

	t.Run("at-rule with a plain block", func(t *testing.T) {
		section := Section{
			{"@font-face", Block{{"fontFamily", "Inter"}, {"fontDisplay", "swap"}}},
		}
		expected := "@font-face {\n  font-family: Inter;\n  font-display: swap;\n}\n\n"
		assert.Equal(t, expected, SectionToCSSText(section))
	})

	t.Run("null and raw bodies compile to empty rules", func(t *testing.T) {
		section := Section{
			{"button", nil},
			{"link", Raw{Value: "red"}},
		}
		assert.Equal(t, ".button {\n\n}\n\n.link {\n\n}\n\n", SectionToCSSText(section))
	})

	t.Run("empty blocks share one form at every level", func(t *testing.T) {
		section := Section{
			{"empty", Block{}},
			{"@media print", Section{
				{"hidden", Block{}},
				{"broken", nil},
			}},
			{"@font-face", nil},
		}
		expected := ".empty {\n\n}\n\n" +
			"@media print {\n" +
			"  .hidden {\n\n  }\n" +
			"  .broken {\n\n  }\n" +
			"}\n\n" +
			"@font-face {\n\n}\n\n"
		assert.Equal(t, expected, SectionToCSSText(section))
	})

	t.Run("empty section", func(t *testing.T) {
		assert.Equal(t, "", SectionToCSSText(nil))
	})
}

func TestGenerateCommentedSection(t *testing.T) {
	buttonStyles := Section{
		{"layera-button-primary", Block{
			{"background", "var(--live-primary-color)"},
			{"color", "white"},
		}},
	}

	expected := "/* BUTTON VARIANTS */\n" +
		".layera-button-primary {\n" +
		"  background: var(--live-primary-color);\n" +
		"  color: white;\n" +
		"}\n\n"

	assert.Equal(t, expected, GenerateCommentedSection("BUTTON VARIANTS", buttonStyles))
}

func TestAggregateAll(t *testing.T) {
	sections := []TitledSection{
		{Title: "LAYOUT", Section: Section{{"layera-app", Block{{"display", "grid"}}}}},
		{Title: "HEADER", Section: Section{{"layera-header", Block{{"height", "64px"}}}}},
		{Title: "EMPTY", Section: nil},
	}

	out := AggregateAll("LAYERA APP LAYOUT", sections)

	assert.True(t, strings.HasPrefix(out, "/* LAYERA APP LAYOUT */\n\n"))
	for _, ts := range sections {
		assert.Equal(t, 1, strings.Count(out, "/* "+ts.Title+" */\n"))
	}
	assert.Equal(t, len(sections)+1, strings.Count(out, "/* "))
	assert.Less(t, strings.Index(out, "/* LAYOUT */"), strings.Index(out, "/* HEADER */"))
	assert.Less(t, strings.Index(out, "/* HEADER */"), strings.Index(out, "/* EMPTY */"))
}

func TestSectionSelectorsAndLookup(t *testing.T) {
	section := Section{
		{"first", Block{{"color", "red"}}},
		{"second", nil},
	}
	assert.Equal(t, []string{"first", "second"}, section.Selectors())

	body, ok := section.Lookup("first")
	assert.True(t, ok)
	assert.Equal(t, Block{{"color", "red"}}, body)

	_, ok = section.Lookup("missing")
	assert.False(t, ok)
}
