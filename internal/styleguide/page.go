// Package styleguide renders an HTML overview of every builder in a catalog
// with the compiled stylesheets applied, so each selector can be previewed.
package styleguide

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/layera/stylegen/internal/catalog"
	"github.com/layera/stylegen/internal/stylesheet"
)

// Options controls page rendering.
type Options struct {
	Title string
	// LiveReload embeds a script that reloads the page when the preview
	// server broadcasts a reload message on /ws.
	LiveReload bool
}

const defaultTitle = "Layera style guide"

const liveReloadScript = `(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (event) {
    try {
      if (JSON.parse(event.data).type === "reload") {
        location.reload();
      }
    } catch (_) {}
  };
})();`

var sampleSelector = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Page returns a component that renders the style guide for c.
func Page(c *catalog.Catalog, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := io.WriteString(w, render(c, opts))
		return err
	})
}

func render(c *catalog.Catalog, opts Options) string {
	title := opts.Title
	if title == "" {
		title = defaultTitle
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&sb, "<style>\n%s</style>\n", inlineCSS(c.CSS()))
	sb.WriteString("</head>\n<body>\n<header>\n")
	fmt.Fprintf(&sb, "<h1>%s</h1>\n<nav>\n<ul>\n", html.EscapeString(title))
	for _, b := range c.Builders() {
		fmt.Fprintf(&sb, "<li><a href=\"#builder-%s\">%s</a></li>\n", html.EscapeString(b.Name), html.EscapeString(b.Banner))
	}
	sb.WriteString("</ul>\n</nav>\n</header>\n<main>\n")

	for _, b := range c.Builders() {
		renderBuilder(&sb, b)
	}

	sb.WriteString("</main>\n")
	if opts.LiveReload {
		fmt.Fprintf(&sb, "<script>\n%s\n</script>\n", liveReloadScript)
	}
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

func renderBuilder(sb *strings.Builder, b *catalog.Builder) {
	fmt.Fprintf(sb, "<section class=\"stylegen-builder\" id=\"builder-%s\">\n", html.EscapeString(b.Name))
	fmt.Fprintf(sb, "<h2>%s</h2>\n", html.EscapeString(b.Banner))
	if b.Description != "" {
		fmt.Fprintf(sb, "<p class=\"stylegen-description\">%s</p>\n", html.EscapeString(b.Description))
	}
	fmt.Fprintf(sb, "<p class=\"stylegen-stylesheet\"><a href=\"/css/%s.css\">%s.css</a></p>\n",
		html.EscapeString(b.Name), html.EscapeString(b.Name))

	for _, s := range b.Sections {
		sb.WriteString("<article class=\"stylegen-section\"")
		if s.Category != "" {
			fmt.Fprintf(sb, " data-category=\"%s\"", html.EscapeString(s.Category))
		}
		sb.WriteString(">\n")
		fmt.Fprintf(sb, "<h3>%s</h3>\n", html.EscapeString(s.Title))
		if s.Category != "" {
			fmt.Fprintf(sb, "<p class=\"stylegen-category\">%s</p>\n", html.EscapeString(Heading(s.Category)))
		}
		sb.WriteString("<ul>\n")
		for _, rule := range s.Rules {
			renderRule(sb, rule)
		}
		sb.WriteString("</ul>\n</article>\n")
	}

	if len(b.Groups) > 0 {
		keys := make([]string, 0, len(b.Groups))
		for k := range b.Groups {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("<dl class=\"stylegen-groups\">\n")
		for _, k := range keys {
			fmt.Fprintf(sb, "<dt>%s</dt>\n", html.EscapeString(Heading(k)))
			for _, sel := range b.Group(k) {
				fmt.Fprintf(sb, "<dd><code>%s</code></dd>\n", html.EscapeString(sel))
			}
		}
		sb.WriteString("</dl>\n")
	}
	sb.WriteString("</section>\n")
}

func renderRule(sb *strings.Builder, rule stylesheet.Rule) {
	label := rule.Selector
	if !stylesheet.IsAtRule(label) && !strings.HasPrefix(label, ".") {
		label = "." + label
	}
	fmt.Fprintf(sb, "<li><code>%s</code>", html.EscapeString(label))
	if sampleSelector.MatchString(rule.Selector) {
		fmt.Fprintf(sb, " <span class=\"%s\">%s</span>", html.EscapeString(rule.Selector), html.EscapeString(rule.Selector))
	}
	if body, ok := rule.Body.(stylesheet.Section); ok {
		sb.WriteString("\n<ul>\n")
		for _, nested := range body {
			fmt.Fprintf(sb, "<li><code>%s</code></li>\n", html.EscapeString(nested.Selector))
		}
		sb.WriteString("</ul>\n")
	}
	sb.WriteString("</li>\n")
}

// Heading turns a camelCase or kebab-case key into a title-cased heading,
// e.g. "buttonSizes" becomes "Button Sizes".
func Heading(key string) string {
	words := strings.ReplaceAll(stylesheet.KebabCase(key), "-", " ")
	return cases.Title(language.English).String(strings.Join(strings.Fields(words), " "))
}

// inlineCSS keeps a stylesheet from closing the surrounding style element.
func inlineCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
