// Package renderer turns a book into markdown reports. Each report has
// a view type built from the book and a template rendering it, so the
// layout can change without touching the derivation.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// parseInto adds the named template file from the embedded FS to the set.
func parseInto(set *template.Template, name, file string) error {
	content, err := fs.ReadFile(templates, "templates/"+file)
	if err != nil {
		return fmt.Errorf("template %q: %w", file, err)
	}
	_, err = set.New(name).Parse(string(content))
	return err
}

// renderTemplate renders a main template together with the partials it
// references. Template failures are rendered as text: a broken report
// is more useful than no report.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	set := template.New("")
	if err := parseInto(set, templateName, mainFile); err != nil {
		return err.Error()
	}
	for name, file := range partials {
		if err := parseInto(set, name, file); err != nil {
			return err.Error()
		}
	}
	var b strings.Builder
	if err := set.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("rendering %q: %v", templateName, err)
	}
	return b.String()
}
