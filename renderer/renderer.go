// Package renderer turns ranking and sleeve results into markdown and PDF documents.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"text/template"

	"github.com/etnz/momentum"
	"github.com/etnz/momentum/report"
)

//go:embed templates/*.md
var templates embed.FS

// funcs are available to every template.
var funcs = template.FuncMap{
	"pct": report.Percent,
	"corr": func(v float64) string {
		if math.IsNaN(v) {
			return "n/a"
		}
		return fmt.Sprintf("%.3f", v)
	},
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
}

// RenderSleeves renders a sleeve analysis to a markdown string.
func RenderSleeves(r *momentum.SleeveReport) string {
	partials := map[string]string{
		"sleeves_returns":      "sleeves_returns.md",
		"sleeves_correlations": "sleeves_correlations.md",
		"sleeves_sectors":      "sleeves_sectors.md",
	}
	return renderTemplate("sleeves", "sleeves.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, "templates/"+file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
