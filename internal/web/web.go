// Package web holds the embedded HTML fragments the handlers render for
// htmx swaps, plus the full index page.
package web

import (
	"embed"
	"html/template"
	"strings"
	"time"

	dom "github.com/julienby/taskflow/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

var funcs = template.FuncMap{
	"categoryLabel":  categoryLabel,
	"categoryColor":  categoryColor,
	"priorityBorder": priorityBorder,
	"ucfirst":        ucfirst,
	"dueLabel":       dueLabel,
	"categories":     dom.Categories,
	"priorities":     dom.Priorities,
	"overdue": func(t dom.Task) bool {
		return t.Overdue(time.Now())
	},
}

// Templates parses the embedded fragment set. Parse failures are
// programmer errors, hence the Must.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}

func categoryLabel(c dom.Category) string {
	return ucfirst(string(c))
}

func categoryColor(c dom.Category) string {
	switch c {
	case dom.CategoryWork:
		return "bg-blue-100 text-blue-700"
	case dom.CategoryPersonal:
		return "bg-purple-100 text-purple-700"
	case dom.CategoryShopping:
		return "bg-amber-100 text-amber-700"
	case dom.CategoryHealth:
		return "bg-green-100 text-green-700"
	case dom.CategoryEducation:
		return "bg-cyan-100 text-cyan-700"
	case dom.CategoryFinance:
		return "bg-rose-100 text-rose-700"
	}
	return "bg-gray-100 text-gray-700"
}

func priorityBorder(p dom.Priority) string {
	switch p {
	case dom.PriorityLow:
		return "border-l-green-400"
	case dom.PriorityMedium:
		return "border-l-amber-400"
	case dom.PriorityHigh:
		return "border-l-red-500"
	}
	return "border-l-gray-400"
}

func ucfirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// dueLabel renders an ISO date as a short "Jan 2" label; the raw value is
// shown if it does not parse.
func dueLabel(iso *string) string {
	if iso == nil {
		return ""
	}
	t, err := time.Parse(dom.DateLayout, *iso)
	if err != nil {
		return *iso
	}
	return t.Format("Jan 2")
}
