package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "$" + humanize.FormatFloat("#,###.##", d.InexactFloat64())
	},
	"dataURL": func(s string) template.URL {
		return template.URL(s)
	},
}).ParseFS(templateFS, "templates/*.tmpl"))

func renderTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
