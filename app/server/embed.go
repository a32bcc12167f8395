package server

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed template/*.html
var templateFs embed.FS

//go:embed static
var staticFs embed.FS

func MustParseTemplates(assets *HashFS) *template.Template {
	funcMap := template.FuncMap{
		"join": strings.Join,
		"asset": func(path string) string {
			return "/static/" + assets.FormatWithHash(path)
		},
		"money": func(v float64) string {
			return fmt.Sprintf("£%sM", formatThousands(v))
		},
		"deref": func(p *int) string {
			if p == nil {
				return "-"
			}
			return fmt.Sprint(*p)
		},
	}

	return template.Must(template.New("").Funcs(funcMap).ParseFS(templateFs, "template/*.html"))
}

// formatThousands renders v with at most three decimals and comma
// separated thousands.
func formatThousands(v float64) string {
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
