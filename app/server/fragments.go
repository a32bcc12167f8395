package server

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/axisni/chartdash/app/schools"
)

func optInt(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func optFloat(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func schoolItem(s schools.School) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<li class="school" style="border-left-color:%s"><span class="rank">#%s</span> <strong>%s</strong><span class="meta">%s · %s · pupils %s · 5+ A*-C %s%% · Attainment 8 %s</span></li>`,
			templ.EscapeString(schools.MarkerColor(s.Rank)),
			templ.EscapeString(optInt(s.Rank)),
			templ.EscapeString(s.Name),
			templ.EscapeString(s.City),
			templ.EscapeString(s.Type),
			templ.EscapeString(optInt(s.Pupils)),
			templ.EscapeString(strconv.FormatFloat(s.Grade5Plus, 'f', -1, 64)),
			templ.EscapeString(optFloat(s.Attainment8)),
		)
		return err
	})
}

// SchoolList is the list shown beside the map.
func SchoolList(res schools.Result) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<p class="summary">%d of %d schools`, len(res.Schools), res.Total); err != nil {
			return err
		}
		if res.Missing > 0 {
			if _, err := fmt.Fprintf(w, `, %d without map coordinates`, res.Missing); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</p><ul class="school-list">`); err != nil {
			return err
		}
		for _, s := range res.Schools {
			if err := schoolItem(s).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}
