package server

import (
	"html/template"
	"io"

	"github.com/axisni/chartdash/app/config"
	"github.com/labstack/echo/v4"
)

type TemplateRenderer struct {
	tmpl         *template.Template
	instanceName string
}

// Render executes layout.html, which picks the page body by name.
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	wrappedData := map[string]any{
		"Page":     name,
		"Instance": t.instanceName,
		"Data":     data,
	}
	err := t.tmpl.ExecuteTemplate(w, "layout.html", wrappedData)
	if err != nil {
		c.Logger().Error(err)
		return err
	}
	return nil
}

func NewTemplateRenderer(conf *config.AppConfig, assets *HashFS) *TemplateRenderer {
	return &TemplateRenderer{
		tmpl:         MustParseTemplates(assets),
		instanceName: conf.InstanceName,
	}
}
