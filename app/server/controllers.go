package server

import (
	"context"
	"html/template"
	"log/slog"

	"github.com/axisni/chartdash/app/charts"
	"github.com/axisni/chartdash/app/config"
	"github.com/axisni/chartdash/app/schools"
	"github.com/axisni/chartdash/app/uploads"
)

// UploadAPI is the remote service that parses uploaded files.
type UploadAPI interface {
	uploads.Parser
	SheetNames(ctx context.Context, name string, content []byte) ([]string, error)
}

type DashController struct {
	conf     *config.AppConfig
	catalog  *schools.Catalog
	charts   *charts.ChartService
	api      UploadAPI
	batch    *uploads.Batch
	sessions *uploads.SessionStore
	markdown *MarkdownConverter
}

func NewDashController(conf *config.AppConfig, catalog *schools.Catalog, store charts.ChartStore, api UploadAPI) *DashController {
	return &DashController{
		conf:     conf,
		catalog:  catalog,
		charts:   charts.NewChartService(store),
		api:      api,
		batch:    uploads.NewBatch(api),
		sessions: uploads.NewSessionStore(conf.SessionTTL()),
		markdown: NewMarkdownConverter(catalog),
	}
}

// description renders the configured markdown blurb for a page. Broken
// markdown is logged and dropped.
func (dc *DashController) description(page string) template.HTML {
	src, ok := dc.conf.PageDescriptions[page]
	if !ok || src == "" {
		return ""
	}
	html, err := dc.markdown.ConvertToHTML(src)
	if err != nil {
		slog.Warn("rendering page description", "page", page, "error", err)
		return ""
	}
	return html
}
