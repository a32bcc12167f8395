package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/axisni/chartdash/app/charts"
	"github.com/axisni/chartdash/app/common"
	"github.com/axisni/chartdash/app/tabular"
	"github.com/axisni/chartdash/app/uploads"
	"github.com/labstack/echo/v4"
)

const defaultPreviewRows = 50

type sessionView struct {
	ID       string                `json:"id"`
	Files    []uploads.FileSummary `json:"files"`
	Failures []uploads.Failure     `json:"failures"`
	Columns  []string              `json:"columns"`
	RowCount int                   `json:"rowCount"`
	Preview  tabular.Dataset       `json:"preview"`
	Charts   []charts.Spec         `json:"charts"`
}

func newSessionView(sess uploads.Session, previewRows int) sessionView {
	merged := sess.Result.Merged
	return sessionView{
		ID:       sess.ID,
		Files:    sess.Result.Files,
		Failures: sess.Result.Failures,
		Columns:  merged.Columns,
		RowCount: merged.Len(),
		Preview:  merged.Head(previewRows),
		Charts:   sess.Charts,
	}
}

type seriesResponse struct {
	Series                 charts.SeriesSet     `json:"series"`
	Options                charts.ChartOptions  `json:"options"`
	SummaryOptions         *charts.ChartOptions `json:"summaryOptions,omitempty"`
	Warnings               []string             `json:"warnings"`
	AvailableDrilldownKeys []string             `json:"availableDrilldownKeys"`
}

func buildSeries(ds tabular.Dataset, spec charts.Spec) seriesResponse {
	set := charts.Build(ds, spec)
	res := seriesResponse{
		Series:                 set,
		Options:                charts.Options(spec, set),
		Warnings:               charts.Validate(spec, ds.Columns),
		AvailableDrilldownKeys: charts.AvailableDrilldownKeys(ds.Columns, spec),
	}
	if len(set.Summary) > 0 {
		summary := charts.SummaryOptions(spec, set)
		res.SummaryOptions = &summary
	}
	return res
}

// upstreamError reports failures of the upload API as 502s carrying its
// message.
func upstreamError(err error) error {
	var apiErr *uploads.APIError
	if errors.As(err, &apiErr) {
		return common.NewUserVisibleError(http.StatusBadGateway, apiErr.Error())
	}
	return err
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func formValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

// GetSheetNames lists the sheets of an uploaded workbook.
func (dc *DashController) GetSheetNames(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return common.BadRequest("File must not be empty")
	}
	content, err := readFormFile(fh)
	if err != nil {
		return fmt.Errorf("reading upload %q: %w", fh.Filename, err)
	}
	sheets, err := dc.api.SheetNames(c.Request().Context(), fh.Filename, content)
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"sheets": sheets})
}

// PostUploads parses every file of the multipart field "files" and merges
// them into a new session. Per-file settings are sent as sheet_<i> and
// range_<i>, i being the file's 0-based position. A file that fails is
// reported in the session's failures; the others are still merged.
func (dc *DashController) PostUploads(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return common.BadRequest("expected a multipart form with files")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return common.BadRequest("no files uploaded")
	}

	entries := make([]uploads.FileEntry, 0, len(files))
	for i, fh := range files {
		content, err := readFormFile(fh)
		if err != nil {
			return fmt.Errorf("reading upload %q: %w", fh.Filename, err)
		}
		e := uploads.NewFileEntry(fh.Filename, content)
		if v := formValue(form, fmt.Sprintf("sheet_%d", i)); v != "" {
			sheet, err := strconv.Atoi(v)
			if err != nil || sheet < 0 {
				return common.BadRequest("Sheet index for %s must be non-negative", fh.Filename)
			}
			e.Sheet = sheet
		}
		if v := formValue(form, fmt.Sprintf("range_%d", i)); v != "" {
			e.Range = v
		}
		entries = append(entries, e)
	}

	res := dc.batch.Run(c.Request().Context(), entries)
	sess := dc.sessions.Create(res)
	return c.JSON(http.StatusOK, newSessionView(sess, defaultPreviewRows))
}

func (dc *DashController) session(c echo.Context) (uploads.Session, error) {
	sess, ok := dc.sessions.Get(c.Param("id"))
	if !ok {
		return uploads.Session{}, common.NotFound("upload session %q not found or expired", c.Param("id"))
	}
	return sess, nil
}

func (dc *DashController) GetUploadSession(c echo.Context) error {
	sess, err := dc.session(c)
	if err != nil {
		return err
	}
	rows := defaultPreviewRows
	if l, err := optionalInt(c, "limit"); err != nil {
		return err
	} else if l != nil && *l >= 0 {
		rows = *l
	}
	return c.JSON(http.StatusOK, newSessionView(sess, rows))
}

func bindSpec(c echo.Context) (charts.Spec, error) {
	var spec charts.Spec
	if err := c.Bind(&spec); err != nil {
		return charts.Spec{}, common.BadRequest("invalid chart settings")
	}
	spec.Kind = charts.ParseKind(string(spec.Kind))
	if spec.DrilldownMode == "" {
		spec.DrilldownMode = charts.DrilldownFirstSeen
	}
	return spec, nil
}

// PostSeries builds the chart for a spec over the session's merged rows.
func (dc *DashController) PostSeries(c echo.Context) error {
	sess, err := dc.session(c)
	if err != nil {
		return err
	}
	spec, err := bindSpec(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, buildSeries(sess.Result.Merged, spec))
}

func chartIndex(c echo.Context) (int, error) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, common.BadRequest("chart index must be an integer")
	}
	return i, nil
}

// PutChart stores a chart's settings in the session and returns it built.
func (dc *DashController) PutChart(c echo.Context) error {
	i, err := chartIndex(c)
	if err != nil {
		return err
	}
	spec, err := bindSpec(c)
	if err != nil {
		return err
	}
	sess, err := dc.sessions.SetChart(c.Param("id"), i, spec)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, buildSeries(sess.Result.Merged, spec))
}

func (dc *DashController) DeleteChart(c echo.Context) error {
	i, err := chartIndex(c)
	if err != nil {
		return err
	}
	sess, err := dc.sessions.RemoveChart(c.Param("id"), i)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSessionView(sess, 0))
}

// PostChartPNG renders the posted chart settings as a PNG image.
func (dc *DashController) PostChartPNG(c echo.Context) error {
	sess, err := dc.session(c)
	if err != nil {
		return err
	}
	spec, err := bindSpec(c)
	if err != nil {
		return err
	}
	set := charts.Build(sess.Result.Merged, spec)
	var buf bytes.Buffer
	if err := charts.RenderPNG(&buf, spec, set); err != nil {
		if errors.Is(err, charts.ErrNothingToRender) {
			return common.BadRequest("nothing to render: choose a category and at least one value column")
		}
		return err
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
