package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/axisni/chartdash/app/charts"
	"github.com/axisni/chartdash/app/config"
	"github.com/axisni/chartdash/app/schools"
	"github.com/axisni/chartdash/app/tabular"
	"github.com/axisni/chartdash/app/uploads"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const schoolsCSV = `Rank,SCHNAME,ADDRESS,TOWN,TOTPUPS,PTL2BASICS_94,ATT8SCR,Latitude,Longitude,EGENDER,AGERANGE,COUNTRY,NFTYPE,P8PUP,P8_BANDING,NUMBOYS,NUMGIRLS
1,Lagan College,44 Manse Rd,Belfast,1300,90,60.5,54.55,-5.9,Mixed,11-18,Northern Ireland,GI,,,650,650
2,Foyle College,Duncreggan Rd,Derry,900,85,58.1,55.0,-7.32,Mixed,11-18,Northern Ireland,GR,,,450,450
3,Belfast Royal Academy,5 Cliftonville Rd,Belfast,1400,95,62.0,,,Mixed,11-18,Northern Ireland,GR,,,700,700
`

type fakeUploadAPI struct{}

func (fakeUploadAPI) UploadCSV(ctx context.Context, name string, content []byte) (tabular.Dataset, error) {
	if strings.HasPrefix(name, "bad") {
		return tabular.Dataset{}, &uploads.APIError{StatusCode: 400, Body: "Failed to parse CSV: broken"}
	}
	return tabular.ReadCSV(bytes.NewReader(content))
}

func (fakeUploadAPI) UploadExcel(ctx context.Context, name string, content []byte, sheet int, cellRange string) (tabular.Dataset, error) {
	return tabular.Dataset{
		Columns: []string{"Sheet", "Range"},
		Rows:    []tabular.Row{{"Sheet": tabular.Number(float64(sheet)), "Range": tabular.Text(cellRange)}},
	}, nil
}

func (fakeUploadAPI) SheetNames(ctx context.Context, name string, content []byte) ([]string, error) {
	if name == "locked.xlsx" {
		return nil, &uploads.APIError{StatusCode: 400, Body: "Failed to read sheet names: locked"}
	}
	return []string{"Budget", "Notes"}, nil
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	conf := &config.AppConfig{
		InstanceName:      "chartdash",
		Hostnames:         []string{"localhost"},
		SessionTTLMinutes: 5,
		MaxUploadMB:       4,
		PageDescriptions: map[string]string{
			"map": "Try `Lagan College` or @map#Derry.",
		},
	}

	catalog := schools.NewCatalog(schools.Source{})
	require.NoError(t, catalog.LoadFrom(strings.NewReader(schoolsCSV)))

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	store := charts.NewSQLChartStore(db)
	require.NoError(t, store.Init(context.Background()))

	e, err := NewEcho(NewDashController(conf, catalog, store, fakeUploadAPI{}), conf, config.ServerRuntimeConfig{})
	require.NoError(t, err)
	return e
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func multipartFiles(t *testing.T, files map[string]string, order []string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range order {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		fw.Write([]byte(files[name]))
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestPages(t *testing.T) {
	e := newTestServer(t)
	for _, path := range []string{"/", "/dashboard", "/dashboard?year=2020", "/upload", "/map"} {
		rec := do(e, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "<nav", path)
	}

	rec := do(e, httptest.NewRequest(http.MethodGet, "/map", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `<a href="/map?name=Lagan+College">Lagan College</a>`)
	assert.Contains(t, body, `<a href="/map?city=Derry">Derry</a>`)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/dashboard?year=1900", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no budget figures")
}

func TestMapList(t *testing.T) {
	e := newTestServer(t)
	rec := do(e, httptest.NewRequest(http.MethodGet, "/map/list?city=Belfast&sort=attainment8&dir=desc&rerank=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "2 of 3 schools, 1 without map coordinates")
	assert.Less(t, strings.Index(body, "Belfast Royal Academy"), strings.Index(body, "Lagan College"))
	assert.Contains(t, body, "#1</span> <strong>Belfast Royal Academy")
}

func TestBudgetAPI(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/api/budget", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decode[map[string]any](t, rec)
	assert.Equal(t, "overview", overview["view"])

	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/budget?view=breakdown&year=2024&kind=capital", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	breakdown := decode[map[string]any](t, rec)
	assert.Len(t, breakdown["series"], 1)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/budget?view=breakdown", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "year is required for the breakdown view", decode[map[string]string](t, rec)["error"])

	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/budget?view=pie", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSchoolsAPI(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/api/schools?type=GR&sort=rank&dir=desc", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[schools.Result](t, rec)
	require.Len(t, res.Schools, 2)
	assert.Equal(t, "Belfast Royal Academy", res.Schools[0].Name)
	assert.Len(t, res.Markers, 1)
	assert.Equal(t, 1, res.Missing)
	assert.Equal(t, []string{"Belfast", "Derry"}, res.Facets.Cities)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/schools?pupilsMin=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/schools/search?q=foyle", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]schools.School](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, "Foyle College", found[0].Name)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/schools/search", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadFlow(t *testing.T) {
	e := newTestServer(t)

	body, ctype := multipartFiles(t, map[string]string{
		"sales.csv":  "Region,Q1,Q2\nNorth,10,12\nSouth,5,6\nNorth,1,2\n",
		"bad.csv":    "x",
		"extra.xlsx": "PK",
	}, []string{"sales.csv", "bad.csv", "extra.xlsx"}, map[string]string{"sheet_2": "1", "range_2": "B2:C9"})
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := do(e, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sess := decode[sessionView](t, rec)
	require.Len(t, sess.Failures, 1)
	assert.Equal(t, 2, sess.Failures[0].Index)
	assert.Equal(t, "bad.csv", sess.Failures[0].Name)
	assert.Contains(t, sess.Failures[0].Error, "broken")
	assert.Equal(t, []string{"F1_Region", "F1_Q1", "F1_Q2", "F3_Sheet", "F3_Range"}, sess.Columns)
	assert.Equal(t, 3, sess.RowCount)
	assert.Equal(t, "B2:C9", sess.Preview.Rows[0].Get("F3_Range").String())
	assert.Equal(t, 1.0, sess.Preview.Rows[0].Get("F3_Sheet").Float())
	require.Len(t, sess.Charts, 1)
	assert.Equal(t, "F1_Region", sess.Charts[0].CategoryKey)

	spec := charts.Spec{
		Title:         "Sales",
		Kind:          charts.KindColumn,
		CategoryKey:   "F1_Region",
		ValueKeys:     []string{"F1_Q1"},
		DrilldownKeys: []string{"F1_Q2"},
	}
	payload, _ := json.Marshal(spec)

	req = httptest.NewRequest(http.MethodPost, "/api/uploads/"+sess.ID+"/series", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = do(e, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	series := decode[seriesResponse](t, rec)
	require.Len(t, series.Series.Series, 1)
	assert.Len(t, series.Series.Series[0].Points, 3)
	assert.Equal(t, []charts.Entry{{Key: "F1_Q2", Value: 20}}, series.Series.Summary)
	assert.NotNil(t, series.SummaryOptions)
	assert.Empty(t, series.Warnings)

	req = httptest.NewRequest(http.MethodPut, "/api/uploads/"+sess.ID+"/charts/1", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = do(e, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/uploads/"+sess.ID+"?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[sessionView](t, rec)
	assert.Len(t, got.Charts, 2)
	assert.Len(t, got.Preview.Rows, 1)

	req = httptest.NewRequest(http.MethodPost, "/api/uploads/"+sess.ID+"/chart.png", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = do(e, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = do(e, httptest.NewRequest(http.MethodDelete, "/api/uploads/"+sess.ID+"/charts/0", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[sessionView](t, rec).Charts, 1)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/uploads/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadWithoutFiles(t *testing.T) {
	e := newTestServer(t)
	body, ctype := multipartFiles(t, nil, nil, map[string]string{"x": "y"})
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := do(e, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no files uploaded", decode[map[string]string](t, rec)["error"])
}

func TestSheetNames(t *testing.T) {
	e := newTestServer(t)
	for _, tt := range []struct {
		file string
		code int
	}{
		{"book.xlsx", http.StatusOK},
		{"locked.xlsx", http.StatusBadGateway},
	} {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, _ := mw.CreateFormFile("file", tt.file)
		fw.Write([]byte("PK"))
		mw.Close()
		req := httptest.NewRequest(http.MethodPost, "/api/upload/sheets", &buf)
		req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
		rec := do(e, req)
		assert.Equal(t, tt.code, rec.Code, tt.file)
		if tt.code == http.StatusOK {
			assert.Equal(t, []string{"Budget", "Notes"}, decode[map[string][]string](t, rec)["sheets"])
		}
	}
}

func TestChartAPI(t *testing.T) {
	e := newTestServer(t)

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		return do(e, req)
	}

	rec := post("/api/chart/save", `{"name":"  ","configJson":"{}"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Chart name must not be empty", decode[map[string]string](t, rec)["error"])

	rec = post("/api/chart/save", `{"name":"Budget","configJson":"{\"chart\":{}}"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[charts.SavedChart](t, rec)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/chart/"+saved.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Budget", decode[charts.SavedChart](t, rec).Name)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/chart/all", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]charts.SavedChart](t, rec), 1)

	rec = do(e, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/chart/%d", 404), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = post("/api/chart/convert", `[{"Year":"2020","Total":"5"},{"Year":"2021","Total":7}]`)
	require.Equal(t, http.StatusOK, rec.Code)
	conv := decode[charts.Converted](t, rec)
	assert.Equal(t, []string{"2020", "2021"}, conv.Categories)
	assert.Equal(t, []float64{5, 7}, conv.Series[0].Data)

	rec = post("/api/chart/convert", `[]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Raw data must not be empty", decode[map[string]string](t, rec)["error"])
}

func TestStaticAssetsAreHashed(t *testing.T) {
	e := newTestServer(t)
	rec := do(e, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	i := strings.Index(body, "/static/app.js?v=")
	require.GreaterOrEqual(t, i, 0)
	src := body[i:]
	src = src[:strings.IndexByte(src, '"')]

	rec = do(e, httptest.NewRequest(http.MethodGet, src, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
	assert.Contains(t, rec.Body.String(), "session.failures.map((f) => f.name)")
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "215,662.525", formatThousands(215662.525))
	assert.Equal(t, "19,085", formatThousands(19085))
	assert.Equal(t, "999", formatThousands(999))
	assert.Equal(t, "-1,000.5", formatThousands(-1000.5))
}
