package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/axisni/chartdash/app/charts"
	"github.com/axisni/chartdash/app/tabular"
)

// APIError is a non-2xx answer from the upload API. Body is the response
// text, which the API uses as its error message.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("upload api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("upload api: status %d: %s", e.StatusCode, body)
}

// Client talks to the remote parsing and chart persistence API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

var _ charts.RemoteChartAPI = &Client{}

type formFile struct {
	name    string
	content []byte
}

func (c *Client) postMultipart(ctx context.Context, path string, file formFile, fields map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", file.name)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(file.content); err != nil {
		return nil, err
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload api %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upload api response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// UploadExcel parses one sheet (0-based index) of a workbook, limited to
// cellRange, into rows.
func (c *Client) UploadExcel(ctx context.Context, name string, content []byte, sheet int, cellRange string) (tabular.Dataset, error) {
	body, err := c.postMultipart(ctx, "/api/upload/excel", formFile{name, content}, map[string]string{
		"sheet": strconv.Itoa(sheet),
		"range": cellRange,
	})
	if err != nil {
		return tabular.Dataset{}, err
	}
	return tabular.DecodeJSONRows(bytes.NewReader(body))
}

func (c *Client) UploadCSV(ctx context.Context, name string, content []byte) (tabular.Dataset, error) {
	body, err := c.postMultipart(ctx, "/api/upload/csv", formFile{name, content}, nil)
	if err != nil {
		return tabular.Dataset{}, err
	}
	return tabular.DecodeJSONRows(bytes.NewReader(body))
}

func (c *Client) SheetNames(ctx context.Context, name string, content []byte) ([]string, error) {
	body, err := c.postMultipart(ctx, "/api/upload/sheets", formFile{name, content}, nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		Sheets []string `json:"sheets"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decoding sheet names: %w", err)
	}
	if res.Sheets == nil {
		res.Sheets = []string{}
	}
	return res.Sheets, nil
}

// remoteChart is the API's chart entity; its id is numeric.
type remoteChart struct {
	ID         json.Number `json:"id"`
	Name       string      `json:"name"`
	ConfigJSON string      `json:"configJson"`
}

func (r remoteChart) toSavedChart() charts.SavedChart {
	return charts.SavedChart{ID: r.ID.String(), Name: r.Name, ConfigJSON: r.ConfigJSON}
}

func (c *Client) SaveChart(ctx context.Context, name string, configJSON string) (charts.SavedChart, error) {
	payload, err := json.Marshal(map[string]string{"name": name, "configJson": configJSON})
	if err != nil {
		return charts.SavedChart{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chart/save", bytes.NewReader(payload))
	if err != nil {
		return charts.SavedChart{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	body, err := c.do(req)
	if err != nil {
		return charts.SavedChart{}, err
	}
	var rc remoteChart
	if err := json.Unmarshal(body, &rc); err != nil {
		return charts.SavedChart{}, fmt.Errorf("decoding saved chart: %w", err)
	}
	return rc.toSavedChart(), nil
}

func (c *Client) ListCharts(ctx context.Context) ([]charts.SavedChart, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/chart/all", nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var rcs []remoteChart
	if err := json.Unmarshal(body, &rcs); err != nil {
		return nil, fmt.Errorf("decoding chart list: %w", err)
	}
	out := make([]charts.SavedChart, 0, len(rcs))
	for _, rc := range rcs {
		out = append(out, rc.toSavedChart())
	}
	return out, nil
}
