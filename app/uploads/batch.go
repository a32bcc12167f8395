package uploads

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/axisni/chartdash/app/tabular"
)

type FileKind string

const (
	FileCSV   FileKind = "csv"
	FileExcel FileKind = "excel"
)

const DefaultRange = "A1:Z50"

// KindFromName infers the file kind from its extension. Anything that is
// not .csv is sent as a workbook.
func KindFromName(name string) FileKind {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return FileCSV
	}
	return FileExcel
}

// FileEntry is one selected file with its per-file parse settings.
type FileEntry struct {
	Name    string   `json:"name"`
	Kind    FileKind `json:"kind"`
	Sheet   int      `json:"sheet"`
	Range   string   `json:"range"`
	Content []byte   `json:"-"`
}

// NewFileEntry applies the defaults: kind from the extension, first sheet,
// range A1:Z50.
func NewFileEntry(name string, content []byte) FileEntry {
	return FileEntry{Name: name, Kind: KindFromName(name), Range: DefaultRange, Content: content}
}

// Parser turns uploaded files into rows. *Client is the production one.
type Parser interface {
	UploadExcel(ctx context.Context, name string, content []byte, sheet int, cellRange string) (tabular.Dataset, error)
	UploadCSV(ctx context.Context, name string, content []byte) (tabular.Dataset, error)
}

type FileSummary struct {
	Index   int      `json:"index"`
	Name    string   `json:"name"`
	Kind    FileKind `json:"kind"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

type Failure struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

type Result struct {
	Files    []FileSummary   `json:"files"`
	Failures []Failure       `json:"failures"`
	Merged   tabular.Dataset `json:"merged"`
}

type Batch struct {
	parser Parser
}

func NewBatch(parser Parser) *Batch {
	return &Batch{parser: parser}
}

// Run parses each entry independently, in order. Entry i is prefixed with
// F{i+1}_ by its position in entries, whether or not earlier entries
// failed. Failed entries are reported and left out of the merge; they are
// not retried.
func (b *Batch) Run(ctx context.Context, entries []FileEntry) Result {
	res := Result{Files: []FileSummary{}, Failures: []Failure{}}
	normalized := make([]tabular.Dataset, 0, len(entries))
	for i, e := range entries {
		index := i + 1
		ds, err := b.parse(ctx, e)
		if err != nil {
			slog.Warn("upload failed", "file", e.Name, "index", index, "error", err)
			res.Failures = append(res.Failures, Failure{Index: index, Name: e.Name, Error: err.Error()})
			continue
		}
		res.Files = append(res.Files, FileSummary{
			Index:   index,
			Name:    e.Name,
			Kind:    e.Kind,
			Rows:    ds.Len(),
			Columns: ds.Columns,
		})
		normalized = append(normalized, tabular.Normalize(ds, index))
	}
	res.Merged = tabular.Merge(normalized...)
	return res
}

func (b *Batch) parse(ctx context.Context, e FileEntry) (tabular.Dataset, error) {
	if e.Kind == FileCSV {
		return b.parser.UploadCSV(ctx, e.Name, e.Content)
	}
	cellRange := strings.TrimSpace(e.Range)
	if cellRange == "" {
		cellRange = DefaultRange
	}
	return b.parser.UploadExcel(ctx, e.Name, e.Content, e.Sheet, cellRange)
}
