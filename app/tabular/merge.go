package tabular

import (
	"fmt"
	"sort"
)

// PrefixedColumn is the column name a file's column takes after
// normalization.
func PrefixedColumn(fileIndex int, key string) string {
	return fmt.Sprintf("F%d_%s", fileIndex, key)
}

// Normalize rewrites every column key of ds as F{fileIndex}_{key}. The input
// is left untouched.
func Normalize(ds Dataset, fileIndex int) Dataset {
	cols := newColumnSet()
	for _, c := range ds.Columns {
		cols.add(PrefixedColumn(fileIndex, c))
	}

	rows := make([]Row, len(ds.Rows))
	for i, row := range ds.Rows {
		out := make(Row, len(row))
		// keys absent from Columns still get a stable column position
		extra := make([]string, 0)
		for k, v := range row {
			pk := PrefixedColumn(fileIndex, k)
			out[pk] = v
			if _, ok := cols.seen[pk]; !ok {
				extra = append(extra, pk)
			}
		}
		sort.Strings(extra)
		for _, pk := range extra {
			cols.add(pk)
		}
		rows[i] = out
	}
	return Dataset{Columns: cols.order, Rows: rows}
}

// Merge aligns datasets by row position. The result has as many rows as the
// longest input; row i is the union of row i of every input, with missing
// rows treated as empty. On a key collision the later dataset wins.
func Merge(datasets ...Dataset) Dataset {
	maxRows := 0
	cols := newColumnSet()
	for _, ds := range datasets {
		if len(ds.Rows) > maxRows {
			maxRows = len(ds.Rows)
		}
		for _, c := range ds.Columns {
			cols.add(c)
		}
	}

	rows := make([]Row, maxRows)
	for i := range rows {
		row := make(Row)
		for _, ds := range datasets {
			if i >= len(ds.Rows) {
				continue
			}
			for k, v := range ds.Rows[i] {
				row[k] = v
			}
		}
		rows[i] = row
	}
	return Dataset{Columns: cols.order, Rows: rows}
}

// NormalizeAndMerge prefixes dataset k with file index k+1 and merges them.
func NormalizeAndMerge(datasets ...Dataset) Dataset {
	normalized := make([]Dataset, len(datasets))
	for i, ds := range datasets {
		normalized[i] = Normalize(ds, i+1)
	}
	return Merge(normalized...)
}
