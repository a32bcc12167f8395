package tabular

// Row maps a column name to a cell.
type Row map[string]Value

// Get returns the cell under key, or an empty Value when the row lacks it.
func (r Row) Get(key string) Value {
	return r[key]
}

// Dataset is an ordered list of rows. Columns holds the column names in
// order of first appearance; rows are not required to carry every column.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func (d Dataset) Len() int {
	return len(d.Rows)
}

// HasColumn reports whether name is one of the dataset's columns.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Head returns a dataset holding at most n leading rows, sharing row maps.
func (d Dataset) Head(n int) Dataset {
	if n < 0 || n >= len(d.Rows) {
		return d
	}
	return Dataset{Columns: d.Columns, Rows: d.Rows[:n]}
}

type columnSet struct {
	order []string
	seen  map[string]struct{}
}

func newColumnSet() *columnSet {
	return &columnSet{order: make([]string, 0), seen: make(map[string]struct{})}
}

func (c *columnSet) add(name string) {
	if _, ok := c.seen[name]; ok {
		return
	}
	c.seen[name] = struct{}{}
	c.order = append(c.order, name)
}
