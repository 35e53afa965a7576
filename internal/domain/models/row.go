package models

// Row is one header-keyed line of tabular input. Cell values are whatever the
// source produced: strings, numbers, bools, time.Time or nil.
type Row map[string]interface{}

// Table is a header plus its data rows, in file order.
type Table struct {
	Header []string
	Rows   []Row
}

// HasColumn reports whether the header carries the given column name.
func (t Table) HasColumn(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}
