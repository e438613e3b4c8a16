// Package table loads tabular reference data for the drill.
//
// A Table is read once at startup and never modified afterwards. Row 0 of the
// source becomes the Header; every following non-blank row becomes a Record.
// Records are not required to match the header's arity: Field returns "" for
// any index a record does not have.
package table

// Record is one data row. Fields are already cleaned (see CleanField).
type Record []string

// Field returns the value at column i, or "" when the record is too short.
func (r Record) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Table is an immutable header plus its records.
type Table struct {
	Header  []string
	Records []Record
}

// Empty reports whether the source had no lines at all.
func (t *Table) Empty() bool {
	return t == nil || len(t.Header) == 0
}

// Len returns the number of records, excluding the header.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Columns returns the number of header columns.
func (t *Table) Columns() int {
	if t == nil {
		return 0
	}
	return len(t.Header)
}

// Column returns the header name at index i, or "" when out of range.
func (t *Table) Column(i int) string {
	if t == nil {
		return ""
	}
	return Record(t.Header).Field(i)
}

// fromRows splits raw cleaned rows into header and records,
// skipping rows where every field is blank.
func fromRows(rows [][]string) *Table {
	t := &Table{}
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if t.Header == nil {
			t.Header = row
			continue
		}
		t.Records = append(t.Records, Record(row))
	}
	return t
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
