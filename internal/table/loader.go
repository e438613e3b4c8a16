package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load reads the data file at path. A file with zero lines yields an empty
// Table and no error; callers decide whether that is fatal.
// Open and read failures are returned as *LoadError.
func Load(path string) (*Table, error) {
	format, comp := FormatFromPath(path)
	if format == FormatUnknown {
		return nil, &LoadError{Op: "load", Path: path, Err: ErrUnsupportedFormat}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	r, closeFn, err := decompress(f, comp)
	if err != nil {
		return nil, &LoadError{Op: "decompress", Path: path, Err: err}
	}
	defer closeFn()

	t, err := Parse(r, format)
	if err != nil {
		return nil, &LoadError{Op: "read", Path: path, Err: err}
	}
	return t, nil
}

// Parse reads an uncompressed source in the given format.
func Parse(r io.Reader, format Format) (*Table, error) {
	switch format {
	case FormatCSV:
		return parseCSV(r)
	case FormatXLSX:
		return parseXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// parseCSV reads one physical line at a time and splits it with splitLine,
// so a malformed quote can never swallow the lines after it.
func parseCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(textReader(r))

	var rows [][]string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			rows = append(rows, splitLine(strings.TrimRight(line, "\r\n")))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", len(rows)+1, err)
		}
	}

	return fromRows(rows), nil
}

// splitLine splits on commas. A field that opens with a double quote runs to
// the first quote followed only by blanks and then a comma or the line end,
// so `"tcp/20, tcp/21"` stays one field and `"SSH" ,` still closes. When no
// such quote exists the field falls back to plain comma splitting.
// Every field goes through CleanField.
func splitLine(line string) []string {
	var fields []string
	i := 0
	for {
		j := skipBlanks(line, i)
		if j < len(line) && line[j] == '"' {
			if end, next, ok := closingQuote(line, j); ok {
				fields = append(fields, CleanField(line[j:end+1]))
				if next >= len(line) {
					return fields
				}
				i = next + 1
				continue
			}
		}

		k := strings.IndexByte(line[i:], ',')
		if k < 0 {
			return append(fields, CleanField(line[i:]))
		}
		fields = append(fields, CleanField(line[i:i+k]))
		i += k + 1
	}
}

// closingQuote finds the quote ending a field opened at start. next is the
// index of the following comma, or len(line) at the end of the line.
func closingQuote(line string, start int) (end, next int, ok bool) {
	for p := start + 1; p < len(line); p++ {
		if line[p] != '"' {
			continue
		}
		q := skipBlanks(line, p+1)
		if q == len(line) || line[q] == ',' {
			return p, q, true
		}
	}
	return 0, 0, false
}

func skipBlanks(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// parseXLSX reads the first sheet of a workbook.
func parseXLSX(r io.Reader) (*Table, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() {
		_ = wb.Close()
	}()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	iter, err := wb.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("rows of sheet %s: %w", sheets[0], err)
	}
	defer iter.Close()

	var rows [][]string
	for iter.Next() {
		cols, err := iter.Columns()
		if err != nil {
			return nil, fmt.Errorf("read row in sheet %s: %w", sheets[0], err)
		}
		rows = append(rows, cleanRow(cols))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate sheet %s: %w", sheets[0], err)
	}

	return fromRows(rows), nil
}
