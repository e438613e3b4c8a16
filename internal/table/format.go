package table

import (
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Format is the on-disk layout of a data file.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatXLSX
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// Compression is an optional outer wrapper around a data file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionXZ
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionXZ:
		return "xz"
	default:
		return "none"
	}
}

// FormatFromPath infers format and compression from the file name,
// e.g. "Ports.csv.zst" is zstd-compressed CSV.
func FormatFromPath(path string) (Format, Compression) {
	name := strings.ToLower(filepath.Base(path))

	comp := CompressionNone
	switch ext := filepath.Ext(name); ext {
	case ".gz":
		comp = CompressionGzip
	case ".zst":
		comp = CompressionZstd
	case ".xz":
		comp = CompressionXZ
	}
	if comp != CompressionNone {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	switch filepath.Ext(name) {
	case ".csv", ".txt", "":
		return FormatCSV, comp
	case ".xlsx":
		return FormatXLSX, comp
	default:
		return FormatUnknown, comp
	}
}

// decompress wraps r according to c. The returned close function releases
// decoder resources and never closes r itself.
func decompress(r io.Reader, c Compression) (io.Reader, func(), error) {
	switch c {
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return gz, func() { _ = gz.Close() }, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return dec, dec.Close, nil
	case CompressionXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("xz: %w", err)
		}
		return xr, func() {}, nil
	default:
		return r, func() {}, nil
	}
}

// textReader strips a leading byte-order mark and replaces invalid UTF-8
// with U+FFFD so exported spreadsheets from Windows load cleanly.
func textReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
