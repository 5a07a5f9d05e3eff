package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Format names a supported input file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

// DetectFormat maps a file name to its format by extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// SupportedExtensions lists the extensions Load accepts.
func SupportedExtensions() []string {
	return []string{".csv", ".tsv", ".txt", ".xlsx", ".parquet"}
}

// Load parses r into a Table, choosing the loader from the extension of name.
func Load(ctx context.Context, name string, r io.Reader) (*Table, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return loadXLSX(r)
	case FormatParquet:
		return loadParquet(ctx, r)
	default:
		return loadCSV(r)
	}
}

// LoadFile opens path and loads it with Load.
func LoadFile(ctx context.Context, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Load(ctx, filepath.Base(path), f)
}

// fromRecords turns a header plus text rows into a table. Short rows are
// padded with missing cells and long rows are truncated to the header width.
func fromRecords(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrEmptyDataset
	}
	names := normalizeHeader(header)

	columns := make([]*Column, len(names))
	for j, name := range names {
		raw := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				raw[i] = row[j]
			}
		}
		columns[j] = inferColumn(name, raw)
	}
	return New(columns...)
}

// normalizeHeader trims names, fills blanks and suffixes duplicates so that
// every column name is unique.
func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for taken[name] {
			seen[base]++
			name = base + "." + strconv.Itoa(seen[base])
		}
		taken[name] = true
		names[i] = name
	}
	return names
}
