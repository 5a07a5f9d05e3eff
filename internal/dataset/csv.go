package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

var delimiterCandidates = []rune{',', ';', '\t', '|'}

func loadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	return fromRecords(records[0], records[1:])
}

// sniffDelimiter picks the candidate separator that occurs most often in the
// first line, defaulting to a comma.
func sniffDelimiter(data []byte) rune {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	if !scanner.Scan() {
		return ','
	}
	first := scanner.Text()

	best, bestCount := ',', 0
	for _, sep := range delimiterCandidates {
		if n := strings.Count(first, string(sep)); n > bestCount {
			best, bestCount = sep, n
		}
	}
	return best
}
