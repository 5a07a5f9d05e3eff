package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"-":    {},
}

var thousandsPattern = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// isMissing reports whether a raw cell denotes a missing value.
func isMissing(raw string) bool {
	_, ok := missingTokens[strings.TrimSpace(raw)]
	return ok
}

// ParseNumber parses a raw cell as a finite number. It accepts plain
// strconv syntax, comma thousands separators ("1,234.5"), mixed separators
// where the last one is the decimal mark ("1.234,5"), and a lone decimal
// comma ("3,5").
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", " "))
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, finite(f)
	}

	cpos := strings.LastIndex(s, ",")
	dpos := strings.LastIndex(s, ".")
	switch {
	case thousandsPattern.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case cpos >= 0 && dpos >= 0 && cpos > dpos:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case cpos >= 0 && dpos >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case cpos >= 0 && strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	default:
		return 0, false
	}
	s = strings.ReplaceAll(s, " ", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, finite(f)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// inferColumn decides the kind of a column of raw text cells. The column is
// numeric when every non-missing cell parses and at least one does.
func inferColumn(name string, raw []string) *Column {
	nums := make([]Value, len(raw))
	seen := 0
	numeric := true
	for i, cell := range raw {
		if isMissing(cell) {
			continue
		}
		f, ok := ParseNumber(cell)
		if !ok {
			numeric = false
			break
		}
		nums[i] = Number(f)
		seen++
	}
	if numeric && seen > 0 {
		return &Column{Name: name, Kind: Numeric, Values: nums}
	}

	texts := make([]Value, len(raw))
	for i, cell := range raw {
		if isMissing(cell) {
			continue
		}
		texts[i] = Text(strings.TrimSpace(cell))
	}
	return &Column{Name: name, Kind: Categorical, Values: texts}
}

// typedColumn decides the kind of a column whose cells already carry a type,
// as read from a parquet file.
func typedColumn(name string, vals []Value) *Column {
	kind := Categorical
	hasNumber := false
	for _, v := range vals {
		switch v.Kind() {
		case KindText:
			return &Column{Name: name, Kind: Categorical, Values: vals}
		case KindNumber:
			hasNumber = true
		}
	}
	if hasNumber {
		kind = Numeric
	}
	return &Column{Name: name, Kind: kind, Values: vals}
}
