package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataviz/internal/plot"
	"dataviz/internal/shared/testutil"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing input", []string{"-type", "Count Plot"}, "-in is required"},
		{"csv without filter", []string{"-in", "a.csv", "-csv", "out.csv"}, "-csv requires -filter"},
		{"unknown flag", []string{"-in", "a.csv", "-bogus"}, "flag provided but not defined"},
		{"multi character delimiter", []string{"-in", "a.csv", "-delimiter", ";;"}, "-delimiter"},
		{"quote delimiter", []string{"-in", "a.csv", "-delimiter", `"`}, "-delimiter"},
		{"valid", []string{"-in", "a.csv", "-type", "Count Plot", "-x", "Dept"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			opts, err := parseFlags(tt.args, &stderr)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "plot.png", opts.out)
			assert.Nil(t, opts.title.ptr())
		})
	}
}

func TestParseFlags_ExplicitEmptyLabel(t *testing.T) {
	opts, err := parseFlags([]string{"-in", "a.csv", "-title", ""}, &bytes.Buffer{})
	require.NoError(t, err)

	title := opts.title.ptr()
	require.NotNil(t, title)
	assert.Equal(t, "", *title)
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI("-version")
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "DataViz v"), stdout)
}

func TestParseFilter(t *testing.T) {
	spec, err := parseFilter("City=NYC")
	require.NoError(t, err)
	assert.Equal(t, "City", spec.Column)
	assert.Equal(t, "NYC", spec.Value.String())

	spec, err = parseFilter("Note=a=b")
	require.NoError(t, err)
	assert.Equal(t, "a=b", spec.Value.String())

	_, err = parseFilter("City")
	assert.Error(t, err)
	_, err = parseFilter("=NYC")
	assert.Error(t, err)
}

func TestRun_Plot(t *testing.T) {
	in := writeInput(t, "people.csv", testutil.PeopleCSV)
	out := filepath.Join(t.TempDir(), "charts", "box.png")

	code, _, stderr := runCLI("-in", in, "-type", "Box Plot", "-x", "Dept", "-y", "Salary",
		"-title", "Salary by dept", "-width", "640", "-height", "480", "-out", out)
	require.Equal(t, exitOK, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
	assert.Contains(t, stderr, `"msg":"plot written"`)
	assert.Contains(t, stderr, `"width":640`)
	assert.Contains(t, stderr, `"trace_id"`)
}

func TestRun_MissingAxisIsAdvisory(t *testing.T) {
	in := writeInput(t, "people.csv", testutil.PeopleCSV)
	out := filepath.Join(t.TempDir(), "plot.png")

	code, _, stderr := runCLI("-in", in, "-type", "Scatter Plot", "-x", "Age", "-out", out)
	assert.Equal(t, exitAdvisory, code)
	assert.Contains(t, stderr, plot.MissingAxisAdvisory)
	assert.NoFileExists(t, out)
}

func TestRun_Errors(t *testing.T) {
	people := writeInput(t, "people.csv", testutil.PeopleCSV)
	text := writeInput(t, "text.csv", testutil.TextOnlyCSV)

	tests := []struct {
		name    string
		args    []string
		wantLog string
	}{
		{"missing file", []string{"-in", filepath.Join(t.TempDir(), "nope.csv")}, "invalid input file"},
		{"unsupported extension", []string{"-in", writeInput(t, "notes.md", "# hi\n")}, "invalid input file"},
		{"empty header", []string{"-in", writeInput(t, "blank.csv", "\n")}, "failed to load dataset"},
		{"unknown plot type", []string{"-in", people, "-type", "Radar", "-x", "Age"}, "plot failed"},
		{"unknown column", []string{"-in", people, "-type", "Count Plot", "-x", "Height"}, "plot failed"},
		{"no numeric columns", []string{"-in", text, "-corr"}, "inspection failed"},
		{"filter unknown column", []string{"-in", people, "-filter", "Team=Eng"}, "filter failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(tt.args...)
			assert.Equal(t, exitError, code)
			assert.Contains(t, stderr, `"level":"ERROR"`)
			assert.Contains(t, stderr, tt.wantLog)
		})
	}
}

func TestRun_Inspection(t *testing.T) {
	in := writeInput(t, "people.csv", testutil.PeopleCSV)

	code, stdout, stderr := runCLI("-in", in, "-missing")
	require.Equal(t, exitOK, code, stderr)

	var missing []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &missing))
	assert.Len(t, missing, 5)
}

func TestRun_FilterToStdout(t *testing.T) {
	in := writeInput(t, "sales.csv", testutil.CitySalesCSV)

	code, stdout, stderr := runCLI("-in", in, "-filter", "City=NYC")
	require.Equal(t, exitOK, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, []string{"City,Sales", "NYC,10", "NYC,30"}, lines)
}

func TestRun_FilterToFile(t *testing.T) {
	in := writeInput(t, "sales.csv", testutil.CitySalesCSV)
	out := filepath.Join(t.TempDir(), "filtered.csv")

	code, stdout, stderr := runCLI("-in", in, "-filter", "Sales=20", "-csv", out)
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "City,Sales\nLA,20\n", string(data))
}

func TestParseDelimiter(t *testing.T) {
	r, err := parseDelimiter("tab")
	require.NoError(t, err)
	assert.Equal(t, '\t', r)

	r, err = parseDelimiter(";")
	require.NoError(t, err)
	assert.Equal(t, ';', r)

	_, err = parseDelimiter("")
	assert.Error(t, err)
}

func TestRun_FilterExcelCSV(t *testing.T) {
	in := writeInput(t, "sales.csv", testutil.CitySalesCSV)
	out := filepath.Join(t.TempDir(), "filtered.csv")

	code, _, stderr := runCLI("-in", in, "-filter", "City=NYC", "-csv", out, "-bom", "-delimiter", ";")
	require.Equal(t, exitOK, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffCity;Sales\nNYC;10\nNYC;30\n", string(data))
}
