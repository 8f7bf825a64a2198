package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/county-enrich/internal/config"
	"github.com/sells-group/county-enrich/internal/sheet"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "county-enrich", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["enrich"], "enrich subcommand not registered")
}

func TestEnrichCommand_Flags(t *testing.T) {
	for _, name := range []string{"input", "output", "sheet", "format", "limit"} {
		require.NotNil(t, enrichCmd.Flags().Lookup(name), "missing --%s flag", name)
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		flag, input, want string
		wantErr           bool
	}{
		{"", "sites.xlsx", "xlsx", false},
		{"", "sites.csv", "csv", false},
		{"csv", "sites.xlsx", "csv", false},
		{"XLSX", "anything", "xlsx", false},
		{"", "sites.ods", "", true},
		{"", "noext", "", true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.flag, tt.input)
		if tt.wantErr {
			assert.Error(t, err, "flag=%q input=%q", tt.flag, tt.input)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func writeInputXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	s, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, r := range rows {
		row := s.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestEnrichCmd_EndToEnd(t *testing.T) {
	// Coordinates around latitude 40 always fail with 503; everything else
	// resolves to a fixed county.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Query().Get("lat"), "40") {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"display_name":"somewhere","address":{"county":"Test County"}}`)
	}))
	defer srv.Close()

	input := writeInputXLSX(t, [][]string{
		{"Survey export"}, // banner row before real headers
		{"Site", "Latitude", "Longitude"},
		{"valid", `52°4'59"N`, `9°13'1"W`},
		{"malformed", "abc", "def"},
		{"slow", `40°26'46"N`, `79°58'56"W`},
	})
	output := filepath.Join(t.TempDir(), "output.xlsx")

	cfg = &config.Config{
		Geocoder: config.GeocoderConfig{
			BaseURL:        srv.URL,
			UserAgent:      "county-enrich-test/1.0",
			TimeoutSecs:    5,
			RetryDelaySecs: 1,
			MaxAttempts:    2,
			RateLimitRPS:   1000,
		},
		Input: config.InputConfig{
			SkipRows:        1,
			LatitudeColumn:  "Latitude",
			LongitudeColumn: "Longitude",
			CountyColumn:    "County",
		},
	}
	enrichInput = input
	enrichOutput = output
	enrichSheet = ""
	enrichFormat = ""
	enrichLimit = 0

	enrichCmd.SetContext(context.Background())
	require.NoError(t, enrichCmd.RunE(enrichCmd, nil))

	rows, err := sheet.ReadXLSX(output, sheet.XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Site", "Latitude", "Longitude", "County"}, rows[0])
	assert.Equal(t, "Test County", rows[1][3])
	assert.Equal(t, "Invalid Coordinates", rows[2][3])
	assert.Equal(t, "Timed out", rows[3][3])
}

func TestEnrichCmd_EndToEndCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"display_name":"somewhere","address":{"country":"Ireland"}}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	output := filepath.Join(dir, "output.csv")
	require.NoError(t, sheet.WriteCSVFile(input,
		[]string{"Latitude", "Longitude"},
		[][]string{{`52°4'59"N`, `9°13'1"W`}},
	))

	cfg = &config.Config{
		Geocoder: config.GeocoderConfig{
			BaseURL:      srv.URL,
			UserAgent:    "county-enrich-test/1.0",
			TimeoutSecs:  5,
			MaxAttempts:  2,
			RateLimitRPS: 1000,
		},
		Input: config.InputConfig{
			SkipRows:        0,
			LatitudeColumn:  "Latitude",
			LongitudeColumn: "Longitude",
			CountyColumn:    "County",
		},
	}
	enrichInput = input
	enrichOutput = output
	enrichSheet = ""
	enrichFormat = ""
	enrichLimit = 0

	enrichCmd.SetContext(context.Background())
	require.NoError(t, enrichCmd.RunE(enrichCmd, nil))

	rows, err := sheet.ReadCSVFile(output, sheet.CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Latitude", "Longitude", "County"}, rows[0])
	assert.Equal(t, "County not found", rows[1][2])
}
