package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/county-enrich/internal/config"
	"github.com/sells-group/county-enrich/internal/enrich"
	"github.com/sells-group/county-enrich/internal/resilience"
	"github.com/sells-group/county-enrich/internal/sheet"
	"github.com/sells-group/county-enrich/pkg/nominatim"
)

var (
	enrichInput  string
	enrichOutput string
	enrichSheet  string
	enrichFormat string
	enrichLimit  int
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Append a County column resolved from DMS coordinates",
	Long: `Reads the input table, converts the Latitude/Longitude DMS columns to
decimal degrees, reverse-geocodes each pair, and writes the table with an
appended County column. Unresolvable rows get a sentinel value instead of
failing the run.

Examples:
  # XLSX in, XLSX out
  county-enrich enrich --input sites.xlsx --output sites-enriched.xlsx

  # CSV, first 10 rows only
  county-enrich enrich --input sites.csv --output out.csv --limit 10`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		format, err := resolveFormat(enrichFormat, enrichInput)
		if err != nil {
			return err
		}

		raw, err := readRows(format)
		if err != nil {
			return eris.Wrap(err, "enrich: read input")
		}

		tbl, err := enrich.LoadTable(raw, cfg.Input.LatitudeColumn, cfg.Input.LongitudeColumn)
		if err != nil {
			return err
		}
		zap.L().Info("table loaded",
			zap.String("input", enrichInput),
			zap.Int("rows", len(tbl.Rows)),
		)

		if enrichLimit > 0 && enrichLimit < len(tbl.Rows) {
			tbl.Rows = tbl.Rows[:enrichLimit]
		}

		resolver := enrich.NewResolver(newGeocoder(cfg.Geocoder), resilience.RetryConfig{
			MaxAttempts: cfg.Geocoder.MaxAttempts,
			Delay:       cfg.Geocoder.RetryDelay(),
		})

		out, err := enrich.Run(ctx, tbl, resolver, cfg.Input.CountyColumn)
		if err != nil {
			return err
		}

		if err := writeRows(format, out); err != nil {
			return eris.Wrap(err, "enrich: write output")
		}

		zap.L().Info("enrichment complete",
			zap.String("output", enrichOutput),
			zap.Int("rows", len(out.Rows)),
		)
		return nil
	},
}

func newGeocoder(gc config.GeocoderConfig) *nominatim.Client {
	return nominatim.NewClient(
		nominatim.WithBaseURL(gc.BaseURL),
		nominatim.WithUserAgent(gc.UserAgent),
		nominatim.WithTimeout(gc.Timeout()),
		nominatim.WithRateLimit(gc.RateLimitRPS),
	)
}

// resolveFormat picks the table format from the flag, falling back to the
// input file extension.
func resolveFormat(flag, input string) (string, error) {
	f := flag
	if f == "" {
		f = strings.TrimPrefix(filepath.Ext(input), ".")
	}
	switch strings.ToLower(f) {
	case "xlsx", "csv":
		return strings.ToLower(f), nil
	default:
		return "", eris.Errorf("enrich: unsupported format %q (want xlsx or csv)", f)
	}
}

func readRows(format string) ([][]string, error) {
	if format == "csv" {
		return sheet.ReadCSVFile(enrichInput, sheet.CSVOptions{SkipRows: cfg.Input.SkipRows})
	}
	return sheet.ReadXLSX(enrichInput, sheet.XLSXOptions{
		SheetName: enrichSheet,
		SkipRows:  cfg.Input.SkipRows,
	})
}

func writeRows(format string, tbl *enrich.Table) error {
	if format == "csv" {
		return sheet.WriteCSVFile(enrichOutput, tbl.Header, tbl.Rows)
	}
	sheetName := enrichSheet
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return sheet.WriteXLSX(enrichOutput, sheetName, tbl.Header, tbl.Rows)
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "input table file (required)")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "", "output table file (required)")
	enrichCmd.Flags().StringVar(&enrichSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	enrichCmd.Flags().StringVar(&enrichFormat, "format", "", "table format: xlsx or csv (default: from input extension)")
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "process at most N rows (0 = all)")
	_ = enrichCmd.MarkFlagRequired("input")
	_ = enrichCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(enrichCmd)
}
