package enrich

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/county-enrich/internal/dms"
)

// Table is an in-memory tabular dataset: one header row plus data rows.
type Table struct {
	Header []string
	Rows   [][]string

	latIdx int
	lonIdx int
}

// LoadTable builds a Table from raw rows. The first row is the header; it
// must contain the latitude and longitude columns named by latCol/lonCol.
func LoadTable(rows [][]string, latCol, lonCol string) (*Table, error) {
	if len(rows) == 0 {
		return nil, eris.New("enrich: table has no header row")
	}

	header := rows[0]
	latIdx, lonIdx := -1, -1
	for i, name := range header {
		switch name {
		case latCol:
			latIdx = i
		case lonCol:
			lonIdx = i
		}
	}
	if latIdx < 0 {
		return nil, eris.Errorf("enrich: column %q not found in header", latCol)
	}
	if lonIdx < 0 {
		return nil, eris.Errorf("enrich: column %q not found in header", lonCol)
	}

	return &Table{
		Header: header,
		Rows:   rows[1:],
		latIdx: latIdx,
		lonIdx: lonIdx,
	}, nil
}

// cell returns the row value at idx, tolerating short rows.
func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// Run resolves a county for every row and returns a new table with the
// original columns plus an appended county column. Rows are processed
// strictly in order, one network lookup at a time; the input is not mutated.
func Run(ctx context.Context, tbl *Table, resolver *Resolver, countyCol string) (*Table, error) {
	outHeader := make([]string, 0, len(tbl.Header)+1)
	outHeader = append(outHeader, tbl.Header...)
	outHeader = append(outHeader, countyCol)

	outRows := make([][]string, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		lat := dms.ParseLatitude(cell(row, tbl.latIdx))
		lon := dms.ParseLongitude(cell(row, tbl.lonIdx))

		county, err := resolver.ResolveCounty(ctx, lat, lon)
		if err != nil {
			return nil, eris.Wrapf(err, "enrich: row %d", i)
		}

		zap.L().Debug("row resolved",
			zap.Int("row", i),
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.String("county", county),
		)

		outRow := make([]string, 0, len(row)+1)
		outRow = append(outRow, row...)
		outRow = append(outRow, county)
		outRows = append(outRows, outRow)
	}

	return &Table{Header: outHeader, Rows: outRows}, nil
}
