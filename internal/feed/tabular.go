package feed

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-radar/internal/catalog"
)

// multiValueSeps split list-valued cells ("retail|wholesale" or
// "retail;wholesale") into elements.
var multiValueSeps = []string{"|", ";"}

// DecodeCSV reads a comma-separated payload with a header row and maps each
// data row to a raw record by column name.
func DecodeCSV(r io.Reader) ([]catalog.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, eris.Wrap(err, "feed: read csv header")
	}

	var records []catalog.RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "feed: read csv row")
		}
		records = append(records, rowToRecord(header, row))
	}
	return records, nil
}

// DecodeXLSX reads the first sheet of a workbook with a header row and maps
// each data row to a raw record by column name.
func DecodeXLSX(path string) ([]catalog.RawRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "feed: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("feed: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	var header []string
	var records []catalog.RawRecord
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.String()
		}
		if i == 0 {
			header = cells
			continue
		}
		records = append(records, rowToRecord(header, cells))
	}
	return records, nil
}

// rowToRecord maps a tabular row to a raw record by header name. Unknown
// columns are ignored for forward compatibility.
func rowToRecord(header, row []string) catalog.RawRecord {
	var rec catalog.RawRecord
	for i, col := range header {
		if i >= len(row) {
			break
		}
		val := strings.TrimSpace(row[i])
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "host":
			rec.Host = val
		case "domain":
			rec.Domain = val
		case "url", "website":
			rec.URL = val
		case "name", "company", "company_name":
			rec.Name = val
		case "tiers", "tier":
			rec.Tiers = splitMulti(val)
		case "tags":
			rec.Tags = splitMulti(val)
		case "segments", "segment":
			rec.Segments = splitMulti(val)
		case "city_tags", "cities", "city":
			rec.CityTags = splitMulti(val)
		case "size":
			rec.Size = val
		}
	}
	return rec
}

func splitMulti(s string) []string {
	if s == "" {
		return nil
	}
	sep := ","
	for _, cand := range multiValueSeps {
		if strings.Contains(s, cand) {
			sep = cand
			break
		}
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
