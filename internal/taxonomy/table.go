// Package taxonomy loads the static industry-classification reference table
// and matches companies to it by embedding similarity.
package taxonomy

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fusionlabs/profilegen/internal/model"
)

// LoadCSV reads taxonomy rows from a CSV file with a header row. Expected
// columns: sector, Industry, sub_industry, sic_code, sic_description (the
// source data capitalizes "Industry"). Rows with a missing sector, industry
// or sub-industry are excluded.
func LoadCSV(path string) ([]model.TaxonomyRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "taxonomy: open %s", path)
	}
	defer f.Close()

	rows, err := parseCSV(f)
	if err != nil {
		return nil, eris.Wrapf(err, "taxonomy: parse %s", path)
	}

	zap.L().Info("taxonomy: loaded classification table",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

func parseCSV(r io.Reader) ([]model.TaxonomyRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "read header")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"sector", "industry", "sub_industry"} {
		if _, ok := col[required]; !ok {
			return nil, eris.Errorf("missing column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []model.TaxonomyRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "read record")
		}

		row := model.TaxonomyRow{
			Sector:         field(record, "sector"),
			Industry:       field(record, "industry"),
			SubIndustry:    field(record, "sub_industry"),
			SICCode:        field(record, "sic_code"),
			SICDescription: field(record, "sic_description"),
		}
		if row.Sector == "" || row.Industry == "" || row.SubIndustry == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
