package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

// header aliases accepted for each column, compared lower-cased.
// strings.ToLower turns the Turkish "İ" into "i" plus a combining dot.
var columnAliases = map[string][]string{
	"province":  {"province", "il", "i̇l"},
	"district":  {"district", "ilçe", "ilce", "i̇lçe"},
	"village":   {"village", "köy", "koy", "mahalle"},
	"latitude":  {"latitude", "lat", "enlem"},
	"longitude": {"longitude", "lon", "lng", "boylam"},
}

type importSummary struct {
	TotalRows  int
	Valid      int
	Skipped    int
	Duplicates int
}

// columnIndexes maps the header row to column positions; province and district are required
func columnIndexes(header []string) (map[string]int, error) {
	indexes := make(map[string]int)
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		for column, aliases := range columnAliases {
			for _, alias := range aliases {
				if name == alias {
					indexes[column] = i
				}
			}
		}
	}
	for _, required := range []string{"province", "district"} {
		if _, ok := indexes[required]; !ok {
			return nil, fmt.Errorf("missing %s column in header %v", required, header)
		}
	}
	return indexes, nil
}

func cell(row []string, indexes map[string]int, column string) string {
	i, ok := indexes[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseCoordinate accepts both "38.35" and the Turkish "38,35"
func parseCoordinate(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
}

// readLocations reads one sheet (the first when sheet is empty) into unique locations
func readLocations(f *excelize.File, sheet string) ([]model.Location, importSummary, error) {
	var summary importSummary

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, summary, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, summary, fmt.Errorf("no data found in sheet %q", sheet)
	}

	indexes, err := columnIndexes(rows[0])
	if err != nil {
		return nil, summary, err
	}

	seen := make(map[string]bool)
	var locations []model.Location

	for _, row := range rows[1:] {
		summary.TotalRows++

		province := cell(row, indexes, "province")
		district := cell(row, indexes, "district")
		village := cell(row, indexes, "village")
		if province == "" || district == "" {
			summary.Skipped++
			continue
		}

		lat, errLat := parseCoordinate(cell(row, indexes, "latitude"))
		lon, errLon := parseCoordinate(cell(row, indexes, "longitude"))
		if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			summary.Skipped++
			continue
		}

		key := strings.Join([]string{province, district, village}, "|")
		if seen[key] {
			summary.Duplicates++
			continue
		}
		seen[key] = true

		locations = append(locations, model.Location{
			Province:  province,
			District:  district,
			Village:   village,
			Latitude:  lat,
			Longitude: lon,
		})
	}

	summary.Valid = len(locations)
	return locations, summary, nil
}
