// api/dataset/loader.go
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"olistdash/api/models"
)

// DefaultFileName is the dataset file used when present; otherwise discovery
// falls back to the lexicographically first .csv in the data directory.
const DefaultFileName = "main_data.csv"

// Columns the loader requires in the CSV header. Geolocation columns are
// optional: datasets exported without the geolocation join simply lack them.
var requiredColumns = []string{
	"order_id",
	"customer_unique_id",
	"customer_state",
	"rfm_segment",
	"order_revenue",
	"order_purchase_timestamp",
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Dataset is a parsed order file, held in memory and treated as immutable for
// the process lifetime.
type Dataset struct {
	Path    string
	ModTime time.Time
	Records []models.OrderRecord
}

// Discover resolves the dataset path inside dir: the preferred filename if it
// exists, else the lexicographically first .csv file, else an error.
func Discover(dir, preferred string) (string, error) {
	if preferred == "" {
		preferred = DefaultFileName
	}
	fixed := filepath.Join(dir, preferred)
	if _, err := os.Stat(fixed); err == nil {
		return fixed, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read data directory %s: %w", dir, err)
	}
	var csvs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".csv") {
			csvs = append(csvs, e.Name())
		}
	}
	if len(csvs) == 0 {
		return "", fmt.Errorf("no .csv file found in %s", dir)
	}
	sort.Strings(csvs)
	return filepath.Join(dir, csvs[0]), nil
}

func parseFile(path string, modTime time.Time) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header from %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("dataset %s is missing required column %q", path, name)
		}
	}
	latIdx, hasLat := cols["geolocation_lat"]
	lngIdx, hasLng := cols["geolocation_lng"]
	hasGeo := hasLat && hasLng

	var records []models.OrderRecord
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d of %s: %w", line, path, err)
		}

		rec := models.OrderRecord{
			OrderID:          strings.TrimSpace(row[cols["order_id"]]),
			CustomerUniqueID: strings.TrimSpace(row[cols["customer_unique_id"]]),
			CustomerState:    optString(row[cols["customer_state"]]),
			RFMSegment:       optString(row[cols["rfm_segment"]]),
		}

		if raw := strings.TrimSpace(row[cols["order_revenue"]]); raw != "" {
			rev, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d of %s: invalid order_revenue %q: %w", line, path, raw, err)
			}
			rec.OrderRevenue = rev
		}

		if raw := strings.TrimSpace(row[cols["order_purchase_timestamp"]]); raw != "" {
			ts, err := parseTimestamp(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d of %s: %w", line, path, err)
			}
			rec.PurchaseTime = &ts
		}

		if hasGeo {
			rec.GeoLat = optFloat(row[latIdx])
			rec.GeoLng = optFloat(row[lngIdx])
		}

		records = append(records, rec)
	}

	log.Printf("Loaded dataset %s: %d rows (geolocation columns: %t)", path, len(records), hasGeo)
	return &Dataset{Path: path, ModTime: modTime, Records: records}, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable order_purchase_timestamp %q", raw)
}

func optString(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}

func optFloat(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
