// Package ingest implements the offline pipeline: read the cleaned
// dataset, describe each cast, embed the descriptions, build the flat
// index, and persist an immutable snapshot.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/argolab/floatchat/internal/profile"
)

// Cast is one float cast read from the dataset: metadata plus its
// depth-ordered samples.
type Cast struct {
	Meta    profile.Metadata
	Samples []profile.DepthSample
}

// datasetColumns is the required CSV header of the cleaned dataset.
// One row per depth sample; consecutive rows with the same platform
// and date belong to the same cast. Sample columns may be empty for
// casts that carry no measurements.
var datasetColumns = []string{
	"platform_number", "project_name", "pi_name",
	"latitude", "longitude", "date",
	"depth", "temperature", "salinity",
}

// ReadCasts parses the cleaned dataset. Text fields are trimmed here,
// once, at ingestion. A malformed row aborts its whole cast with a
// logged message; remaining casts are still returned.
func ReadCasts(path string) ([]Cast, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(datasetColumns)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	for i, want := range datasetColumns {
		if strings.TrimSpace(header[i]) != want {
			return nil, fmt.Errorf("dataset column %d is %q, want %q", i, header[i], want)
		}
	}

	var (
		casts   []Cast
		current *Cast
		currKey string
		badKey  string
		skipped int
	)
	flush := func() {
		if current != nil {
			casts = append(casts, *current)
			current = nil
		}
	}

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row %d: %w", line, err)
		}

		key := strings.TrimSpace(row[0]) + "|" + strings.TrimSpace(row[5])
		if key == badKey {
			continue
		}
		if key != currKey {
			flush()
			currKey = key

			meta, err := parseMetadata(row)
			if err != nil {
				slog.Error("skipping cast: malformed metadata", "line", line, "error", err)
				badKey = key
				skipped++
				continue
			}
			current = &Cast{Meta: meta}
		}

		sample, ok, err := parseSample(row)
		if err != nil {
			slog.Error("skipping cast: malformed sample", "line", line,
				"platform", current.Meta.PlatformNumber, "error", err)
			badKey = key
			current = nil
			skipped++
			continue
		}
		if ok {
			current.Samples = append(current.Samples, sample)
		}
	}
	flush()

	if skipped > 0 {
		slog.Warn("dataset contained malformed casts", "skipped", skipped, "kept", len(casts))
	}
	if len(casts) == 0 {
		return nil, fmt.Errorf("dataset %s contains no valid casts", path)
	}
	return casts, nil
}

func parseMetadata(row []string) (profile.Metadata, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return profile.Metadata{}, fmt.Errorf("latitude %q: %w", row[3], err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return profile.Metadata{}, fmt.Errorf("longitude %q: %w", row[4], err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return profile.Metadata{}, fmt.Errorf("coordinates out of range: %v, %v", lat, lon)
	}
	date, err := profile.ParseDate(strings.TrimSpace(row[5]))
	if err != nil {
		return profile.Metadata{}, err
	}

	return profile.Metadata{
		PlatformNumber: strings.TrimSpace(row[0]),
		ProjectName:    strings.TrimSpace(row[1]),
		PIName:         strings.TrimSpace(row[2]),
		Latitude:       lat,
		Longitude:      lon,
		Date:           date,
	}, nil
}

// parseSample reads the sample columns of a row. Rows with all three
// columns empty are metadata-only and yield no sample.
func parseSample(row []string) (profile.DepthSample, bool, error) {
	depthStr := strings.TrimSpace(row[6])
	tempStr := strings.TrimSpace(row[7])
	salStr := strings.TrimSpace(row[8])
	if depthStr == "" && tempStr == "" && salStr == "" {
		return profile.DepthSample{}, false, nil
	}

	depth, err := strconv.ParseFloat(depthStr, 64)
	if err != nil {
		return profile.DepthSample{}, false, fmt.Errorf("depth %q: %w", row[6], err)
	}
	if depth < 0 {
		return profile.DepthSample{}, false, fmt.Errorf("negative depth %v", depth)
	}
	temp, err := strconv.ParseFloat(tempStr, 64)
	if err != nil {
		return profile.DepthSample{}, false, fmt.Errorf("temperature %q: %w", row[7], err)
	}
	sal, err := strconv.ParseFloat(salStr, 64)
	if err != nil {
		return profile.DepthSample{}, false, fmt.Errorf("salinity %q: %w", row[8], err)
	}

	return profile.DepthSample{Depth: depth, Temperature: temp, Salinity: sal}, true, nil
}
