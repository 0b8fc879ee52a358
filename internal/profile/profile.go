// Package profile holds the float profile domain model: one cast's
// metadata, its depth-ordered samples, and the natural-language
// description generated from them.
package profile

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the compact timestamp format used by the cleaned dataset
// and the persisted metadata ("20000115030405").
const DateLayout = "20060102150405"

// ErrNoSamples indicates a cast without any depth samples. Such casts
// cannot be analyzed or described and must be skipped by the builder.
var ErrNoSamples = errors.New("profile has no depth samples")

// DepthSample is a single measurement within a cast, ordered by depth
// ascending. Depth is meters, temperature °C, salinity PSU.
type DepthSample struct {
	Depth       float64 `json:"depth"`
	Temperature float64 `json:"temperature"`
	Salinity    float64 `json:"salinity"`
}

// Date wraps time.Time so metadata round-trips through JSON in the
// dataset's compact layout instead of RFC 3339.
type Date struct {
	time.Time
}

// ParseDate parses a compact dataset timestamp.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

// MarshalJSON encodes the date in the compact dataset layout.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON decodes a compact dataset timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date JSON: %s", data)
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Metadata identifies one physical float cast. Text fields are trimmed
// once at ingestion; readers never clean them again.
type Metadata struct {
	PlatformNumber string  `json:"platform_number"`
	ProjectName    string  `json:"project_name"`
	PIName         string  `json:"pi_name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Date           Date    `json:"date"`
}

// Analysis summarizes a cast's depth samples.
type Analysis struct {
	SurfaceTemp float64
	SurfaceSal  float64
	MaxDepth    float64
	TempRange   float64
	SalRange    float64
}

// Analyze extracts surface readings and ranges from a cast.
// The first sample is treated as the surface reading.
func Analyze(samples []DepthSample) (Analysis, error) {
	if len(samples) == 0 {
		return Analysis{}, ErrNoSamples
	}

	a := Analysis{
		SurfaceTemp: samples[0].Temperature,
		SurfaceSal:  samples[0].Salinity,
		MaxDepth:    samples[0].Depth,
	}

	minTemp, maxTemp := samples[0].Temperature, samples[0].Temperature
	minSal, maxSal := samples[0].Salinity, samples[0].Salinity
	for _, s := range samples[1:] {
		if s.Depth > a.MaxDepth {
			a.MaxDepth = s.Depth
		}
		if s.Temperature < minTemp {
			minTemp = s.Temperature
		}
		if s.Temperature > maxTemp {
			maxTemp = s.Temperature
		}
		if s.Salinity < minSal {
			minSal = s.Salinity
		}
		if s.Salinity > maxSal {
			maxSal = s.Salinity
		}
	}
	a.TempRange = maxTemp - minTemp
	a.SalRange = maxSal - minSal

	return a, nil
}
