package profile

import (
	"fmt"
	"math"
)

// FormatLocation renders coordinates as compass-bearing degrees,
// e.g. "12.34°N, 56.78°W".
func FormatLocation(lat, lon float64) string {
	latDir := "N"
	if lat < 0 {
		latDir = "S"
	}
	lonDir := "E"
	if lon < 0 {
		lonDir = "W"
	}
	return fmt.Sprintf("%.2f°%s, %.2f°%s", math.Abs(lat), latDir, math.Abs(lon), lonDir)
}

// FormatDate renders a cast timestamp human-readably, e.g. "January 15, 2000".
func FormatDate(d Date) string {
	return d.Format("January 2, 2006")
}

// Describe generates the natural-language summary of one cast that is
// embedded and indexed. The template is deterministic: rebuilding the
// snapshot from the same data yields byte-identical descriptions.
func Describe(meta Metadata, samples []DepthSample) (string, error) {
	analysis, err := Analyze(samples)
	if err != nil {
		return "", fmt.Errorf("describe platform %s: %w", meta.PlatformNumber, err)
	}

	desc := fmt.Sprintf(`Ocean profile measurement taken on %s at %s.
Platform %s from project %s.
Surface conditions: Temperature %.1f°C, Salinity %.3f PSU.
Profile depth range: 0 to %.1f meters.
Temperature variation: %.1f°C
Salinity variation: %.3f PSU
Principal Investigator: %s`,
		FormatDate(meta.Date),
		FormatLocation(meta.Latitude, meta.Longitude),
		meta.PlatformNumber,
		meta.ProjectName,
		analysis.SurfaceTemp,
		analysis.SurfaceSal,
		analysis.MaxDepth,
		analysis.TempRange,
		analysis.SalRange,
		meta.PIName,
	)

	return desc, nil
}
