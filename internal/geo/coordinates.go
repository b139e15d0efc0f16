// Package geo resolves map centers for listings from explicit coordinates or
// from a Google Maps share URL.
package geo

import (
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

var atPattern = regexp.MustCompile(`@(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)`)

// ExtractCoordinates reads the first "@<lat>,<lng>" segment of a maps URL.
// It returns nil when the segment is missing, out of range, or the URL does
// not parse.
func ExtractCoordinates(rawURL string) *Coordinates {
	if rawURL == "" {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		slog.Debug("unparseable map url", "url", rawURL, "error", err)
		return nil
	}

	// The segment normally lives in the path, but shortened or re-encoded
	// links sometimes carry it in the fragment or query.
	for _, part := range []string{u.Path, u.Fragment, u.RawQuery, u.Opaque} {
		m := atPattern.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		lat, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil
		}
		lng, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return nil
		}
		return &Coordinates{Lat: lat, Lng: lng}
	}
	return nil
}

// ResolveCenter prefers explicit coordinates and falls back to the URL.
// Explicit coordinates are used only when both are present.
func ResolveCenter(lat, lng *float64, mapURL string) *Coordinates {
	if lat != nil && lng != nil {
		return &Coordinates{Lat: *lat, Lng: *lng}
	}
	return ExtractCoordinates(mapURL)
}
