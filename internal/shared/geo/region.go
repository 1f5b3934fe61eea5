package geo

// Region is a map viewport: center plus axis spans.
type Region struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
}

type RegionConfig struct {
	Padding  float64
	MinDelta float64
	Fallback Region
}

func DefaultRegionConfig() RegionConfig {
	return RegionConfig{
		Padding:  1.2,
		MinDelta: 0.005,
		// Seoul city hall, the app's home viewport.
		Fallback: Region{Latitude: 37.5665, Longitude: 126.978, LatitudeDelta: 0.01, LongitudeDelta: 0.01},
	}
}

// FitRegion computes a viewport bounding all positions. An empty path
// returns the configured fallback viewport.
func FitRegion(path []Position, cfg RegionConfig) Region {
	if len(path) == 0 {
		return cfg.Fallback
	}

	minLat, maxLat := path[0].Lat, path[0].Lat
	minLng, maxLng := path[0].Lng, path[0].Lng
	for _, p := range path[1:] {
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
		if p.Lng < minLng {
			minLng = p.Lng
		}
		if p.Lng > maxLng {
			maxLng = p.Lng
		}
	}

	latDelta := (maxLat - minLat) * cfg.Padding
	if latDelta < cfg.MinDelta {
		latDelta = cfg.MinDelta
	}
	lngDelta := (maxLng - minLng) * cfg.Padding
	if lngDelta < cfg.MinDelta {
		lngDelta = cfg.MinDelta
	}

	return Region{
		Latitude:       (minLat + maxLat) / 2,
		Longitude:      (minLng + maxLng) / 2,
		LatitudeDelta:  latDelta,
		LongitudeDelta: lngDelta,
	}
}
