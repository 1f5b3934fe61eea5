package course

import "time"

// Course is a shared run route other users can browse and follow.
type Course struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DistanceKm  float64   `json:"distance_km"`
	StartLat    float64   `json:"start_lat"`
	StartLng    float64   `json:"start_lng"`
	PathWKT     string    `json:"path"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
