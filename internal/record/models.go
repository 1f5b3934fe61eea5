package record

import (
	"errors"
	"time"

	"backend-runhub/internal/shared/geo"
)

var ErrRecordNotFound = errors.New("record not found")

// Record is a finalized run. Immutable once persisted; deletion removes the
// whole row.
type Record struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Date         time.Time      `json:"date"`
	DurationSec  int            `json:"duration_sec"`
	DistanceKm   float64        `json:"distance_km"`
	PaceSecPerKm float64        `json:"pace_sec_per_km"`
	CaloriesKcal int            `json:"calories_kcal"`
	Path         []geo.Position `json:"path"`
	Start        geo.Position   `json:"start_location"`
	LocationName string         `json:"location_name"`
	CreatedAt    time.Time      `json:"created_at"`
}
