package run

import (
	"time"

	"backend-runhub/internal/shared/geo"
)

type Status string

const (
	StatusReady     Status = "ready"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// State is the live view of one tracking session. Path order is temporal
// order; DistanceKm and ElapsedSeconds never decrease while running.
type State struct {
	Status         Status         `json:"status"`
	Path           []geo.Position `json:"path"`
	DistanceKm     float64        `json:"distance_km"`
	ElapsedSeconds int            `json:"elapsed_seconds"`
	PaceSecPerKm   float64        `json:"pace_sec_per_km"`
	CaloriesKcal   int            `json:"calories_kcal"`
}

// Config holds the tracker's tuning constants. The pace clamp and the
// kcal-per-km factor are product policy, not physics.
type Config struct {
	CaloriesPerKm     float64
	PaceMinSecPerKm   float64
	PaceMaxSecPerKm   float64
	MinPaceDistanceKm float64
	TickInterval      time.Duration
}

func DefaultConfig() Config {
	return Config{
		CaloriesPerKm:     70,
		PaceMinSecPerKm:   180,
		PaceMaxSecPerKm:   1200,
		MinPaceDistanceKm: 0.01,
		TickInterval:      time.Second,
	}
}
