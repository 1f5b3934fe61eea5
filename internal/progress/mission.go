package progress

import (
	"math"

	"backend-runhub/internal/record"
)

type Metric string

const (
	// Best single-session values across the whole history.
	MetricSessionDistanceKm  Metric = "session_distance_km"
	MetricSessionDurationSec Metric = "session_duration_sec"
)

// Mission is a repeatable threshold goal. Progress wraps modulo the
// threshold once exceeded instead of pinning at complete.
type Mission struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Metric    Metric  `json:"metric"`
	Threshold float64 `json:"threshold"`
}

type MissionProgress struct {
	MissionID     string  `json:"mission_id"`
	Current       float64 `json:"current"`
	Total         float64 `json:"total"`
	EverCompleted bool    `json:"ever_completed"`
}

func DefaultMissions() []Mission {
	return []Mission{
		{ID: "distance-2k", Title: "Run 2 km in one session", Metric: MetricSessionDistanceKm, Threshold: 2},
		{ID: "distance-5k", Title: "Run 5 km in one session", Metric: MetricSessionDistanceKm, Threshold: 5},
		{ID: "duration-60s", Title: "Keep moving for a minute", Metric: MetricSessionDurationSec, Threshold: 60},
		{ID: "duration-30m", Title: "Keep moving for 30 minutes", Metric: MetricSessionDurationSec, Threshold: 1800},
	}
}

// Evaluate derives mission progress from the full record history. No history
// is a valid zero state: progress reads (0, threshold).
func Evaluate(records []record.Record, m Mission) MissionProgress {
	best := bestValue(records, m.Metric)
	out := MissionProgress{MissionID: m.ID, Total: m.Threshold}
	if m.Threshold <= 0 {
		return out
	}
	out.Current = math.Mod(best, m.Threshold)
	out.EverCompleted = best >= m.Threshold
	return out
}

func bestValue(records []record.Record, metric Metric) float64 {
	best := 0.0
	for _, rec := range records {
		var v float64
		switch metric {
		case MetricSessionDistanceKm:
			v = rec.DistanceKm
		case MetricSessionDurationSec:
			v = float64(rec.DurationSec)
		}
		if v > best {
			best = v
		}
	}
	return best
}
