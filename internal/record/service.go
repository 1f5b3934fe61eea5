package record

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"backend-runhub/internal/db"
	"backend-runhub/internal/run"
	"backend-runhub/internal/shared/geo"

	"github.com/google/uuid"
)

type Service struct {
	db       db.Querier
	geocoder Geocoder
}

func NewService(q db.Querier, geocoder Geocoder) *Service {
	return &Service{db: q, geocoder: geocoder}
}

// Save implements run.Recorder: it formats the final session state into a
// Record and persists it. A failed reverse geocode falls back to a synthetic
// label and never blocks the save.
func (s *Service) Save(ctx context.Context, fin run.Final) (string, error) {
	rec := Record{
		ID:           uuid.NewString(),
		UserID:       fin.UserID,
		Date:         fin.StartedAt,
		DurationSec:  fin.State.ElapsedSeconds,
		DistanceKm:   fin.State.DistanceKm,
		PaceSecPerKm: fin.State.PaceSecPerKm,
		CaloriesKcal: fin.State.CaloriesKcal,
		Path:         fin.State.Path,
	}
	if len(rec.Path) > 0 {
		rec.Start = rec.Path[0]
	}
	rec.LocationName = s.locationLabel(ctx, rec)

	row := s.db.QueryRow(ctx, `
		INSERT INTO running_records (id, user_id, started_at, duration_sec, distance_km, pace_sec_per_km, calories_kcal, start_location, path, location_name)
		VALUES ($1,$2,$3,$4,$5,$6,$7, ST_SetSRID(ST_MakePoint($8,$9), 4326)::geography, ST_GeogFromText($10), $11)
		RETURNING created_at
	`, rec.ID, rec.UserID, rec.Date, rec.DurationSec, rec.DistanceKm, rec.PaceSecPerKm, rec.CaloriesKcal,
		rec.Start.Lng, rec.Start.Lat, lineStringWKT(rec.Path), rec.LocationName)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *Service) locationLabel(ctx context.Context, rec Record) string {
	if s.geocoder != nil && len(rec.Path) > 0 {
		place, err := s.geocoder.Lookup(ctx, rec.Start)
		if err == nil {
			if label := place.Label(); label != "" {
				return label
			}
		}
	}
	return "Run " + rec.Date.Format("2006-01-02 15:04")
}

func (s *Service) ListAll(ctx context.Context, userID string) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, started_at, duration_sec, distance_km, pace_sec_per_km, calories_kcal,
		       ST_Y(start_location::geometry), ST_X(start_location::geometry), ST_AsText(path::geometry), location_name, created_at
		FROM running_records WHERE user_id=$1
		ORDER BY started_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var pathWKT string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.DurationSec, &rec.DistanceKm, &rec.PaceSecPerKm,
			&rec.CaloriesKcal, &rec.Start.Lat, &rec.Start.Lng, &pathWKT, &rec.LocationName, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Path = parseLineStringWKT(pathWKT)
		records = append(records, rec)
	}
	return records, nil
}

// Delete removes a record by id, falling back to a start-date match when the
// id no longer resolves.
func (s *Service) Delete(ctx context.Context, userID, recordID string, date time.Time) error {
	if recordID != "" {
		tag, err := s.db.Exec(ctx, `DELETE FROM running_records WHERE id=$1 AND user_id=$2`, recordID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			return nil
		}
	}
	if date.IsZero() {
		return ErrRecordNotFound
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM running_records WHERE user_id=$1 AND started_at=$2`, userID, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// lineStringWKT renders a path as a PostGIS linestring. A single fix is
// doubled because a one-point linestring is not valid geometry.
func lineStringWKT(path []geo.Position) string {
	if len(path) == 0 {
		return "LINESTRING EMPTY"
	}
	if len(path) == 1 {
		path = []geo.Position{path[0], path[0]}
	}
	var b strings.Builder
	b.WriteString("LINESTRING(")
	for i, p := range path {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%g %g", p.Lng, p.Lat)
	}
	b.WriteString(")")
	return b.String()
}

func parseLineStringWKT(wkt string) []geo.Position {
	wkt = strings.TrimSpace(wkt)
	if !strings.HasPrefix(wkt, "LINESTRING(") || !strings.HasSuffix(wkt, ")") {
		return nil
	}
	body := wkt[len("LINESTRING(") : len(wkt)-1]
	var path []geo.Position
	for _, pair := range strings.Split(body, ",") {
		fields := strings.Fields(strings.TrimSpace(pair))
		if len(fields) != 2 {
			continue
		}
		lng, err1 := strconv.ParseFloat(fields[0], 64)
		lat, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		path = append(path, geo.Position{Lat: lat, Lng: lng})
	}
	return path
}
