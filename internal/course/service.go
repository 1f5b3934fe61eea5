package course

import (
	"context"

	"backend-runhub/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

func (s *Service) Publish(ctx context.Context, input Course) (Course, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO courses (id, name, description, distance_km, start_location, path, created_by)
		VALUES ($1,$2,$3,$4, ST_SetSRID(ST_MakePoint($5,$6), 4326)::geography, ST_GeogFromText($7), $8)
		RETURNING created_at
	`, input.ID, input.Name, input.Description, input.DistanceKm, input.StartLng, input.StartLat, input.PathWKT, input.CreatedBy)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Course{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Course, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, description, distance_km, ST_Y(start_location::geometry), ST_X(start_location::geometry), ST_AsText(path), created_by, created_at
		FROM courses WHERE id=$1
	`, id)
	var c Course
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.DistanceKm, &c.StartLat, &c.StartLng, &c.PathWKT, &c.CreatedBy, &c.CreatedAt); err != nil {
		return Course{}, err
	}
	return c, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Course, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, distance_km, ST_Y(start_location::geometry), ST_X(start_location::geometry), ST_AsText(path), created_by, created_at
		FROM courses WHERE created_by=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCourses(rows)
}

// Nearby returns courses whose start point lies within radiusKm.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]Course, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, distance_km, ST_Y(start_location::geometry), ST_X(start_location::geometry), ST_AsText(path), created_by, created_at
		FROM courses
		WHERE ST_DWithin(start_location, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography, $3)
		ORDER BY created_at DESC
	`, lng, lat, radiusKm*1000)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCourses(rows)
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM courses WHERE id=$1 AND created_by=$2`, id, userID)
	return err
}

func scanCourses(rows pgx.Rows) ([]Course, error) {
	var courses []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.DistanceKm, &c.StartLat, &c.StartLng, &c.PathWKT, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}
