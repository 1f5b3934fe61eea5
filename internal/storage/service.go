package storage

import (
	"context"

	"backend-runhub/internal/db"

	"github.com/google/uuid"
)

// Object kinds accepted by the upload endpoint.
const (
	KindAvatar        = "avatar"
	KindRouteSnapshot = "route_snapshot"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) SaveObject(ctx context.Context, userID, url, kind string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO media_objects (id, user_id, url, kind)
		VALUES ($1,$2,$3,$4)
	`, id, userID, url, kind)
	if err != nil {
		return "", err
	}

	if kind == KindAvatar {
		if _, err := s.db.Exec(ctx, `
			UPDATE users SET avatar_url = $1, updated_at = NOW() WHERE id = $2
		`, url, userID); err != nil {
			return "", err
		}
	}
	return id, nil
}
