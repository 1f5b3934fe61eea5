package friend

import (
	"context"

	"backend-runhub/internal/db"
)

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

func (s *Service) Add(ctx context.Context, userID, friendID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_friends (user_id, friend_id)
		VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, userID, friendID)
	return err
}

func (s *Service) Remove(ctx context.Context, userID, friendID string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM user_friends WHERE user_id=$1 AND friend_id=$2
	`, userID, friendID)
	return err
}

func (s *Service) List(ctx context.Context, userID string) ([]Friendship, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id, friend_id, created_at
		FROM user_friends WHERE user_id=$1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []Friendship
	for rows.Next() {
		var f Friendship
		if err := rows.Scan(&f.UserID, &f.FriendID, &f.CreatedAt); err != nil {
			return nil, err
		}
		friends = append(friends, f)
	}
	return friends, nil
}

// CountFriends feeds the three-friends badge check.
func (s *Service) CountFriends(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_friends WHERE user_id=$1`, userID).Scan(&count)
	return count, err
}
