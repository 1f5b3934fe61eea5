package progress

import (
	"context"
	"errors"

	"backend-runhub/internal/db"
	"backend-runhub/internal/record"

	"github.com/jackc/pgx/v5"
)

type Badge string

const (
	BadgeFirstVisit   Badge = "first_visit"
	BadgeLevelTen     Badge = "level_ten"
	BadgeThreeFriends Badge = "three_friends"
)

var ErrUnknownBadge = errors.New("unknown badge")

const levelTenThreshold = 10
const threeFriendsThreshold = 3

// FriendCounter reports a user's friend count. Implemented by the friend
// service.
type FriendCounter interface {
	CountFriends(ctx context.Context, userID string) (int, error)
}

// RecordSource provides the record history missions are derived from.
// Implemented by the record service.
type RecordSource interface {
	ListAll(ctx context.Context, userID string) ([]record.Record, error)
}

type Profile struct {
	UserID string    `json:"user_id"`
	Level  LevelInfo `json:"level_info"`
	Badges []Badge   `json:"badges"`
}

type BadgeStatus struct {
	Badge       Badge `json:"badge"`
	Granted     bool  `json:"granted"`
	AlreadyHeld bool  `json:"already_held"`
}

type Service struct {
	db       db.Querier
	records  RecordSource
	friends  FriendCounter
	missions []Mission
}

func NewService(q db.Querier, records RecordSource, friends FriendCounter) *Service {
	return &Service{db: q, records: records, friends: friends, missions: DefaultMissions()}
}

// Profile returns the stored level/badge state, or the level-1 zero state for
// users with no row yet.
func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT level, current_exp, max_exp, first_visit_badge, level_ten_badge, three_friends_badge
		FROM user_profiles WHERE user_id=$1
	`, userID)

	profile := Profile{UserID: userID, Level: DefaultLevelInfo()}
	var firstVisit, levelTen, threeFriends bool
	err := row.Scan(&profile.Level.Level, &profile.Level.CurrentExp, &profile.Level.MaxExp,
		&firstVisit, &levelTen, &threeFriends)
	if errors.Is(err, pgx.ErrNoRows) {
		return profile, nil
	}
	if err != nil {
		return Profile{}, err
	}
	if firstVisit {
		profile.Badges = append(profile.Badges, BadgeFirstVisit)
	}
	if levelTen {
		profile.Badges = append(profile.Badges, BadgeLevelTen)
	}
	if threeFriends {
		profile.Badges = append(profile.Badges, BadgeThreeFriends)
	}
	return profile, nil
}

// AwardExperience applies a gain with level rollover and upserts the result.
func (s *Service) AwardExperience(ctx context.Context, userID string, gained int) (LevelInfo, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return LevelInfo{}, err
	}
	next := AddExperience(profile.Level, gained)

	_, err = s.db.Exec(ctx, `
		INSERT INTO user_profiles (user_id, level, current_exp, max_exp)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO UPDATE SET level=EXCLUDED.level, current_exp=EXCLUDED.current_exp, max_exp=EXCLUDED.max_exp
	`, userID, next.Level, next.CurrentExp, next.MaxExp)
	if err != nil {
		return LevelInfo{}, err
	}
	return next, nil
}

// Missions evaluates every mission against the user's full record history.
func (s *Service) Missions(ctx context.Context, userID string) ([]MissionProgress, error) {
	records, err := s.records.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]MissionProgress, 0, len(s.missions))
	for _, m := range s.missions {
		out = append(out, Evaluate(records, m))
	}
	return out, nil
}

// CheckBadge grants a one-shot badge when its condition holds. An already
// held badge short-circuits, so repeated checks never double-grant.
func (s *Service) CheckBadge(ctx context.Context, userID string, badge Badge) (BadgeStatus, error) {
	column, err := badgeColumn(badge)
	if err != nil {
		return BadgeStatus{}, err
	}

	status := BadgeStatus{Badge: badge}
	var held bool
	row := s.db.QueryRow(ctx, `SELECT COALESCE(`+column+`, false) FROM user_profiles WHERE user_id=$1`, userID)
	if err := row.Scan(&held); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return BadgeStatus{}, err
	}
	if held {
		status.AlreadyHeld = true
		return status, nil
	}

	qualified, err := s.qualifies(ctx, userID, badge)
	if err != nil {
		return BadgeStatus{}, err
	}
	if !qualified {
		return status, nil
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO user_profiles (user_id, level, current_exp, max_exp, `+column+`)
		VALUES ($1,$2,$3,$4,true)
		ON CONFLICT (user_id) DO UPDATE SET `+column+`=true
	`, userID, 1, 0, defaultMaxExp)
	if err != nil {
		return BadgeStatus{}, err
	}
	status.Granted = true
	return status, nil
}

func (s *Service) qualifies(ctx context.Context, userID string, badge Badge) (bool, error) {
	switch badge {
	case BadgeFirstVisit:
		return true, nil
	case BadgeLevelTen:
		profile, err := s.Profile(ctx, userID)
		if err != nil {
			return false, err
		}
		return profile.Level.Level >= levelTenThreshold, nil
	case BadgeThreeFriends:
		count, err := s.friends.CountFriends(ctx, userID)
		if err != nil {
			return false, err
		}
		return count >= threeFriendsThreshold, nil
	}
	return false, ErrUnknownBadge
}

func badgeColumn(badge Badge) (string, error) {
	switch badge {
	case BadgeFirstVisit:
		return "first_visit_badge", nil
	case BadgeLevelTen:
		return "level_ten_badge", nil
	case BadgeThreeFriends:
		return "three_friends_badge", nil
	}
	return "", ErrUnknownBadge
}
