package friend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

var errFriend = errors.New("friend error")

func TestAddRemoveListCount(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	svc := NewService(mock)

	mock.ExpectExec(`INSERT INTO user_friends`).
		WithArgs("user-1", "user-2").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	if err := svc.Add(context.Background(), "user-1", "user-2"); err != nil {
		t.Fatalf("add: %v", err)
	}

	mock.ExpectQuery(`SELECT user_id, friend_id, created_at`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "friend_id", "created_at"}).
			AddRow("user-1", "user-2", time.Now()))
	friends, err := svc.List(context.Background(), "user-1")
	if err != nil || len(friends) != 1 {
		t.Fatalf("list: %v", err)
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM user_friends`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	count, err := svc.CountFriends(context.Background(), "user-1")
	if err != nil || count != 3 {
		t.Fatalf("count: %v (%d)", err, count)
	}

	mock.ExpectExec(`DELETE FROM user_friends`).
		WithArgs("user-1", "user-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if err := svc.Remove(context.Background(), "user-1", "user-2"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT user_id, friend_id, created_at`).
		WithArgs("user-1").
		WillReturnError(errFriend)

	svc := NewService(mock)
	if _, err := svc.List(context.Background(), "user-1"); err == nil {
		t.Fatalf("expected error")
	}
}
