package test_utils

import (
	"context"
	"testing"

	"github.com/fintrack/fintrack/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestUser is the fixed user seeded into repository test databases.
var TestUser = user.User{
	Id:          123,
	Uid:         "00000000-0000-0000-0000-000000000123",
	Username:    "test_user",
	DisplayName: "Test User",
}

// SeedTestUser inserts TestUser into the database and returns its id.
func SeedTestUser(t *testing.T, db *pgxpool.Pool) int {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO users (id, uid, username, display_name) VALUES ($1, $2, $3, $4)
		 ON CONFLICT DO NOTHING`,
		TestUser.Id, TestUser.Uid, TestUser.Username, TestUser.DisplayName,
	)
	if err != nil {
		t.Fatalf("failed to seed test user: %v", err)
	}
	return TestUser.Id
}
