package database

import (
	"context"
	"path/filepath"
	"testing"

	"trivia-api/internal/config"
)

func TestOpenSQLite(t *testing.T) {
	store, err := Open(&config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "trivia.db"),
	}, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	count, err := store.CountQuestions(context.Background())
	if err != nil || count != 0 {
		t.Fatalf("CountQuestions = (%d, %v), want (0, nil)", count, err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(&config.Config{DBDriver: "oracle"}, nil); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
