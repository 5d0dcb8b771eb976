package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"trivia-api/internal/config"
	"trivia-api/internal/database"
	"trivia-api/internal/logging"
	"trivia-api/internal/opentdb"
	"trivia-api/internal/seed"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	amount := flag.Int("amount", 10, "number of OpenTriviaDB questions to import (max 50, 0 for categories only)")
	flag.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "database driver (sqlite or postgres)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	store, err := database.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	client := opentdb.NewClientWithURL(cfg.OpenTDBURL, &http.Client{Timeout: 15 * time.Second})
	seeder := seed.NewSeeder(store, store, client.FetchQuestions, logger)

	ctx := context.Background()
	if *amount <= 0 {
		_, err := seeder.EnsureCategories(ctx)
		return err
	}

	imported, err := seeder.ImportQuestions(ctx, *amount)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d questions\n", imported)
	return nil
}
