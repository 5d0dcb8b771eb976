package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"trivia-api/internal/cli"
)

func main() {
	defaultServer := os.Getenv("TRIVIA_SERVER_URL")
	if defaultServer == "" {
		defaultServer = "http://127.0.0.1:8080"
	}

	server := flag.String("server", defaultServer, "trivia-api base URL")
	rounds := flag.Int("rounds", 5, "questions per quiz")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP request timeout")
	flag.Parse()

	cfg := cli.Config{
		ServerURL:   *server,
		Rounds:      *rounds,
		HTTPTimeout: *timeout,
	}
	if err := cli.Run(context.Background(), os.Stdin, os.Stdout, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
