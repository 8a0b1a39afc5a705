// Command jobsearch runs one-shot searches and the matching helpers from the terminal.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
