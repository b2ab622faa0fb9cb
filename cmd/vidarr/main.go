// Package main is the entrypoint of Vidarr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"vidarr/internal/cfg"
	"vidarr/internal/database"
	"vidarr/internal/repo"
	"vidarr/internal/utils/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer logging.CloseLogFile()

	db, err := database.InitDB(dbPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Vidarr exiting with error: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.DB.Close(); err != nil {
			logging.E("Failed to close database: %v", err)
		}
	}()

	stores := repo.InitStores(db.DB)

	if err := cfg.InitCommands(ctx, stores); err != nil {
		fmt.Fprintf(os.Stderr, "Vidarr exiting with error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Execute(); err != nil {
		logging.E("%v", err)
		os.Exit(1)
	}
}

// dbPath resolves the database path before cobra parses flags, since the
// stores must exist when commands are built.
func dbPath() string {
	path := os.Getenv("VIDARR_DB_PATH")

	for i, a := range os.Args {
		switch {
		case a == "--db-path" && i+1 < len(os.Args):
			path = os.Args[i+1]
		case strings.HasPrefix(a, "--db-path="):
			path = strings.TrimPrefix(a, "--db-path=")
		}
	}

	if path == "" {
		path = "vidarr.db"
	}
	return path
}
