// Command migrate manages the gigbook database schema.
//
// Usage:
//
//	migrate [up]       apply every pending migration
//	migrate down [n]   revert the last n migrations (default 1)
//	migrate status     list pending migrations
//	migrate seed       apply migrations, then load demo data into an empty database
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/justestif/gigbook/internal/booking"
	"github.com/justestif/gigbook/internal/config"
	"github.com/justestif/gigbook/internal/db"
	"github.com/justestif/gigbook/internal/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	log := logging.Setup(os.Stderr, cfg.LogFormat, level).With("component", "migrate")

	command := "up"
	if len(args) > 0 {
		command = args[0]
	}

	ctx := context.Background()
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	switch command {
	case "up":
		n, err := database.Migrate(ctx, db.Up, 0)
		if err != nil {
			return err
		}
		log.Info("applied migrations", "count", n)

	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps < 1 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
		}
		n, err := database.Migrate(ctx, db.Down, steps)
		if err != nil {
			return err
		}
		log.Info("reverted migrations", "count", n)

	case "status":
		pending, err := database.PendingMigrations(ctx)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			log.Info("schema is up to date")
			return nil
		}
		for _, id := range pending {
			fmt.Println(id)
		}

	case "seed":
		if _, err := database.Migrate(ctx, db.Up, 0); err != nil {
			return err
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		seeded, err := database.Seed(ctx, booking.WallClock(time.Now(), loc))
		if err != nil {
			return err
		}
		if !seeded {
			log.Info("database already has data, skipping seed")
			return nil
		}
		log.Info("seeded demo data")

	default:
		return fmt.Errorf("unknown command %q (want up, down, status or seed)", command)
	}
	return nil
}
