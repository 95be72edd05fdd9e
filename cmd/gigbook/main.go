// Command gigbook runs the venue, artist and show booking web application.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/justestif/gigbook/internal/availability"
	"github.com/justestif/gigbook/internal/booking"
	"github.com/justestif/gigbook/internal/config"
	"github.com/justestif/gigbook/internal/db"
	"github.com/justestif/gigbook/internal/logging"
	"github.com/justestif/gigbook/internal/metrics"
	"github.com/justestif/gigbook/internal/web"
	webfs "github.com/justestif/gigbook/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := logging.Setup(os.Stderr, cfg.LogFormat, level)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	pending, err := database.PendingMigrations(ctx)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		logger.Warn("database has unapplied migrations; run the migrate command", "pending", pending)
	}

	// Create sub-filesystems for templates and static files
	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	m := metrics.New()
	bookings := booking.New(database,
		booking.WithChecker(availability.New(availability.WithRequireAvailable(cfg.BookingRequireAvailable))),
		booking.WithRecorder(m),
		booking.WithLogger(logger.With(slog.String("component", "booking"))),
		booking.WithLocation(loc),
		booking.WithRecentLimit(cfg.RecentLimit),
	)

	server, err := web.NewServer(web.ServerConfig{
		Addr:        cfg.ServerAddr,
		TemplatesFS: templates,
		StaticFS:    static,
		Bookings:    bookings,
		Ping:        database.Ping,
		Metrics:     m,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}
