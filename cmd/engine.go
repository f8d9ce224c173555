package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/face-clock/internal/attendance"
	"github.com/kozaktomas/face-clock/internal/attendance/postgres"
	"github.com/kozaktomas/face-clock/internal/config"
	"github.com/kozaktomas/face-clock/internal/embedding"
)

// openEngine wires the engine against PostgreSQL: connection pool,
// migrations, repositories. The returned cleanup closes the pool.
func openEngine(ctx context.Context, cfg *config.Config) (*attendance.Engine, func(), error) {
	pool, err := postgres.NewPool(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	codec := embedding.NewCodec(cfg.Matching.Dim)
	matcher := embedding.NewMatcher(cfg.Matching.Dim)
	workers := postgres.NewWorkerRepository(pool, codec, matcher, cfg.Matching.Tolerance)
	events := postgres.NewEventRepository(pool)

	engine := attendance.NewEngine(workers, events, matcher, cfg.Matching.Tolerance)
	cleanup := func() { _ = pool.Close() }
	return engine, cleanup, nil
}

// reportLocation loads the configured civil timezone for rendering event
// timestamps, falling back to UTC.
func reportLocation(cfg *config.Config) *time.Location {
	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		fmt.Printf("Warning: unknown timezone %q, falling back to UTC\n", cfg.Report.Timezone)
		return time.UTC
	}
	return loc
}
