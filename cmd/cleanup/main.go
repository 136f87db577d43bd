// Command cleanup permanently removes trashed cases, invoices, partners and
// companies whose deleted_at is older than trash.retention_days, together
// with their dependent rows. It is intended to be invoked by an external
// cron job, not as an in-process goroutine.
//
// Kinds are purged independently: a failure in one kind does not roll back
// the others, and the job exits 1 so the scheduler retries.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/heartmarshall/caseflow-backend/internal/app"
	"github.com/heartmarshall/caseflow-backend/internal/config"
	"github.com/heartmarshall/caseflow-backend/internal/service/trash"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log, "cleanup")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	svcs, err := app.NewServices(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer svcs.Close()

	threshold := time.Now().Add(-cfg.Trash.Retention())

	res, err := svcs.Trash.PurgeOlderThan(ctx, threshold)

	var partial *trash.PartialFailureError
	if errors.As(err, &partial) {
		res = partial.Result
	}
	if res != nil {
		for table, n := range res.Deleted {
			logger.Info("rows purged", slog.String("table", table.String()), slog.Int64("rows", n))
		}
	}

	if err != nil {
		logger.Error("retention purge failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("retention purge completed",
		slog.Int("purged", res.Total()),
		slog.Time("threshold", threshold),
		slog.Int("retention_days", cfg.Trash.RetentionDays),
	)
}
