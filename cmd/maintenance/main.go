package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/savorly/recommender/internal/api/middleware"
	"github.com/savorly/recommender/internal/app"
	"github.com/savorly/recommender/internal/config"
	"github.com/savorly/recommender/internal/logger"
	"github.com/savorly/recommender/internal/source/jsonfile"
)

var jobs = []string{"cleanup-preferences", "cleanup-likes", "fetch-weather", "load-model", "clear-cache", "seed-catalogue", "issue-token"}

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "recommender-maintenance",
	})
	logger.SetDefaultLogger(appLogger)

	job := flag.String("job", "", "Job to run: "+strings.Join(jobs, ", "))
	configPath := flag.String("config", "", "Path to config file")
	userID := flag.Uint("user", 0, "User ID for issue-token")
	tokenTTL := flag.Duration("ttl", 24*time.Hour, "Token lifetime for issue-token")
	dataFile := flag.String("file", "", "Restaurant dataset (.json or .jsonl) for seed-catalogue")
	batchSize := flag.Int("batch", 100, "Batch size for seed-catalogue")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	if *job == "issue-token" {
		if *userID == 0 {
			appLogger.Fatal("-user is required for issue-token")
		}
		token, err := middleware.IssueToken(cfg.Server.JWTSecret, *userID, *tokenTTL)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to issue token")
		}
		fmt.Println(token)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	a, err := app.New(ctx, cfg)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize application")
	}
	defer a.Close()

	ctx = logger.SetJob(ctx, *job)
	start := time.Now()
	if err := run(ctx, a, *job, jobOptions{dataFile: *dataFile, batchSize: *batchSize}); err != nil {
		logger.FromContext(ctx).WithError(err).Error("Job failed")
		a.Close()
		os.Exit(1)
	}
	logger.With(logger.Fields{logger.FieldDurationMs: time.Since(start).Milliseconds()}).
		Info(ctx, "Job completed")
}

type jobOptions struct {
	dataFile  string
	batchSize int
}

func run(ctx context.Context, a *app.App, job string, opts jobOptions) error {
	log := logger.FromContext(ctx)

	switch job {
	case "cleanup-preferences":
		res, err := a.Maintenance.CleanupPreferences(ctx)
		if err != nil {
			return err
		}
		log.WithFields(logger.Fields{
			"removed":        res.Removed,
			"affected_users": len(res.AffectedUsers),
		}).Info("Deleted old preferences")
	case "cleanup-likes":
		res, err := a.Maintenance.CleanupLikes(ctx)
		if err != nil {
			return err
		}
		log.WithFields(logger.Fields{
			"removed":        res.Removed,
			"affected_users": len(res.AffectedUsers),
		}).Info("Deleted old liked restaurants")
	case "fetch-weather":
		row, err := a.Weather.Fetch(ctx)
		if err != nil {
			return err
		}
		log.WithFields(logger.Fields{
			"temperature":   row.Temperature,
			"dewpoint":      row.Dewpoint,
			"precipitation": row.Precipitation,
		}).Info("Stored weather observation")
	case "load-model":
		model, err := a.Busyness.LoadModel(ctx)
		if err != nil {
			return err
		}
		log.WithField("model", model.Name).Info("Prediction model cached")
	case "clear-cache":
		if err := a.Maintenance.ClearCache(ctx); err != nil {
			return err
		}
		log.Info("Cache cleared")
	case "seed-catalogue":
		if opts.dataFile == "" {
			return fmt.Errorf("-file is required for seed-catalogue")
		}
		src := jsonfile.NewAdapter(opts.dataFile)
		stats, err := a.Catalogue.Import(ctx, src, opts.batchSize)
		if err != nil {
			return err
		}
		log.WithFields(logger.Fields{
			"restaurants": stats.Restaurants,
			"preferences": stats.Preferences,
			"skipped":     src.Skipped(),
		}).Info("Catalogue seeded")
	default:
		return fmt.Errorf("unknown job %q, expected one of: %s", job, strings.Join(jobs, ", "))
	}
	return nil
}
