package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/claude/liftlens/internal/config"
	"github.com/claude/liftlens/internal/ingest"
	"github.com/claude/liftlens/internal/ingest/alpha"
	"github.com/claude/liftlens/internal/ingest/csvlog"
	"github.com/claude/liftlens/internal/insights"
	"github.com/claude/liftlens/internal/models"
	"github.com/claude/liftlens/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to a workout export (required)")
	source := flag.String("source", "csv", "export format: csv or alpha")
	userID := flag.Int("user", 1, "user the sets belong to")
	report := flag.Bool("report", false, "print analytics and predictions JSON for the file without a database")
	bodyweight := flag.Float64("bodyweight", 0, "bodyweight in kg for -report (0 = unknown)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlens-import -file export.csv [-source csv|alpha] [-config config.yaml] [-user N] [-report]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*filePath)
	if err != nil {
		log.Error("failed to open export", "path", *filePath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if *report {
		rows, err := parseRows(*source, f)
		if err != nil {
			log.Error("parse failed", "error", err)
			os.Exit(1)
		}
		profile := models.UserProfile{UserID: *userID}
		if *bodyweight > 0 {
			profile.BodyweightKg = bodyweight
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(insights.Run(rows, profile, time.Now())); err != nil {
			log.Error("encoding report", "error", err)
			os.Exit(1)
		}
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	start := time.Now()
	var result *ingest.Result
	switch *source {
	case "csv":
		result, err = csvlog.NewProvider(db, log).Ingest(ctx, f, *userID)
	case "alpha":
		result, err = alpha.NewProvider(db, log).Ingest(ctx, f, *userID)
	default:
		err = fmt.Errorf("unknown source %q", *source)
	}
	durationMs := int(time.Since(start).Milliseconds())

	entry := storage.ImportLog{UserID: *userID, Source: *source, Status: "success", DurationMs: &durationMs}
	if err != nil {
		entry.Status = "error"
		msg := err.Error()
		entry.ErrorMessage = &msg
	} else {
		entry.ImportID = &result.ImportID
		entry.RowsReceived = result.RowsReceived
		entry.RowsInserted = result.RowsInserted
		entry.RowsRejected = result.RowsRejected
	}
	if _, logErr := db.InsertImportLog(ctx, entry); logErr != nil {
		log.Warn("failed to log import", "error", logErr)
	}

	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	log.Info("import complete",
		"import_id", result.ImportID,
		"rows_received", result.RowsReceived,
		"rows_inserted", result.RowsInserted,
		"rows_replaced", result.RowsReplaced,
		"rows_rejected", result.RowsRejected,
	)
	for _, rej := range result.Rejected {
		log.Warn("rejected row", "row", rej.Index, "reason", rej.Reason)
	}
}

func parseRows(source string, r io.Reader) ([]models.RawRow, error) {
	switch source {
	case "csv":
		return csvlog.Parse(r)
	case "alpha":
		sessions, err := alpha.Parse(r)
		if err != nil {
			return nil, err
		}
		return alpha.ToRawRows(sessions), nil
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}
