package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/telephonyinc/incident-forecaster/internal/artifacts"
	"github.com/telephonyinc/incident-forecaster/internal/dataset"
	"github.com/telephonyinc/incident-forecaster/internal/model"
	"github.com/telephonyinc/incident-forecaster/internal/schema"
)

// The trainer reads historical incidents from CSV, freezes the feature
// schema, fits the scaler and model, and writes all three artifacts to the
// directory the server loads from.
func main() {
	var (
		dataPath = flag.String("data", "incident_data.csv", "path to the historical incident CSV")
		outDir   = flag.String("out", "./data", "directory to write artifacts to")
		lr       = flag.Float64("lr", 0, "learning rate override (0 uses the default)")
		epochs   = flag.Int("epochs", 0, "epoch override (0 uses the default)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	start := time.Now()

	records, err := dataset.Load(*dataPath)
	if err != nil {
		slog.Error("Failed to load training data", "error", err, "path", *dataPath)
		os.Exit(1)
	}
	slog.Info("Training data loaded", "records", len(records), "path", *dataPath)

	set, err := schema.Build(records)
	if err != nil {
		slog.Error("Failed to build feature schema", "error", err)
		os.Exit(1)
	}
	slog.Info("Feature schema frozen",
		"columns", set.Schema.Len(),
		"assignment_groups", len(set.Schema.Groups()))

	scaler := &model.MinMaxScaler{}
	if err := scaler.Fit(set.X); err != nil {
		slog.Error("Failed to fit scaler", "error", err)
		os.Exit(1)
	}

	scaled, err := scaler.TransformMatrix(set.X)
	if err != nil {
		slog.Error("Failed to scale training features", "error", err)
		os.Exit(1)
	}

	cfg := model.DefaultTrainConfig()
	if *lr > 0 {
		cfg.LearningRate = *lr
	}
	if *epochs > 0 {
		cfg.Epochs = *epochs
	}

	m, err := model.Train(scaled, set.Y, cfg)
	if err != nil {
		slog.Error("Training failed", "error", err)
		os.Exit(1)
	}

	mse, err := model.MSE(m, scaled, set.Y)
	if err != nil {
		slog.Error("Failed to evaluate model", "error", err)
		os.Exit(1)
	}

	store := artifacts.NewStore(*outDir)
	if err := store.Save(set.Schema, scaler, m); err != nil {
		slog.Error("Failed to save artifacts", "error", err, "dir", *outDir)
		os.Exit(1)
	}

	slog.Info("Training complete",
		"mse", mse,
		"learning_rate", cfg.LearningRate,
		"epochs", cfg.Epochs,
		"artifacts_dir", *outDir,
		"duration", time.Since(start).String())
}
