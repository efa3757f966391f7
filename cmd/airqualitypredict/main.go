package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"airqualitypredict/internal/airquality"
	httpapi "airqualitypredict/internal/api/http"
	"airqualitypredict/internal/config"
	"airqualitypredict/internal/inference"
	"airqualitypredict/internal/model"
	"airqualitypredict/internal/source"
	"airqualitypredict/internal/train"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: airqualitypredict <command> [flags]

commands:
  collect     fetch raw PM2.5 measurements (use -sample to skip the API)
  preprocess  aggregate, build features and assemble the dataset
  train       fit the model and save the artifact
  serve       run the prediction API
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	switch os.Args[1] {
	case "collect":
		runCollect(cfg, os.Args[2:])
	case "preprocess":
		runPreprocess(cfg)
	case "train":
		runTrain(cfg)
	case "serve":
		runServe(cfg)
	default:
		usage()
		os.Exit(2)
	}
}

func runCollect(cfg *config.AppConfig, args []string) {
	fs := flag.NewFlagSet("collect", flag.ExitOnError)
	sample := fs.Bool("sample", false, "generate synthetic data instead of calling the OpenAQ API")
	fs.Parse(args)

	synthetic := source.NewSyntheticSource(cfg.DateFrom, cfg.DateTo, cfg.SampleLocation, cfg.SampleSeed)

	var primary source.Source
	if !*sample {
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		primary = source.NewOpenAQSource(httpClient, source.OpenAQConfig{
			BaseURL:   cfg.OpenAQBaseURL,
			City:      cfg.City,
			Country:   cfg.Country,
			Parameter: cfg.Parameter,
			DateFrom:  cfg.DateFrom,
			DateTo:    cfg.DateTo,
		})
	}

	collector := source.NewCollector(primary, synthetic)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CollectTimeout)
	defer cancel()

	measurements, outcome, err := collector.Collect(ctx)
	if err != nil {
		log.Fatalf("collect failed: %v", err)
	}
	log.Printf("collected %d measurements (%s)", len(measurements), outcome)

	if err := source.WriteRaw(cfg.RawDataPath, measurements); err != nil {
		log.Fatalf("failed to save raw data: %v", err)
	}
	log.Printf("saved raw data to %s", cfg.RawDataPath)
}

func runPreprocess(cfg *config.AppConfig) {
	measurements, err := source.ReadRaw(cfg.RawDataPath)
	if err != nil {
		log.Fatalf("failed to load raw data: %v", err)
	}
	log.Printf("loaded %d raw measurements", len(measurements))

	daily := airquality.AggregateDaily(measurements)
	log.Printf("aggregated to %d daily records", len(daily))

	rows := airquality.BuildFeatures(daily)
	ds := airquality.Assemble(rows)

	if err := airquality.WriteDataset(cfg.ProcessedDataPath, ds); err != nil {
		log.Fatalf("failed to save processed dataset: %v", err)
	}
	log.Printf("saved %d processed samples to %s", ds.Len(), cfg.ProcessedDataPath)
}

func runTrain(cfg *config.AppConfig) {
	ds, err := airquality.ReadDataset(cfg.ProcessedDataPath)
	if err != nil {
		log.Fatalf("failed to load processed dataset: %v", err)
	}
	log.Printf("loaded %d samples, %d features", ds.Len(), len(airquality.FeatureColumns))

	trainSet, testSet := ds.SplitChronological(cfg.TestFraction)
	log.Printf("train: %d samples (older data)", trainSet.Len())
	log.Printf("test:  %d samples (newer data)", testSet.Len())

	regressor := model.NewRidge(cfg.RidgeLambda)
	trainer := train.New(regressor, cfg.R2GapThreshold)

	report, err := trainer.Run(trainSet, testSet)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}
	report.Log()

	if err := model.Save(cfg.ModelPath, regressor); err != nil {
		log.Fatalf("failed to save model: %v", err)
	}
	log.Printf("model saved to %s", cfg.ModelPath)
}

func runServe(cfg *config.AppConfig) {
	// Load the model once, before any request is accepted. A missing or
	// corrupt artifact leaves the process serving in a degraded state that
	// /health reports; it is not a crash.
	var infCtx *inference.Context
	if regressor, err := model.Load(cfg.ModelPath); err != nil {
		log.Printf("WARN: no usable model at %s (%v); serving degraded", cfg.ModelPath, err)
		infCtx = inference.NewContext(cfg.City, nil)
	} else {
		log.Printf("model loaded from %s", cfg.ModelPath)
		infCtx = inference.NewContext(cfg.City, regressor)
	}

	app := fiber.New(fiber.Config{
		AppName:               "airqualitypredict",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, infCtx)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
