package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/solefield/profile-tester/internal/api"
	"github.com/solefield/profile-tester/internal/config"
	"github.com/solefield/profile-tester/internal/logger"
	"github.com/solefield/profile-tester/internal/profiles"
	"github.com/solefield/profile-tester/internal/prompts"
	"github.com/solefield/profile-tester/internal/rater"
	"github.com/solefield/profile-tester/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Mode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	var backend storage.Backend
	if cfg.UseS3 {
		backend, err = storage.NewS3(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.AWSRegion)
		if err != nil {
			zlog.Fatal("failed to init S3 storage", "error", err.Error())
		}
		zlog.Info("using S3 storage", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
	} else {
		backend = storage.NewLocal(cfg.DataDir)
		zlog.Info("using local storage", "dir", cfg.DataDir)
	}

	if err := bootstrap(ctx, backend); err != nil {
		zlog.Fatal("failed to initialize data layout", "error", err.Error())
	}

	raterClient, err := rater.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		zlog.Fatal("failed to create Gemini client", "error", err.Error())
	}
	defer raterClient.Close()

	server := api.NewServer(
		zlog,
		cfg,
		backend,
		prompts.NewManager(backend),
		profiles.NewStore(backend),
		raterClient,
	)

	zlog.Info("profile tester starting", "port", cfg.Port, "model", cfg.GeminiModel)
	if err := server.Router().Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server failed", "error", err.Error())
	}
}

// bootstrap creates the data directories and an empty test prompts file
// on first run.
func bootstrap(ctx context.Context, backend storage.Backend) error {
	for _, dir := range []string{config.ProfileAnalysesDir, config.ProfileResultsDir} {
		if err := backend.EnsureDir(ctx, dir); err != nil {
			return err
		}
	}

	exists, err := backend.Exists(ctx, config.TestPromptsFile)
	if err != nil {
		return err
	}
	if !exists {
		return backend.WriteJSON(ctx, config.TestPromptsFile, []interface{}{})
	}
	return nil
}
