package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Version tag stamped on every saved analysis. Bump when the rating
// rubric changes enough that old ratings are no longer comparable.
const AnalysisVersion = "2.3-signature"

const (
	TestPromptsFile    = "test_prompts.json"
	ProfileAnalysesDir = "profile_analyses"
	ProfileResultsDir  = "profile_results"
)

type Config struct {
	Port string
	Mode string

	GeminiAPIKey string
	GeminiModel  string

	UseS3     bool
	S3Bucket  string
	S3Prefix  string
	AWSRegion string

	DataDir string

	// Image processing settings.
	MaxImageSize  int
	JPEGQuality   int
	ThumbnailSize int

	// Minimum ratings before a profile DNA summary is generated.
	MinRatingsForDNA int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:             envString("PORT", "8080"),
		Mode:             envString("APP_MODE", "dev"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envString("GEMINI_MODEL", "gemini-2.5-flash"),
		UseS3:            envBool("USE_S3", false),
		S3Bucket:         os.Getenv("S3_BUCKET_NAME"),
		S3Prefix:         os.Getenv("S3_PREFIX"),
		AWSRegion:        envString("AWS_REGION", "us-east-1"),
		DataDir:          envString("DATA_DIR", "."),
		MaxImageSize:     envInt("MAX_IMAGE_SIZE", 1024),
		JPEGQuality:      envInt("JPEG_QUALITY", 90),
		ThumbnailSize:    envInt("THUMBNAIL_SIZE", 512),
		MinRatingsForDNA: envInt("MIN_RATINGS_FOR_DNA", 10),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if cfg.UseS3 && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME must be set when USE_S3 is enabled")
	}

	return cfg, nil
}

func envString(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func envInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envBool(name string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	if v == "" {
		return def
	}
	switch v {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
