// Command audit reports ratings that reference test prompts which no
// longer exist, and optionally removes them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/solefield/profile-tester/internal/profiles"
	"github.com/solefield/profile-tester/internal/prompts"
	"github.com/solefield/profile-tester/internal/storage"
)

func main() {
	cleanup := flag.Bool("cleanup", false, "remove orphaned ratings instead of just reporting them")
	flag.Parse()

	_ = godotenv.Load()

	ctx := context.Background()

	// The audit tool only needs the storage half of the configuration.
	var backend storage.Backend
	if os.Getenv("USE_S3") == "true" {
		bucket := os.Getenv("S3_BUCKET_NAME")
		if bucket == "" {
			log.Fatal("S3_BUCKET_NAME must be set when USE_S3 is enabled")
		}
		region := os.Getenv("AWS_REGION")
		if region == "" {
			region = "us-east-1"
		}
		var err error
		backend, err = storage.NewS3(ctx, bucket, os.Getenv("S3_PREFIX"), region)
		if err != nil {
			log.Fatalf("init S3 storage: %v", err)
		}
	} else {
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "."
		}
		backend = storage.NewLocal(dataDir)
	}

	manager := prompts.NewManager(backend)
	store := profiles.NewStore(backend)

	tests, err := manager.Load(ctx, "")
	if err != nil {
		log.Fatalf("load tests: %v", err)
	}
	validTitles := make(map[string]bool, len(tests))
	for _, t := range tests {
		validTitles[t.Title] = true
	}

	orphans, err := store.Orphans(ctx, validTitles)
	if err != nil {
		log.Fatalf("check orphans: %v", err)
	}

	if len(orphans) == 0 {
		fmt.Println("No orphaned ratings found.")
		return
	}

	total := 0
	for profileID, titles := range orphans {
		fmt.Printf("%s: %d orphaned ratings\n", profileID, len(titles))
		for _, title := range titles {
			fmt.Printf("  - %s\n", title)
		}
		total += len(titles)
	}
	fmt.Printf("\nTotal orphaned ratings across all profiles: %d\n", total)

	if !*cleanup {
		fmt.Println("Run with -cleanup to remove them.")
		return
	}

	removed, err := store.CleanupOrphans(ctx, validTitles)
	if err != nil {
		log.Fatalf("cleanup: %v", err)
	}
	fmt.Printf("Removed %d orphaned ratings.\n", removed)
}
