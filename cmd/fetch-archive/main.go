package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"smartflow/internal/fetch"
	"smartflow/internal/ingest"
)

// fetch-archive downloads the bundled data archive to disk for offline use
// with the cli/demo binaries.
func main() {
	var (
		baseURL = flag.String("base-url", "", "Archive base URL (or ARCHIVE_BASE_URL)")
		path    = flag.String("path", "/bundle.zip", "Archive path relative to base URL")
		output  = flag.String("output", "data.zip", "Output file path")
	)
	flag.Parse()

	if *baseURL == "" {
		*baseURL = os.Getenv("ARCHIVE_BASE_URL")
	}
	if *baseURL == "" {
		log.Fatal("either --base-url or ARCHIVE_BASE_URL is required")
	}

	client := fetch.NewClient(*baseURL)
	progress := func(phase ingest.Phase, percent float64, detail string) {
		if percent >= 0 {
			fmt.Printf("\r%-9s %5.1f%%", phase, percent)
		} else {
			fmt.Printf("\r%-9s ...", phase)
		}
	}

	data, err := client.FetchArchive(context.Background(), *path, progress)
	fmt.Println()
	if err != nil {
		log.Fatalf("fetch failed: %v", err)
	}

	if err := os.WriteFile(*output, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", *output, err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", *output, len(data))
}
