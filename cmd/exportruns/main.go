// exportruns fetches the run records of one experiment run, resolves their
// traces and writes the combined result to a JSON file. Optionally it
// archives the export to Postgres and renders an HTML report of the outputs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"prompt_ops/pkg/core/config"
	"prompt_ops/pkg/core/experiment"
	"prompt_ops/pkg/core/langfuse"
	"prompt_ops/pkg/core/store"
	"prompt_ops/pkg/core/utils"
)

func main() {
	envPath := flag.String("env", ".env", "path to env file")
	datasetName := flag.String("dataset", "", "dataset name")
	runName := flag.String("run", "", "experiment (run) name")
	limit := flag.Int("limit", 100, "max run items to fetch")
	rpm := flag.Int("rpm", 25, "max trace requests per minute")
	outPath := flag.String("out", "run_export.json", "output JSON file")
	archive := flag.Bool("archive", false, "also archive the export to Postgres")
	htmlPath := flag.String("html", "", "optional HTML report file")
	flag.Parse()

	if *datasetName == "" || *runName == "" {
		log.Fatal("Error: -dataset and -run are required.")
	}

	config.Load(*envPath)
	ctx := context.Background()

	runner := experiment.NewRunner(langfuse.NewClient(config.FromEnv()))
	traces, err := runner.Export(ctx, *datasetName, *runName, *limit, *rpm)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	data, err := json.MarshalIndent(traces, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal export: %v", err)
	}
	if err := os.WriteFile(*outPath, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *outPath, err)
	}
	fmt.Printf("Exported %d run traces to %s\n", len(traces), *outPath)

	if *archive {
		if err := store.InitDB(ctx); err != nil {
			log.Fatalf("Failed to init database: %v", err)
		}
		defer store.Close()
		if err := store.NewRunRepo().Archive(ctx, *datasetName, *runName, traces); err != nil {
			log.Fatalf("Failed to archive run: %v", err)
		}
		fmt.Println("Archived run to Postgres.")
	}

	if *htmlPath != "" {
		var md strings.Builder
		fmt.Fprintf(&md, "# Run %s (%s)\n", *runName, *datasetName)
		for _, trace := range traces {
			fmt.Fprintf(&md, "\n## Item %s\n\n%v\n", trace.DatasetItemID, trace.Output)
		}
		html, err := utils.RenderHTML(md.String())
		if err != nil {
			log.Fatalf("Failed to render report: %v", err)
		}
		if err := os.WriteFile(*htmlPath, []byte(html), 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", *htmlPath, err)
		}
		fmt.Printf("Wrote HTML report to %s\n", *htmlPath)
	}
}
