// datasetgen creates a Langfuse dataset from a JSON items file and/or from
// scraped web pages (one item per URL).
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
	"prompt_ops/pkg/core/scrape"
)

func main() {
	envPath := flag.String("env", ".env", "path to env file")
	name := flag.String("name", "", "dataset name")
	description := flag.String("description", "", "dataset description")
	itemsPath := flag.String("items", "", "JSON file with an array of {input, expectedOutput} items")
	urls := flag.String("urls", "", "comma-separated page URLs to scrape into items")
	flag.Parse()

	if *name == "" {
		log.Fatal("Error: -name is required.")
	}

	config.Load(*envPath)
	ctx := context.Background()

	var items []langfuse.DatasetItem
	if *itemsPath != "" {
		data, err := os.ReadFile(*itemsPath)
		if err != nil {
			log.Fatalf("Failed to read items file: %v", err)
		}
		if err := json.Unmarshal(data, &items); err != nil {
			log.Fatalf("Failed to parse items file: %v", err)
		}
	}

	if *urls != "" {
		for _, pageURL := range strings.Split(*urls, ",") {
			pageURL = strings.TrimSpace(pageURL)
			if pageURL == "" {
				continue
			}
			input, err := scrape.PageToInput(ctx, pageURL)
			if err != nil {
				log.Fatalf("Failed to scrape %s: %v", pageURL, err)
			}
			items = append(items, langfuse.DatasetItem{Input: input})
			fmt.Printf("Scraped %s\n", pageURL)
		}
	}

	generator := experiment.NewGenerator(langfuse.NewClient(config.FromEnv()))
	err := generator.Generate(ctx, langfuse.Dataset{Name: *name, Description: *description}, items)
	if err != nil {
		log.Fatalf("Dataset generation failed: %v", err)
	}
	fmt.Printf("Created dataset %s with %d items.\n", *name, len(items))
}
