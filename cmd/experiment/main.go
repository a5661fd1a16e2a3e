// experiment runs a named prompt over every item of a named dataset and
// links one run record per item back to Langfuse.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"prompt_ops/pkg/core/config"
	"prompt_ops/pkg/core/experiment"
	"prompt_ops/pkg/core/langfuse"
	"prompt_ops/pkg/core/llm"
)

func main() {
	envPath := flag.String("env", ".env", "path to env file")
	name := flag.String("name", "", "experiment (run) name")
	promptName := flag.String("prompt", "", "prompt name")
	datasetName := flag.String("dataset", "", "dataset name")
	count := flag.Int("count", 0, "max items to run (0 = all)")
	rpm := flag.Int("rpm", 1000, "max requests per minute")
	registryPath := flag.String("registry", "", "optional provider registry YAML")
	flag.Parse()

	if *name == "" || *promptName == "" || *datasetName == "" {
		log.Fatal("Error: -name, -prompt and -dataset are required.")
	}

	config.Load(*envPath)
	cfg := config.FromEnv()

	var provider llm.Provider = &llm.OpenAIProvider{APIKey: cfg.OpenAIKey}
	if *registryPath != "" {
		regCfg, err := llm.LoadRegistryConfig(*registryPath)
		if err != nil {
			log.Fatalf("Failed to load provider registry: %v", err)
		}
		provider = llm.NewRegistry(regCfg, cfg).Provider(*promptName)
	}

	runner := experiment.NewRunner(langfuse.NewClient(cfg))
	err := runner.RunByNames(context.Background(), *name, *promptName, *datasetName, provider, experiment.Options{
		TestCount:         *count,
		RequestsPerMinute: *rpm,
	})
	if err != nil {
		log.Fatalf("Experiment failed: %v", err)
	}
	fmt.Printf("Experiment %s completed.\n", *name)
}
