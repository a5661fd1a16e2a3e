// promptrun fetches a named prompt, fills it with the given inputs and runs
// it against the LLM provider, printing the raw response.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"prompt_ops/pkg/core/config"
	"prompt_ops/pkg/core/langfuse"
	"prompt_ops/pkg/core/llm"
	"prompt_ops/pkg/core/prompt"
)

func main() {
	envPath := flag.String("env", ".env", "path to env file")
	name := flag.String("prompt", "", "prompt name")
	version := flag.Int("version", 0, "prompt version (0 = latest)")
	inputsJSON := flag.String("inputs", "{}", "inputs as a JSON object, or @file")
	dumpPath := flag.String("dump", "", "optional file to dump the raw prompt messages to")
	flag.Parse()

	if *name == "" {
		log.Fatal("Error: -prompt is required.")
	}

	config.Load(*envPath)
	cfg := config.FromEnv()

	raw := []byte(*inputsJSON)
	if len(*inputsJSON) > 1 && (*inputsJSON)[0] == '@' {
		var err error
		raw, err = os.ReadFile((*inputsJSON)[1:])
		if err != nil {
			log.Fatalf("Failed to read inputs file: %v", err)
		}
	}
	var inputs map[string]interface{}
	if err := json.Unmarshal(raw, &inputs); err != nil {
		log.Fatalf("Failed to parse inputs: %v", err)
	}

	ctx := context.Background()
	client := langfuse.NewClient(cfg)
	runner, err := prompt.NewRunner(ctx, client, &llm.OpenAIProvider{APIKey: cfg.OpenAIKey}, *name, *version)
	if err != nil {
		log.Fatalf("Failed to fetch prompt: %v", err)
	}

	if *dumpPath != "" {
		messages, err := runner.Messages()
		if err != nil {
			log.Fatalf("Failed to decode prompt messages: %v", err)
		}
		data, _ := json.MarshalIndent(messages, "", "  ")
		if err := os.WriteFile(*dumpPath, data, 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", *dumpPath, err)
		}
		fmt.Printf("Dumped prompt messages to %s\n", *dumpPath)
	}

	response, err := runner.Run(ctx, inputs, nil)
	if err != nil {
		log.Fatalf("Prompt run failed: %v", err)
	}
	fmt.Println(response)
}
