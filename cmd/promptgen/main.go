// promptgen creates (or versions) a prompt in Langfuse from a definition
// file. The file is HJSON, so definitions can carry comments:
//
//	{
//	  name: skill-matcher
//	  type: chat
//	  prompt: [
//	    {role: system, content: "You match skills. Schema: {json_schema_str}"}
//	    {role: user, content: "{job_description}"}
//	  ]
//	  config: {model: gpt-4.1-mini, temperature: 0}
//	  labels: [production]
//	}
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	hjson "github.com/hjson/hjson-go/v4"

	"prompt_ops/pkg/core/config"
	"prompt_ops/pkg/core/langfuse"
)

type promptDefinition struct {
	Name   string                 `json:"name"`
	Type   string                 `json:"type"`
	Prompt interface{}            `json:"prompt"`
	Config map[string]interface{} `json:"config"`
	Labels []string               `json:"labels"`
}

func main() {
	envPath := flag.String("env", ".env", "path to env file")
	defPath := flag.String("file", "", "path to HJSON prompt definition")
	flag.Parse()

	if *defPath == "" {
		log.Fatal("Error: -file is required.")
	}

	config.Load(*envPath)

	data, err := os.ReadFile(*defPath)
	if err != nil {
		log.Fatalf("Failed to read definition file: %v", err)
	}
	var def promptDefinition
	if err := hjson.Unmarshal(data, &def); err != nil {
		log.Fatalf("Failed to parse definition file: %v", err)
	}

	client := langfuse.NewClient(config.FromEnv())
	created, err := client.CreatePrompt(context.Background(), langfuse.CreatePromptRequest{
		Name:   def.Name,
		Type:   def.Type,
		Prompt: def.Prompt,
		Config: def.Config,
		Labels: def.Labels,
	})
	if err != nil {
		log.Fatalf("Failed to create prompt: %v", err)
	}

	fmt.Printf("Created prompt %s (version %d)\n", created.Name, created.Version)
}
