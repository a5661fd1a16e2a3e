// Package experiment drives batch prompt executions over named Langfuse
// datasets, writing one run record per dataset item back to the service.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"prompt_ops/pkg/core/langfuse"
	"prompt_ops/pkg/core/llm"
	"prompt_ops/pkg/core/prompt"
)

// Backend is the slice of the management service the runner needs.
// *langfuse.Client satisfies it; tests substitute func-field mocks.
type Backend interface {
	GetPrompt(ctx context.Context, name string, version int) (*langfuse.Prompt, error)
	GetDataset(ctx context.Context, name string) (*langfuse.Dataset, error)
	CreateDatasetRunItem(ctx context.Context, item langfuse.DatasetRunItem) (*langfuse.DatasetRunItem, error)
	IngestTraceWithGeneration(ctx context.Context, trace langfuse.TraceBody, generation langfuse.GenerationBody) (string, error)
	ListDatasetRunItems(ctx context.Context, datasetID, runName string, limit int) ([]langfuse.DatasetRunItem, error)
	GetTrace(ctx context.Context, id string) (*langfuse.Trace, error)
}

// PromptRunner is the prompt execution capability the loop invokes once per
// dataset item. Implemented by *prompt.Runner.
type PromptRunner interface {
	Run(ctx context.Context, inputs map[string]interface{}, override map[string]interface{}) (string, error)
	Prompt() *langfuse.Prompt
}

// Options tune one experiment run.
type Options struct {
	// TestCount caps the number of dataset items processed; 0 means all.
	TestCount int
	// RequestsPerMinute paces the loop with a sleep between items; 0
	// disables pacing.
	RequestsPerMinute int
	// Evaluator, when set, is called with each response and its item after
	// the run record is written.
	Evaluator func(response string, item langfuse.DatasetItem)
	// Metadata is attached to every run record (experiment params).
	Metadata map[string]interface{}
}

// Runner executes experiments against a Langfuse backend.
type Runner struct {
	backend Backend
}

// NewRunner creates an experiment runner.
func NewRunner(backend Backend) *Runner {
	return &Runner{backend: backend}
}

// Run resolves the named dataset and invokes promptRunner once per item, in
// dataset order, linking each response back as a dataset-run-item under
// experimentName. Each item produces exactly one run record on success.
//
// There is no per-item isolation: the first failed invocation or write-back
// aborts the remaining items and returns that error.
func (r *Runner) Run(ctx context.Context, experimentName string, promptRunner PromptRunner, datasetName string, opts Options) error {
	dataset, err := r.backend.GetDataset(ctx, datasetName)
	if err != nil {
		return err
	}

	items := dataset.Items
	if opts.TestCount > 0 && opts.TestCount < len(items) {
		items = items[:opts.TestCount]
	}

	var sleep time.Duration
	if opts.RequestsPerMinute > 0 {
		sleep = time.Duration(float64(time.Minute) / float64(opts.RequestsPerMinute))
	}

	promptName := promptRunner.Prompt().Name
	model, _ := promptRunner.Prompt().Config["model"].(string)

	fmt.Printf("Running experiment %s over %d items of %s...\n", experimentName, len(items), datasetName)
	for i, item := range items {
		response, err := promptRunner.Run(ctx, item.Input, nil)
		if err != nil {
			return fmt.Errorf("experiment %s failed on item %d (%s): %w", experimentName, i+1, item.ID, err)
		}

		traceID := uuid.New().String()
		observationID, err := r.backend.IngestTraceWithGeneration(ctx,
			langfuse.TraceBody{
				ID:       traceID,
				Name:     experimentName,
				Input:    item.Input,
				Output:   response,
				Metadata: map[string]interface{}{"dataset_item_id": item.ID},
			},
			langfuse.GenerationBody{
				Name:     promptName + "-llm-call",
				Model:    model,
				Input:    item.Input,
				Output:   response,
				Metadata: map[string]interface{}{"item_id": item.ID, "run": experimentName},
			},
		)
		if err != nil {
			return fmt.Errorf("experiment %s failed to log item %d (%s): %w", experimentName, i+1, item.ID, err)
		}

		_, err = r.backend.CreateDatasetRunItem(ctx, langfuse.DatasetRunItem{
			RunName:       experimentName,
			DatasetItemID: item.ID,
			TraceID:       traceID,
			ObservationID: observationID,
			Metadata:      opts.Metadata,
		})
		if err != nil {
			return fmt.Errorf("experiment %s failed to link item %d (%s): %w", experimentName, i+1, item.ID, err)
		}

		if opts.Evaluator != nil {
			opts.Evaluator(response, item)
		}

		fmt.Printf("  [%d/%d] item %s done\n", i+1, len(items), item.ID)
		if sleep > 0 && i < len(items)-1 {
			time.Sleep(sleep)
		}
	}
	return nil
}

// RunByNames is the by-name entry point: it resolves the prompt, binds it to
// the provider, and runs the experiment.
func (r *Runner) RunByNames(ctx context.Context, experimentName, promptName, datasetName string, provider llm.Provider, opts Options) error {
	promptRunner, err := prompt.NewRunner(ctx, r.backend, provider, promptName, 0)
	if err != nil {
		return err
	}
	return r.Run(ctx, experimentName, promptRunner, datasetName, opts)
}
