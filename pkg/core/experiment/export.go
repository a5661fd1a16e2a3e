package experiment

import (
	"context"
	"fmt"
	"time"

	"prompt_ops/pkg/core/langfuse"
)

// RunTrace combines one run record's trace input/output with the expected
// output of the dataset item it was generated from.
type RunTrace struct {
	TraceID        string      `json:"trace_id"`
	DatasetItemID  string      `json:"dataset_item_id"`
	Input          interface{} `json:"input"`
	Output         interface{} `json:"output"`
	ExpectedOutput interface{} `json:"expected_output,omitempty"`
}

// Export fetches the run records of one experiment run and resolves each
// linked trace, pacing trace reads at requestsPerMinute. limit caps the run
// items fetched (0 uses the API default).
func (r *Runner) Export(ctx context.Context, datasetName, runName string, limit, requestsPerMinute int) ([]RunTrace, error) {
	dataset, err := r.backend.GetDataset(ctx, datasetName)
	if err != nil {
		return nil, err
	}

	runItems, err := r.backend.ListDatasetRunItems(ctx, dataset.ID, runName, limit)
	if err != nil {
		return nil, err
	}

	itemLookup := make(map[string]langfuse.DatasetItem, len(dataset.Items))
	for _, item := range dataset.Items {
		itemLookup[item.ID] = item
	}

	var sleep time.Duration
	if requestsPerMinute > 0 {
		sleep = time.Duration(float64(time.Minute) / float64(requestsPerMinute))
	}

	traces := make([]RunTrace, 0, len(runItems))
	fmt.Printf("Fetching %d traces for run %s...\n", len(runItems), runName)
	for i, runItem := range runItems {
		trace, err := r.backend.GetTrace(ctx, runItem.TraceID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch trace %s: %w", runItem.TraceID, err)
		}
		runTrace := RunTrace{
			TraceID:       trace.ID,
			DatasetItemID: runItem.DatasetItemID,
			Input:         trace.Input,
			Output:        trace.Output,
		}
		if item, ok := itemLookup[runItem.DatasetItemID]; ok {
			runTrace.ExpectedOutput = item.ExpectedOutput
		}
		traces = append(traces, runTrace)

		if sleep > 0 && i < len(runItems)-1 {
			time.Sleep(sleep)
		}
	}
	return traces, nil
}
