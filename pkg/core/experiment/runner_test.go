package experiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"prompt_ops/pkg/core/langfuse"
)

// --- Mocks ---

type MockBackend struct {
	GetPromptFunc            func(ctx context.Context, name string, version int) (*langfuse.Prompt, error)
	GetDatasetFunc           func(ctx context.Context, name string) (*langfuse.Dataset, error)
	CreateDatasetRunItemFunc func(ctx context.Context, item langfuse.DatasetRunItem) (*langfuse.DatasetRunItem, error)
	IngestFunc               func(ctx context.Context, trace langfuse.TraceBody, generation langfuse.GenerationBody) (string, error)
	ListRunItemsFunc         func(ctx context.Context, datasetID, runName string, limit int) ([]langfuse.DatasetRunItem, error)
	GetTraceFunc             func(ctx context.Context, id string) (*langfuse.Trace, error)

	RunItems []langfuse.DatasetRunItem
	Traces   []langfuse.TraceBody
}

func (m *MockBackend) GetPrompt(ctx context.Context, name string, version int) (*langfuse.Prompt, error) {
	if m.GetPromptFunc != nil {
		return m.GetPromptFunc(ctx, name, version)
	}
	body, _ := json.Marshal([]langfuse.ChatMessage{{Role: "user", Content: "{question}"}})
	return &langfuse.Prompt{Name: name, Version: 1, Type: langfuse.PromptTypeChat, Prompt: body,
		Config: map[string]interface{}{"model": "gpt-4.1-mini"}}, nil
}

func (m *MockBackend) GetDataset(ctx context.Context, name string) (*langfuse.Dataset, error) {
	if m.GetDatasetFunc != nil {
		return m.GetDatasetFunc(ctx, name)
	}
	return &langfuse.Dataset{ID: "ds-1", Name: name}, nil
}

func (m *MockBackend) CreateDatasetRunItem(ctx context.Context, item langfuse.DatasetRunItem) (*langfuse.DatasetRunItem, error) {
	if m.CreateDatasetRunItemFunc != nil {
		return m.CreateDatasetRunItemFunc(ctx, item)
	}
	m.RunItems = append(m.RunItems, item)
	return &item, nil
}

func (m *MockBackend) IngestTraceWithGeneration(ctx context.Context, trace langfuse.TraceBody, generation langfuse.GenerationBody) (string, error) {
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, trace, generation)
	}
	m.Traces = append(m.Traces, trace)
	return "obs-1", nil
}

func (m *MockBackend) ListDatasetRunItems(ctx context.Context, datasetID, runName string, limit int) ([]langfuse.DatasetRunItem, error) {
	if m.ListRunItemsFunc != nil {
		return m.ListRunItemsFunc(ctx, datasetID, runName, limit)
	}
	return nil, nil
}

func (m *MockBackend) GetTrace(ctx context.Context, id string) (*langfuse.Trace, error) {
	if m.GetTraceFunc != nil {
		return m.GetTraceFunc(ctx, id)
	}
	return &langfuse.Trace{ID: id}, nil
}

type MockPromptRunner struct {
	RunFunc func(ctx context.Context, inputs map[string]interface{}, override map[string]interface{}) (string, error)
	Calls   int
}

func (m *MockPromptRunner) Run(ctx context.Context, inputs map[string]interface{}, override map[string]interface{}) (string, error) {
	m.Calls++
	if m.RunFunc != nil {
		return m.RunFunc(ctx, inputs, override)
	}
	return "output", nil
}

func (m *MockPromptRunner) Prompt() *langfuse.Prompt {
	return &langfuse.Prompt{Name: "skill-matcher", Version: 1,
		Config: map[string]interface{}{"model": "gpt-4.1-mini"}}
}

func datasetWithItems(n int) *langfuse.Dataset {
	dataset := &langfuse.Dataset{ID: "ds-1", Name: "cases"}
	for i := 1; i <= n; i++ {
		dataset.Items = append(dataset.Items, langfuse.DatasetItem{
			ID:    fmt.Sprintf("item-%d", i),
			Input: map[string]interface{}{"question": fmt.Sprintf("q%d", i)},
		})
	}
	return dataset
}

// --- Tests ---

func TestRunProducesOneRecordPerItem(t *testing.T) {
	backend := &MockBackend{
		GetDatasetFunc: func(ctx context.Context, name string) (*langfuse.Dataset, error) {
			return datasetWithItems(3), nil
		},
	}
	promptRunner := &MockPromptRunner{}

	err := NewRunner(backend).Run(context.Background(), "exp-1", promptRunner, "cases", Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if promptRunner.Calls != 3 {
		t.Errorf("Expected 3 prompt runs, got %d", promptRunner.Calls)
	}
	if len(backend.RunItems) != 3 {
		t.Fatalf("Expected 3 run records, got %d", len(backend.RunItems))
	}
	for i, item := range backend.RunItems {
		if item.RunName != "exp-1" {
			t.Errorf("Run record %d carries wrong run name %q", i, item.RunName)
		}
		if item.DatasetItemID != fmt.Sprintf("item-%d", i+1) {
			t.Errorf("Run records out of dataset order: %+v", backend.RunItems)
		}
		if item.TraceID == "" {
			t.Errorf("Run record %d missing trace link", i)
		}
	}
	if len(backend.Traces) != 3 {
		t.Errorf("Expected 3 traces, got %d", len(backend.Traces))
	}
	if backend.Traces[0].Metadata["dataset_item_id"] != "item-1" {
		t.Errorf("Trace not linked to its item: %+v", backend.Traces[0].Metadata)
	}
}

func TestRunHaltsAtFirstFailure(t *testing.T) {
	backend := &MockBackend{
		GetDatasetFunc: func(ctx context.Context, name string) (*langfuse.Dataset, error) {
			return datasetWithItems(5), nil
		},
	}
	promptRunner := &MockPromptRunner{
		RunFunc: func(ctx context.Context, inputs map[string]interface{}, override map[string]interface{}) (string, error) {
			if inputs["question"] == "q3" {
				return "", fmt.Errorf("rate limited")
			}
			return "output", nil
		},
	}

	err := NewRunner(backend).Run(context.Background(), "exp-1", promptRunner, "cases", Options{})
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("Expected the provider error, got %v", err)
	}
	// No per-item isolation: items 1 and 2 recorded, 3 failed, 4 and 5 never ran.
	if len(backend.RunItems) != 2 {
		t.Errorf("Expected 2 run records before the halt, got %d", len(backend.RunItems))
	}
	if promptRunner.Calls != 3 {
		t.Errorf("Expected the loop to stop after item 3, got %d calls", promptRunner.Calls)
	}
}

func TestRunWriteBackFailureAborts(t *testing.T) {
	backend := &MockBackend{
		GetDatasetFunc: func(ctx context.Context, name string) (*langfuse.Dataset, error) {
			return datasetWithItems(2), nil
		},
	}
	backend.CreateDatasetRunItemFunc = func(ctx context.Context, item langfuse.DatasetRunItem) (*langfuse.DatasetRunItem, error) {
		return nil, fmt.Errorf("langfuse api returned status 500")
	}

	err := NewRunner(backend).Run(context.Background(), "exp-1", &MockPromptRunner{}, "cases", Options{})
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("Expected the write-back error, got %v", err)
	}
}

func TestRunTestCountLimitsItems(t *testing.T) {
	backend := &MockBackend{
		GetDatasetFunc: func(ctx context.Context, name string) (*langfuse.Dataset, error) {
			return datasetWithItems(10), nil
		},
	}
	promptRunner := &MockPromptRunner{}

	err := NewRunner(backend).Run(context.Background(), "exp-1", promptRunner, "cases", Options{TestCount: 4})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if promptRunner.Calls != 4 {
		t.Errorf("Expected 4 runs with TestCount=4, got %d", promptRunner.Calls)
	}
}

func TestRunInvokesEvaluator(t *testing.T) {
	backend := &MockBackend{
		GetDatasetFunc: func(ctx context.Context, name string) (*langfuse.Dataset, error) {
			return datasetWithItems(2), nil
		},
	}
	var evaluated []string
	opts := Options{
		Evaluator: func(response string, item langfuse.DatasetItem) {
			evaluated = append(evaluated, item.ID)
		},
	}

	if err := NewRunner(backend).Run(context.Background(), "exp-1", &MockPromptRunner{}, "cases", opts); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(evaluated) != 2 || evaluated[0] != "item-1" {
		t.Errorf("Evaluator calls wrong: %v", evaluated)
	}
}

func TestRunDatasetNotFoundPropagates(t *testing.T) {
	backend := &MockBackend{
		GetDatasetFunc: func(ctx context.Context, name string) (*langfuse.Dataset, error) {
			return nil, fmt.Errorf("langfuse api returned status 404: dataset not found")
		},
	}
	err := NewRunner(backend).Run(context.Background(), "exp-1", &MockPromptRunner{}, "missing", Options{})
	if err == nil || !strings.Contains(err.Error(), "dataset not found") {
		t.Fatalf("Expected remote error unchanged, got %v", err)
	}
}

func TestRunByNamesResolvesPrompt(t *testing.T) {
	backend := &MockBackend{
		GetDatasetFunc: func(ctx context.Context, name string) (*langfuse.Dataset, error) {
			return datasetWithItems(1), nil
		},
	}
	provider := &fakeProvider{response: "answer"}

	err := NewRunner(backend).RunByNames(context.Background(), "exp-1", "qa", "cases", provider, Options{})
	if err != nil {
		t.Fatalf("RunByNames failed: %v", err)
	}
	if len(backend.Traces) != 1 || backend.Traces[0].Output != "answer" {
		t.Errorf("Expected the provider output in the trace, got %+v", backend.Traces)
	}
}

type fakeProvider struct {
	response string
}

func (f *fakeProvider) Complete(ctx context.Context, messages []langfuse.ChatMessage, config map[string]interface{}) (string, error) {
	return f.response, nil
}
