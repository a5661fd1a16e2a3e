package experiment

import (
	"context"
	"fmt"

	"prompt_ops/pkg/core/langfuse"
)

// DatasetWriter is the dataset-creation slice of the management service.
type DatasetWriter interface {
	CreateDataset(ctx context.Context, dataset langfuse.Dataset) (*langfuse.Dataset, error)
	CreateDatasetItem(ctx context.Context, item langfuse.DatasetItem) (*langfuse.DatasetItem, error)
}

// Generator creates datasets and their items in Langfuse.
type Generator struct {
	writer DatasetWriter
}

// NewGenerator creates a dataset generator.
func NewGenerator(writer DatasetWriter) *Generator {
	return &Generator{writer: writer}
}

// Generate creates the named dataset, then appends each item in order. The
// first remote failure aborts and propagates.
func (g *Generator) Generate(ctx context.Context, dataset langfuse.Dataset, items []langfuse.DatasetItem) error {
	if _, err := g.writer.CreateDataset(ctx, dataset); err != nil {
		return err
	}
	for i, item := range items {
		item.DatasetName = dataset.Name
		if _, err := g.writer.CreateDatasetItem(ctx, item); err != nil {
			return fmt.Errorf("failed to create item %d of dataset %s: %w", i+1, dataset.Name, err)
		}
	}
	return nil
}
