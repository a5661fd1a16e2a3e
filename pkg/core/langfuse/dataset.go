package langfuse

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Dataset is a named, ordered collection of items stored in Langfuse.
// Identity and persistence live remotely; this client only reads datasets
// back (plus the creation helpers below).
type Dataset struct {
	ID          string                 `json:"id,omitempty"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Items       []DatasetItem          `json:"items,omitempty"`
}

// DatasetItem is one input/expected-output pair of a dataset.
type DatasetItem struct {
	ID             string                 `json:"id,omitempty"`
	DatasetName    string                 `json:"datasetName,omitempty"`
	Input          map[string]interface{} `json:"input,omitempty"`
	ExpectedOutput interface{}            `json:"expectedOutput,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Status         string                 `json:"status,omitempty"`
}

// DatasetRunItem links one dataset item to the trace produced for it during
// an experiment run. One record is written per item per run.
type DatasetRunItem struct {
	ID             string                 `json:"id,omitempty"`
	RunName        string                 `json:"runName"`
	DatasetItemID  string                 `json:"datasetItemId"`
	TraceID        string                 `json:"traceId,omitempty"`
	ObservationID  string                 `json:"observationId,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	DatasetRunName string                 `json:"datasetRunName,omitempty"`
}

// CreateDataset creates a dataset shell. Items are added one by one via
// CreateDatasetItem.
func (c *Client) CreateDataset(ctx context.Context, dataset Dataset) (*Dataset, error) {
	var created Dataset
	if err := c.do(ctx, http.MethodPost, "/api/public/v2/datasets", nil, dataset, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateDatasetItem appends one item to the named dataset.
func (c *Client) CreateDatasetItem(ctx context.Context, item DatasetItem) (*DatasetItem, error) {
	var created DatasetItem
	if err := c.do(ctx, http.MethodPost, "/api/public/dataset-items", nil, item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type datasetItemPage struct {
	Data []DatasetItem `json:"data"`
	Meta struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		TotalPages int `json:"totalPages"`
	} `json:"meta"`
}

// GetDataset resolves a dataset by name and loads its full item list, paging
// through /api/public/dataset-items until exhausted.
func (c *Client) GetDataset(ctx context.Context, name string) (*Dataset, error) {
	var dataset Dataset
	if err := c.do(ctx, http.MethodGet, "/api/public/v2/datasets/"+url.PathEscape(name), nil, nil, &dataset); err != nil {
		return nil, err
	}

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("datasetName", name)
		query.Set("page", strconv.Itoa(page))
		var items datasetItemPage
		if err := c.do(ctx, http.MethodGet, "/api/public/dataset-items", query, nil, &items); err != nil {
			return nil, err
		}
		dataset.Items = append(dataset.Items, items.Data...)
		if items.Meta.TotalPages == 0 || page >= items.Meta.TotalPages {
			break
		}
	}
	return &dataset, nil
}

// CreateDatasetRunItem writes one experiment-run record.
func (c *Client) CreateDatasetRunItem(ctx context.Context, item DatasetRunItem) (*DatasetRunItem, error) {
	var created DatasetRunItem
	if err := c.do(ctx, http.MethodPost, "/api/public/dataset-run-items", nil, item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type datasetRunItemPage struct {
	Data []DatasetRunItem `json:"data"`
}

// ListDatasetRunItems fetches the run records of one experiment run.
func (c *Client) ListDatasetRunItems(ctx context.Context, datasetID, runName string, limit int) ([]DatasetRunItem, error) {
	query := url.Values{}
	query.Set("datasetId", datasetID)
	query.Set("runName", runName)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var page datasetRunItemPage
	if err := c.do(ctx, http.MethodGet, "/api/public/dataset-run-items", query, nil, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}
