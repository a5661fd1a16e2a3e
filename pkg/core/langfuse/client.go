// Package langfuse is a thin client for the Langfuse public REST API.
// It covers the operations this library needs: prompt create/get, dataset
// create/read, dataset-run-item writes, batched ingestion and trace reads.
// Errors from the API are returned as-is (status plus response body); nothing
// is retried or translated.
package langfuse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"prompt_ops/pkg/core/config"
)

const defaultHost = "https://cloud.langfuse.com"

// Client talks to one Langfuse project, authenticated with the project's
// public/secret key pair via basic auth.
type Client struct {
	host      string
	publicKey string
	secretKey string
	client    *http.Client
}

// NewClient creates a client from explicit credentials. The host falls back
// to the Langfuse cloud endpoint when blank. Credentials are not validated
// here; a bad key pair surfaces as a 401 on the first call.
func NewClient(cfg config.Config) *Client {
	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	return &Client{
		host:      host,
		publicKey: cfg.PublicKey,
		secretKey: cfg.SecretKey,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// do executes one API request. body is marshalled to JSON when non-nil, out
// is filled from the response body when non-nil. Any non-2xx status is an
// error carrying the status code and raw body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	endpoint := c.host + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.publicKey, c.secretKey)

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("langfuse api call failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("langfuse api returned status %d for %s %s: %s", res.StatusCode, method, path, string(resBody))
	}

	if out != nil {
		if err := json.Unmarshal(resBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
