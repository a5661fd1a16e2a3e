// Package scrape turns web pages into dataset item inputs, so datasets can
// be seeded from live postings instead of hand-written JSON files.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "prompt-ops dataset builder"

var client = &http.Client{Timeout: 30 * time.Second}

// PageToInput fetches a page and extracts its title and visible text into an
// input mapping suitable for a dataset item. Script and style content is
// dropped; whitespace is collapsed.
func PageToInput(ctx context.Context, pageURL string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch of %s returned status %d", pageURL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	doc.Find("script, style, noscript").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")

	return map[string]interface{}{
		"url":   pageURL,
		"title": title,
		"text":  text,
	}, nil
}
