// internal/scraper/platforms/llm.go
//
// Catch-all for buildings on one-off sites no structured adapter covers.
// The page is rendered in the browser, its visible text is shipped to an
// extraction service that pulls unit records out of prose, and the reply
// is passed through as raw records.  Target.Key is the extractor endpoint,
// Target.Secret its bearer token.
//
// Accuracy depends on the extractor; the normalizer still rejects anything
// malformed, so the worst case is dropped records, not corrupt rows.

package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/yanizio/aptscrape/internal/scraper"
)

func init() { scraper.Register("llm", &llmExtract{}) }

type llmExtract struct{}

type extractRequest struct {
	SourceURL string `json:"source_url"`
	PageText  string `json:"page_text"`
}

type extractResponse struct {
	Units []map[string]any `json:"units"`
}

func (l *llmExtract) Scrape(ctx context.Context, t scraper.Target) ([]scraper.Raw, error) {
	if t.Key == "" {
		return nil, fmt.Errorf("llm: building %q has no extractor endpoint", t.Name)
	}

	page, err := renderedPage(ctx, t.URL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	body, err := page.Element("body")
	if err != nil {
		return nil, fmt.Errorf("llm: page has no body: %w", err)
	}
	pageText, err := body.Text()
	if err != nil {
		return nil, fmt.Errorf("llm: read page text: %w", err)
	}

	payload, err := json.Marshal(extractRequest{SourceURL: t.URL, PageText: pageText})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Key, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if t.Secret != "" {
		req.Header.Set("Authorization", "Bearer "+t.Secret)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm: extract call: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llm: extractor status %d", resp.StatusCode)
	}

	var out extractResponse
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("llm: decode extractor reply: %w", err)
	}

	raws := make([]scraper.Raw, 0, len(out.Units))
	for _, u := range out.Units {
		raws = append(raws, scraper.Raw(u))
	}
	return raws, nil
}
