// Package platforms holds the concrete per-platform adapters.  Each file
// registers its adapter with the scraper registry from init(); the binary
// blank-imports this package so every tag is bound before the first scrape.
//
// Three families:
//
//   - JSON adapters (sightmap, funnel, entrata, realpage, rentcafe) hit the
//     platform's availability API over plain HTTP.
//   - HTML adapters (appfolio, ppm) fetch the listing page and walk the DOM.
//   - Browser adapters (bozzuto, groupfox, mri, llm) need JavaScript, so
//     they render through a shared headless Chromium.
//
// Adapters return raw field maps; canonicalization is the normalizer's job.
// Nothing here touches the database.
package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// userAgent identifies us honestly to the sites we scrape.
const userAgent = "aptscrape/1.0 (availability monitor)"

// httpClient is shared by every HTTP adapter.  The timeout is the whole
// request; adapters that need more than one request pay it per call.
var httpClient = &http.Client{Timeout: 45 * time.Second}

// getJSON fetches url and decodes the body into out.
func getJSON(ctx context.Context, url string, out any) error {
	body, err := get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// get performs one GET with the shared client and returns the body.
// Non-2xx statuses are errors; adapters treat them as scrape failures.
func get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}
