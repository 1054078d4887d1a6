// internal/scraper/platforms/groupfox.go
//
// Group Fox buildings share one template: an Angular availability grid
// filled in after load.  Rows carry data attributes, which beats scraping
// the formatted text.

package platforms

import (
	"context"
	"fmt"

	"github.com/yanizio/aptscrape/internal/scraper"
)

func init() { scraper.Register("groupfox", &groupfox{}) }

type groupfox struct{}

func (g *groupfox) Scrape(ctx context.Context, t scraper.Target) ([]scraper.Raw, error) {
	page, err := renderedPage(ctx, t.URL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	rows, err := page.Elements("[data-unit-row]")
	if err != nil {
		return nil, fmt.Errorf("groupfox: query rows: %w", err)
	}

	raws := make([]scraper.Raw, 0, len(rows))
	for _, row := range rows {
		raw := scraper.Raw{}
		for field, attrName := range map[string]string{
			"unit_number":       "data-unit",
			"bed_type":          "data-beds",
			"rent":              "data-rent",
			"availability_date": "data-available",
			"baths":             "data-baths",
			"sqft":              "data-sqft",
		} {
			if v, err := row.Attribute(attrName); err == nil && v != nil {
				raw[field] = *v
			}
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
