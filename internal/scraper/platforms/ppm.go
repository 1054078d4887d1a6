// internal/scraper/platforms/ppm.go
//
// PPM's portfolio site renders availability as a plain table, one row per
// unit, with a stable column order: unit, beds, baths, sqft, rent, date.

package platforms

import (
	"context"
	"fmt"

	"golang.org/x/net/html"

	"github.com/yanizio/aptscrape/internal/scraper"
)

func init() { scraper.Register("ppm", &ppm{}) }

type ppm struct{}

func (p *ppm) Scrape(ctx context.Context, t scraper.Target) ([]scraper.Raw, error) {
	doc, err := getDOM(ctx, t.URL)
	if err != nil {
		return nil, err
	}

	tables := findAll(doc, "table", "availability-table")
	if len(tables) == 0 {
		return nil, fmt.Errorf("ppm: availability table missing at %s", t.URL)
	}

	var raws []scraper.Raw
	for _, row := range findAll(tables[0], "tr", "") {
		cells := findAll(row, "td", "")
		if len(cells) < 6 {
			continue // header or spacer row
		}
		raws = append(raws, scraper.Raw{
			"unit_number":       text(cells[0]),
			"bed_type":          text(cells[1]),
			"baths":             text(cells[2]),
			"sqft":              text(cells[3]),
			"rent":              text(cells[4]),
			"availability_date": text(cells[5]),
			"floor_plan_url":    href(cells[0]),
		})
	}
	return raws, nil
}

// href digs the first anchor target out of a cell, if any.
func href(n *html.Node) string {
	anchors := findAll(n, "a", "")
	if len(anchors) == 0 {
		return ""
	}
	return attr(anchors[0], "href")
}
