// internal/scraper/platforms/funnel.go
//
// Funnel Leasing sites expose their listings through a JSON endpoint under
// the building's own domain.  Target.Key is the Funnel community id.

package platforms

import (
	"context"
	"fmt"
	"strings"

	"github.com/yanizio/aptscrape/internal/scraper"
)

func init() { scraper.Register("funnel", &funnel{}) }

type funnel struct{}

type funnelListing struct {
	Unit struct {
		Number string `json:"number"`
	} `json:"unit"`
	Layout        string `json:"layout"`
	Price         string `json:"price"`
	AvailableDate string `json:"available_date"`
	FloorplanName string `json:"floorplan_name"`
	FloorplanURL  string `json:"floorplan_url"`
	Bathrooms     string `json:"bathrooms"`
	SquareFeet    any    `json:"square_feet"`
}

func (f *funnel) Scrape(ctx context.Context, t scraper.Target) ([]scraper.Raw, error) {
	if t.Key == "" {
		return nil, fmt.Errorf("funnel: building %q has no community id", t.Name)
	}

	var listings []funnelListing
	url := fmt.Sprintf("%s/api/v1/communities/%s/listings",
		strings.TrimRight(t.URL, "/"), t.Key)
	if err := getJSON(ctx, url, &listings); err != nil {
		return nil, err
	}

	raws := make([]scraper.Raw, 0, len(listings))
	for _, l := range listings {
		raws = append(raws, scraper.Raw{
			"unit_number":       l.Unit.Number,
			"bed_type":          l.Layout,
			"rent":              l.Price,
			"availability_date": l.AvailableDate,
			"floor_plan_name":   l.FloorplanName,
			"floor_plan_url":    l.FloorplanURL,
			"baths":             l.Bathrooms,
			"sqft":              l.SquareFeet,
		})
	}
	return raws, nil
}
