// internal/scraper/platforms/realpage.go
//
// RealPage OneSite availability feed.  Target.Key is the site id; the feed
// lives on RealPage's CDN, not the building domain.

package platforms

import (
	"context"
	"fmt"

	"github.com/yanizio/aptscrape/internal/scraper"
)

func init() { scraper.Register("realpage", &realpage{}) }

type realpage struct{}

type realpageFeed struct {
	FloorPlans []struct {
		Name  string `json:"name"`
		Units []struct {
			UnitID        string  `json:"unitId"`
			Bedrooms      float64 `json:"bedrooms"`
			Rent          float64 `json:"rentAmount"`
			DateAvailable string  `json:"dateAvailable"`
			Bathrooms     float64 `json:"bathrooms"`
			SquareFeet    float64 `json:"squareFeet"`
		} `json:"units"`
	} `json:"floorPlans"`
}

func (r *realpage) Scrape(ctx context.Context, t scraper.Target) ([]scraper.Raw, error) {
	if t.Key == "" {
		return nil, fmt.Errorf("realpage: building %q has no site id", t.Name)
	}

	var feed realpageFeed
	url := fmt.Sprintf("https://cdn.realpage.com/onesite/availability/%s.json", t.Key)
	if err := getJSON(ctx, url, &feed); err != nil {
		return nil, err
	}

	var raws []scraper.Raw
	for _, fp := range feed.FloorPlans {
		for _, u := range fp.Units {
			raws = append(raws, scraper.Raw{
				"unit_number":       u.UnitID,
				"bed_type":          u.Bedrooms,
				"rent":              u.Rent,
				"availability_date": u.DateAvailable,
				"floor_plan_name":   fp.Name,
				"baths":             u.Bathrooms,
				"sqft":              u.SquareFeet,
			})
		}
	}
	return raws, nil
}
