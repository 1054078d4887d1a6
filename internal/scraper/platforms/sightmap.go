// internal/scraper/platforms/sightmap.go
//
// SightMap embeds an interactive floor map backed by a clean JSON API.
// Target.Key is the SightMap asset id printed in the embed snippet.

package platforms

import (
	"context"
	"fmt"

	"github.com/yanizio/aptscrape/internal/scraper"
)

func init() { scraper.Register("sightmap", &sightmap{}) }

type sightmap struct{}

type sightmapResponse struct {
	Data struct {
		Units []struct {
			UnitNumber    string  `json:"unit_number"`
			AreaLabel     string  `json:"area_label"`
			Price         float64 `json:"price"`
			AvailableOn   string  `json:"available_on"`
			FloorPlanName string  `json:"floor_plan_name"`
			FloorPlanURL  string  `json:"floor_plan_url"`
			BathroomCount float64 `json:"bathroom_count"`
			DisplaySquare float64 `json:"display_unit_area"`
		} `json:"units"`
	} `json:"data"`
}

func (s *sightmap) Scrape(ctx context.Context, t scraper.Target) ([]scraper.Raw, error) {
	if t.Key == "" {
		return nil, fmt.Errorf("sightmap: building %q has no asset id", t.Name)
	}

	var resp sightmapResponse
	url := fmt.Sprintf("https://sightmap.com/app/api/v1/%s/sightmaps", t.Key)
	if err := getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}

	raws := make([]scraper.Raw, 0, len(resp.Data.Units))
	for _, u := range resp.Data.Units {
		raws = append(raws, scraper.Raw{
			"unit_number":       u.UnitNumber,
			"bed_type":          u.AreaLabel,
			"rent":              u.Price,
			"availability_date": u.AvailableOn,
			"floor_plan_name":   u.FloorPlanName,
			"floor_plan_url":    u.FloorPlanURL,
			"baths":             u.BathroomCount,
			"sqft":              u.DisplaySquare,
		})
	}
	return raws, nil
}
