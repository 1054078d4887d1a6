// internal/scraper/platforms/entrata.go
//
// Entrata-hosted sites ship a availability widget fed by a JSON feed under
// the property site.  No credentials; the feed is public.

package platforms

import (
	"context"
	"strings"

	"github.com/yanizio/aptscrape/internal/scraper"
)

func init() { scraper.Register("entrata", &entrata{}) }

type entrata struct{}

type entrataFeed struct {
	Units []struct {
		Name          string `json:"name"`
		BedroomLabel  string `json:"bedroomLabel"`
		Rent          any    `json:"rent"`
		AvailableDate string `json:"availableDate"`
		FloorplanName string `json:"floorplanName"`
		FloorplanURL  string `json:"floorplanUrl"`
		BathroomLabel string `json:"bathroomLabel"`
		SquareFeet    any    `json:"squareFeet"`
	} `json:"units"`
}

func (e *entrata) Scrape(ctx context.Context, t scraper.Target) ([]scraper.Raw, error) {
	var feed entrataFeed
	url := strings.TrimRight(t.URL, "/") + "/widget/availability.json"
	if err := getJSON(ctx, url, &feed); err != nil {
		return nil, err
	}

	raws := make([]scraper.Raw, 0, len(feed.Units))
	for _, u := range feed.Units {
		raws = append(raws, scraper.Raw{
			"unit_number":       u.Name,
			"bed_type":          u.BedroomLabel,
			"rent":              u.Rent,
			"availability_date": u.AvailableDate,
			"floor_plan_name":   u.FloorplanName,
			"floor_plan_url":    u.FloorplanURL,
			"baths":             u.BathroomLabel,
			"sqft":              u.SquareFeet,
		})
	}
	return raws, nil
}
