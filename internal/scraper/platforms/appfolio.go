// internal/scraper/platforms/appfolio.go
//
// AppFolio listing pages are server-rendered; each vacancy is a
// .listing-item card with labelled detail spans.  Rent and date arrive as
// display strings and go to the normalizer untouched.

package platforms

import (
	"context"
	"fmt"
	"strings"

	"github.com/yanizio/aptscrape/internal/scraper"
)

func init() { scraper.Register("appfolio", &appfolio{}) }

type appfolio struct{}

func (a *appfolio) Scrape(ctx context.Context, t scraper.Target) ([]scraper.Raw, error) {
	doc, err := getDOM(ctx, t.URL)
	if err != nil {
		return nil, err
	}

	cards := findAll(doc, "div", "listing-item")
	if len(cards) == 0 && firstText(doc, "div", "no-listings") == "" {
		// Neither cards nor the explicit empty marker: the page layout
		// changed under us, better to fail loudly than report vacancy.
		return nil, fmt.Errorf("appfolio: no listing markup at %s", t.URL)
	}

	raws := make([]scraper.Raw, 0, len(cards))
	for _, card := range cards {
		unitNum := firstText(card, "span", "unit-number")
		if unitNum == "" {
			// Some templates put the unit in the card title "Unit 1203".
			unitNum = strings.TrimPrefix(firstText(card, "h2", "listing-title"), "Unit ")
		}
		raws = append(raws, scraper.Raw{
			"unit_number":       unitNum,
			"bed_type":          firstText(card, "span", "detail-beds"),
			"rent":              firstText(card, "span", "detail-rent"),
			"availability_date": firstText(card, "span", "detail-available"),
			"baths":             firstText(card, "span", "detail-baths"),
			"sqft":              firstText(card, "span", "detail-sqft"),
			"floor_plan_name":   firstText(card, "span", "detail-floorplan"),
		})
	}
	return raws, nil
}
