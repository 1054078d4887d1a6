// internal/scraper/platforms/bozzuto.go
//
// Bozzuto property sites render availability client-side; the cards only
// exist after their React bundle runs, hence the browser.

package platforms

import (
	"context"
	"fmt"
	"strings"

	"github.com/yanizio/aptscrape/internal/scraper"
)

func init() { scraper.Register("bozzuto", &bozzuto{}) }

type bozzuto struct{}

func (b *bozzuto) Scrape(ctx context.Context, t scraper.Target) ([]scraper.Raw, error) {
	url := strings.TrimRight(t.URL, "/") + "/floorplans"
	page, err := renderedPage(ctx, url)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	cards, err := page.Elements(".unit-card")
	if err != nil {
		return nil, fmt.Errorf("bozzuto: query cards: %w", err)
	}
	if len(cards) == 0 {
		if _, err := page.Element(".no-availability"); err != nil {
			return nil, fmt.Errorf("bozzuto: no cards and no empty marker at %s", url)
		}
		return nil, nil
	}

	raws := make([]scraper.Raw, 0, len(cards))
	for _, card := range cards {
		raws = append(raws, scraper.Raw{
			"unit_number":       elementText(card, ".unit-card__number"),
			"bed_type":          elementText(card, ".unit-card__beds"),
			"rent":              elementText(card, ".unit-card__price"),
			"availability_date": elementText(card, ".unit-card__available"),
			"baths":             elementText(card, ".unit-card__baths"),
			"sqft":              elementText(card, ".unit-card__sqft"),
			"floor_plan_name":   elementText(card, ".unit-card__plan"),
		})
	}
	return raws, nil
}
