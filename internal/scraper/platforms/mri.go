// internal/scraper/platforms/mri.go
//
// MRI resident portals sit behind an ASP.NET shell that assembles the
// availability grid in JavaScript.  Target.Key is the portal site id used
// in the availability URL.

package platforms

import (
	"context"
	"fmt"

	"github.com/yanizio/aptscrape/internal/scraper"
)

func init() { scraper.Register("mri", &mri{}) }

type mri struct{}

func (m *mri) Scrape(ctx context.Context, t scraper.Target) ([]scraper.Raw, error) {
	if t.Key == "" {
		return nil, fmt.Errorf("mri: building %q has no portal site id", t.Name)
	}

	url := fmt.Sprintf("https://mriweb.mrisoftware.com/prospect/%s/availability", t.Key)
	page, err := renderedPage(ctx, url)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	rows, err := page.Elements("table.avail-grid tbody tr")
	if err != nil {
		return nil, fmt.Errorf("mri: query grid: %w", err)
	}

	raws := make([]scraper.Raw, 0, len(rows))
	for _, row := range rows {
		cells, err := row.Elements("td")
		if err != nil || len(cells) < 6 {
			continue
		}
		cellText := func(i int) string {
			s, err := cells[i].Text()
			if err != nil {
				return ""
			}
			return s
		}
		raws = append(raws, scraper.Raw{
			"unit_number":       cellText(0),
			"bed_type":          cellText(1),
			"baths":             cellText(2),
			"sqft":              cellText(3),
			"rent":              cellText(4),
			"availability_date": cellText(5),
		})
	}
	return raws, nil
}
