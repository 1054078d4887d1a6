// internal/scraper/platforms/rentcafe.go
//
// RentCafe's public availability API.  Target.Key is the property code,
// Target.Secret the company API token RentCafe issues per management
// company.

package platforms

import (
	"context"
	"fmt"
	"net/url"

	"github.com/yanizio/aptscrape/internal/scraper"
)

func init() { scraper.Register("rentcafe", &rentcafe{}) }

type rentcafe struct{}

type rentcafeUnit struct {
	ApartmentName  string `json:"ApartmentName"`
	Beds           string `json:"Beds"`
	MinimumRent    string `json:"MinimumRent"`
	AvailableDate  string `json:"AvailableDate"`
	FloorplanName  string `json:"FloorplanName"`
	FloorplanImage string `json:"FloorplanImageURL"`
	Baths          string `json:"Baths"`
	SQFT           string `json:"SQFT"`
}

func (r *rentcafe) Scrape(ctx context.Context, t scraper.Target) ([]scraper.Raw, error) {
	if t.Key == "" || t.Secret == "" {
		return nil, fmt.Errorf("rentcafe: building %q needs property code and api token", t.Name)
	}

	q := url.Values{}
	q.Set("requestType", "apartmentavailability")
	q.Set("propertyCode", t.Key)
	q.Set("apiToken", t.Secret)

	var units []rentcafeUnit
	endpoint := "https://api.rentcafe.com/rentcafeapi.aspx?" + q.Encode()
	if err := getJSON(ctx, endpoint, &units); err != nil {
		return nil, err
	}

	raws := make([]scraper.Raw, 0, len(units))
	for _, u := range units {
		raws = append(raws, scraper.Raw{
			"unit_number":       u.ApartmentName,
			"bed_type":          u.Beds,
			"rent":              u.MinimumRent,
			"availability_date": u.AvailableDate,
			"floor_plan_name":   u.FloorplanName,
			"floor_plan_url":    u.FloorplanImage,
			"baths":             u.Baths,
			"sqft":              u.SQFT,
		})
	}
	return raws, nil
}
