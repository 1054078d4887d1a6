package platforms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yanizio/aptscrape/internal/scraper"
)

func TestPPMScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
		<table class="availability-table">
		  <tr><th>Unit</th><th>Beds</th><th>Baths</th><th>SqFt</th><th>Rent</th><th>Available</th></tr>
		  <tr>
		    <td><a href="/plans/a1.pdf">1203</a></td><td>1 Bed</td><td>1</td>
		    <td>720</td><td>$1,895</td><td>2025-09-01</td>
		  </tr>
		  <tr>
		    <td>1504</td><td>2 Bed</td><td>2</td>
		    <td>1010</td><td>$2,650</td><td>Available Now</td>
		  </tr>
		</table></body></html>`))
	}))
	defer srv.Close()

	raws, err := (&ppm{}).Scrape(context.Background(), scraper.Target{URL: srv.URL})
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("got %d records, want 2", len(raws))
	}
	if raws[0]["unit_number"] != "1203" || raws[0]["rent"] != "$1,895" {
		t.Fatalf("first record mangled: %v", raws[0])
	}
	if raws[0]["floor_plan_url"] != "/plans/a1.pdf" {
		t.Fatalf("floor_plan_url = %v", raws[0]["floor_plan_url"])
	}
	if raws[1]["availability_date"] != "Available Now" {
		t.Fatalf("second record mangled: %v", raws[1])
	}
}

func TestPPMScrapeMissingTableFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>maintenance</p></body></html>`))
	}))
	defer srv.Close()

	if _, err := (&ppm{}).Scrape(context.Background(), scraper.Target{URL: srv.URL}); err == nil {
		t.Fatal("layout drift must fail the scrape, not report vacancy")
	}
}

func TestAppfolioScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
		<div class="listing-item">
		  <h2 class="listing-title">Unit 304</h2>
		  <span class="detail-beds">Studio</span>
		  <span class="detail-rent">$1,450</span>
		  <span class="detail-available">8/15/2025</span>
		  <span class="detail-baths">1</span>
		  <span class="detail-sqft">510</span>
		</div></body></html>`))
	}))
	defer srv.Close()

	raws, err := (&appfolio{}).Scrape(context.Background(), scraper.Target{URL: srv.URL})
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("got %d records, want 1", len(raws))
	}
	if raws[0]["unit_number"] != "304" {
		t.Fatalf("unit_number = %v, want title fallback 304", raws[0]["unit_number"])
	}
	if raws[0]["bed_type"] != "Studio" {
		t.Fatalf("bed_type = %v", raws[0]["bed_type"])
	}
}

func TestEntrataScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/widget/availability.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"units":[{"name":"2107","bedroomLabel":"1 Bedroom",
		  "rent":2195,"availableDate":"2025-10-01","bathroomLabel":"1",
		  "squareFeet":705}]}`))
	}))
	defer srv.Close()

	raws, err := (&entrata{}).Scrape(context.Background(), scraper.Target{URL: srv.URL})
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("got %d records, want 1", len(raws))
	}
	if raws[0]["unit_number"] != "2107" {
		t.Fatalf("unit_number = %v", raws[0]["unit_number"])
	}
	if raws[0]["rent"] != float64(2195) {
		t.Fatalf("rent = %v (%T)", raws[0]["rent"], raws[0]["rent"])
	}
}

func TestFunnelScrapeRequiresKey(t *testing.T) {
	if _, err := (&funnel{}).Scrape(context.Background(), scraper.Target{URL: "https://x.example"}); err == nil {
		t.Fatal("funnel without a community id must fail")
	}
}
