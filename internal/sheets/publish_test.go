package sheets

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/yanizio/aptscrape/internal/building"
	"github.com/yanizio/aptscrape/internal/runner"
	"github.com/yanizio/aptscrape/internal/unit"
)

func TestStatusRow(t *testing.T) {
	at := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	row := statusRow(runner.Result{
		BuildingID: 2,
		Name:       "Alcove",
		Platform:   "rentcafe",
		Outcome:    runner.OutcomeFailed,
		ScrapedAt:  at,
		Err:        errors.New("timeout"),
	})
	if len(row) != len(statusHeader) {
		t.Fatalf("row width %d, header width %d", len(row), len(statusHeader))
	}
	if row[3] != "failed" || row[6] != "timeout" {
		t.Fatalf("row = %v", row)
	}
	if row[5] != "2025-06-15T09:00:00Z" {
		t.Fatalf("scraped_at cell = %v", row[5])
	}
}

func TestStatusRowSkippedHasNoTimestamp(t *testing.T) {
	row := statusRow(runner.Result{Name: "x", Outcome: runner.OutcomeSkipped})
	if row[5] != "" || row[6] != "" {
		t.Fatalf("skipped row = %v", row)
	}
}

func TestAvailabilityRow(t *testing.T) {
	b := &building.Record{
		Name:         "Hugo",
		Neighborhood: sql.NullString{String: "River North", Valid: true},
	}
	u := &unit.Record{
		UnitNumber:       "615",
		BedType:          "1BR",
		RentCents:        269500,
		AvailabilityDate: "2025-06-15",
		ScrapeRunAt:      time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),
	}
	row := availabilityRow(b, u)
	if len(row) != len(availabilityHeader) {
		t.Fatalf("row width %d, header width %d", len(row), len(availabilityHeader))
	}
	if row[4] != 2695.0 {
		t.Fatalf("rent cell = %v, want dollars", row[4])
	}
}
