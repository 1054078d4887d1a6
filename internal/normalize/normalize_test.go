package normalize

import (
	"errors"
	"testing"
	"time"
)

// fixedNow pins the clock so "Available Now" is deterministic.
var fixedNow = time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)

func withFixedClock(t *testing.T) {
	t.Helper()
	old := timeNow
	timeNow = func() time.Time { return fixedNow }
	t.Cleanup(func() { timeNow = old })
}

func TestUnitHappyPath(t *testing.T) {
	withFixedClock(t)

	raw := map[string]any{
		"unit_number":       "615",
		"bed_type":          "1br",
		"rent":              "$2,695",
		"availability_date": "Available Now",
	}
	rec, err := Unit(1, raw)
	if err != nil {
		t.Fatalf("Unit: %v", err)
	}
	if rec.BuildingID != 1 || rec.UnitNumber != "615" {
		t.Fatalf("identity mangled: %+v", rec)
	}
	if rec.BedType != "1BR" || rec.NonCanonical {
		t.Fatalf("bed_type = %q (non_canonical=%v), want 1BR canonical", rec.BedType, rec.NonCanonical)
	}
	if rec.RentCents != 269500 {
		t.Fatalf("rent_cents = %d, want 269500", rec.RentCents)
	}
	if rec.AvailabilityDate != "2025-06-15" {
		t.Fatalf("availability_date = %q, want 2025-06-15", rec.AvailabilityDate)
	}
	if !rec.ScrapeRunAt.Equal(fixedNow) {
		t.Fatalf("scrape_run_at = %v, want %v", rec.ScrapeRunAt, fixedNow)
	}
	if rec.FloorPlanName.Valid || rec.FloorPlanURL.Valid || rec.Baths.Valid || rec.Sqft.Valid {
		t.Fatalf("absent optionals must be null: %+v", rec)
	}
}

func TestUnitOptionalFields(t *testing.T) {
	withFixedClock(t)

	raw := map[string]any{
		"unit_number":       "2204",
		"bed_type":          "2 Bedroom",
		"rent":              3250.0,
		"availability_date": "2025-08-01",
		"floor_plan_name":   "The Addison",
		"floor_plan_url":    "https://example.com/plans/addison.pdf",
		"baths":             2.0,
		"sqft":              "1,104",
	}
	rec, err := Unit(9, raw)
	if err != nil {
		t.Fatalf("Unit: %v", err)
	}
	if rec.BedType != "2BR" {
		t.Fatalf("bed_type = %q", rec.BedType)
	}
	if rec.RentCents != 325000 {
		t.Fatalf("rent_cents = %d", rec.RentCents)
	}
	if !rec.Baths.Valid || rec.Baths.String != "2" {
		t.Fatalf("baths must be stored as string, got %+v", rec.Baths)
	}
	if !rec.Sqft.Valid || rec.Sqft.Int64 != 1104 {
		t.Fatalf("sqft must be stored as integer, got %+v", rec.Sqft)
	}
}

func TestUnitRequiredFields(t *testing.T) {
	base := map[string]any{
		"unit_number":       "101",
		"bed_type":          "studio",
		"rent":              "1500",
		"availability_date": "now",
	}
	for _, missing := range []string{"unit_number", "bed_type", "rent", "availability_date"} {
		raw := map[string]any{}
		for k, v := range base {
			if k != missing {
				raw[k] = v
			}
		}
		if _, err := Unit(1, raw); !errors.Is(err, ErrInvalid) {
			t.Errorf("missing %s: err = %v, want ErrInvalid", missing, err)
		}
	}
}

func TestRent(t *testing.T) {
	cases := []struct {
		in      any
		want    int64
		wantErr bool
	}{
		{"$2,695", 269500, false},
		{"2695/mo", 269500, false},
		{"$1,842.50", 184250, false},
		{" 950 ", 95000, false},
		{2100.0, 210000, false},
		{"Call", 0, true},
		{"N/A", 0, true},
		{"Contact", 0, true},
		{"TBD", 0, true},
		{"Inquire", 0, true},
		{"", 0, true},
		{"0", 0, true},
		{"$0", 0, true},
		{"-1200", 0, true},
		{"two grand", 0, true},
	}
	for _, c := range cases {
		got, err := Rent(c.in)
		if c.wantErr {
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Rent(%v): err = %v, want ErrInvalid", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Rent(%v): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Rent(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestBedTypeAliases(t *testing.T) {
	cases := map[string]string{
		"studio":      "Studio",
		"STUDIO":      "Studio",
		"efficiency":  "Studio",
		"Convertible": "Convertible",
		"jr 1br":      "Convertible",
		"1 Bedroom":   "1BR",
		"one bedroom": "1BR",
		"1x1":         "1BR",
		"1 bed + den": "1BR+Den",
		"2 bed":       "2BR",
		"2x2":         "2BR",
		"3 bedroom":   "3BR+",
		"4br":         "3BR+",
		"5 bedrooms":  "3BR+", // above the table, still collapses
	}
	for in, want := range cases {
		got, ok := canonicalBedType(in)
		if !ok {
			t.Errorf("canonicalBedType(%q) not recognized", in)
			continue
		}
		if got != want {
			t.Errorf("canonicalBedType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBedTypeNonCanonical(t *testing.T) {
	withFixedClock(t)

	raw := map[string]any{
		"unit_number":       "PH-1",
		"bed_type":          "Penthouse Loft",
		"rent":              "9000",
		"availability_date": "now",
	}
	rec, err := Unit(3, raw)
	if err != nil {
		t.Fatalf("Unit: %v", err)
	}
	if !rec.NonCanonical {
		t.Fatal("unknown bed_type must set non_canonical")
	}
	if rec.BedType != "Penthouse Loft" {
		t.Fatalf("original casing must be preserved, got %q", rec.BedType)
	}
}

func TestAvailabilityDate(t *testing.T) {
	withFixedClock(t)

	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Available Now", "2025-06-15", false},
		{"NOW", "2025-06-15", false},
		{"2025-09-01", "2025-09-01", false},
		{"09/01/2025", "2025-09-01", false},
		{"September 1, 2025", "2025-09-01", false},
		{"Sep 1 2025", "2025-09-01", false},
		{"soonish", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		got, err := AvailabilityDate(c.in)
		if c.wantErr {
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("AvailabilityDate(%q): err = %v, want ErrInvalid", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("AvailabilityDate(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("AvailabilityDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// Normalizing an already-canonical record must not change its fields.
func TestCanonicalIdentity(t *testing.T) {
	withFixedClock(t)

	raw := map[string]any{
		"unit_number":       "615",
		"bed_type":          "1BR",
		"rent":              "2695",
		"availability_date": "2025-09-01",
	}
	first, err := Unit(1, raw)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	again, err := Unit(1, map[string]any{
		"unit_number":       first.UnitNumber,
		"bed_type":          first.BedType,
		"rent":              first.RentCents / 100,
		"availability_date": first.AvailabilityDate,
	})
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if again.UnitNumber != first.UnitNumber || again.BedType != first.BedType ||
		again.RentCents != first.RentCents || again.AvailabilityDate != first.AvailabilityDate ||
		again.NonCanonical != first.NonCanonical {
		t.Fatalf("canonical fields drifted:\nfirst  %+v\nsecond %+v", first, again)
	}
}
