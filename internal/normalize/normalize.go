// internal/normalize/normalize.go
//
// Canonicalization gateway for raw scraper output.
//
// Context
// -------
// Every unit record produced by a platform adapter passes through Unit()
// before it may be persisted.  The function is pure: no I/O, no DB, no
// logging.  A record that cannot be normalized is rejected with ErrInvalid;
// the caller decides whether that sinks the whole scrape (it never does in
// practice, rejects are dropped one at a time).
//
// Required raw fields: unit_number, bed_type, rent, availability_date.
// Optional: floor_plan_name, floor_plan_url, baths, sqft.

package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/yanizio/aptscrape/internal/unit"
)

// ErrInvalid marks a raw record that lacks a required field or carries an
// unparseable value.  Rejection is local to the record.
var ErrInvalid = errors.New("invalid record")

// rentPlaceholders are advertised non-prices.  A listing with one of these
// has no usable rent and is rejected rather than stored as zero.
var rentPlaceholders = map[string]struct{}{
	"":        {},
	"0":       {},
	"call":    {},
	"n/a":     {},
	"contact": {},
	"tbd":     {},
	"inquire": {},
}

// timeNow is swapped by tests; "Available Now" resolves against it.
var timeNow = time.Now

// Unit converts one raw adapter record into a canonical unit row owned by
// buildingID.  All output fields are always populated; optional inputs that
// are absent become SQL nulls.  scrape_run_at is stamped here, in UTC.
func Unit(buildingID int64, raw map[string]any) (unit.Record, error) {
	var rec unit.Record
	rec.BuildingID = buildingID

	num := strings.TrimSpace(asString(raw["unit_number"]))
	if num == "" {
		return rec, fmt.Errorf("%w: missing unit_number", ErrInvalid)
	}
	rec.UnitNumber = num

	bedRaw := strings.TrimSpace(asString(raw["bed_type"]))
	if bedRaw == "" {
		return rec, fmt.Errorf("%w: missing bed_type", ErrInvalid)
	}
	if canon, ok := canonicalBedType(bedRaw); ok {
		rec.BedType = canon
	} else {
		rec.BedType = bedRaw
		rec.NonCanonical = true
	}

	cents, err := Rent(raw["rent"])
	if err != nil {
		return rec, err
	}
	rec.RentCents = cents

	date, err := AvailabilityDate(asString(raw["availability_date"]))
	if err != nil {
		return rec, err
	}
	rec.AvailabilityDate = date

	if v := strings.TrimSpace(asString(raw["floor_plan_name"])); v != "" {
		rec.FloorPlanName.String, rec.FloorPlanName.Valid = v, true
	}
	if v := strings.TrimSpace(asString(raw["floor_plan_url"])); v != "" {
		rec.FloorPlanURL.String, rec.FloorPlanURL.Valid = v, true
	}
	if v := strings.TrimSpace(asString(raw["baths"])); v != "" {
		rec.Baths.String, rec.Baths.Valid = v, true
	}
	if n, ok := asInt(raw["sqft"]); ok && n > 0 {
		rec.Sqft.Int64, rec.Sqft.Valid = n, true
	}

	rec.ScrapeRunAt = timeNow().UTC()
	return rec, nil
}

// Rent turns an advertised rent ("$2,695", "2695/mo", 2695.0) into positive
// integer cents.  Placeholder values ("Call", "TBD", ...) are rejected.
func Rent(v any) (int64, error) {
	s := strings.TrimSpace(asString(v))
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	s = strings.TrimSuffix(strings.ToLower(s), "/mo")

	if _, bad := rentPlaceholders[strings.ToLower(s)]; bad {
		return 0, fmt.Errorf("%w: rent placeholder %q", ErrInvalid, asString(v))
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("%w: unparseable rent %q", ErrInvalid, asString(v))
	}
	return int64(math.Round(f * 100)), nil
}

// AvailabilityDate resolves a raw availability string to ISO YYYY-MM-DD.
// "Available Now" and "Now" mean today, UTC.  Everything else goes through a
// format-agnostic parse.
func AvailabilityDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "":
		return "", fmt.Errorf("%w: missing availability_date", ErrInvalid)
	case "available now", "now":
		return timeNow().UTC().Format("2006-01-02"), nil
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return "", fmt.Errorf("%w: unparseable availability_date %q", ErrInvalid, raw)
	}
	return t.Format("2006-01-02"), nil
}

// asString renders the loosely typed values adapters hand us.  JSON numbers
// arrive as float64; keep integral ones free of a trailing ".0".
func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == math.Trunc(x) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case int:
		return int64(x), true
	case int64:
		return x, true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", ""))
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
