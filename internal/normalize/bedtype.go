package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Canonical bed types.  The set is frozen; anything the alias table cannot
// map passes through with its original casing and non_canonical = true.
const (
	BedStudio      = "Studio"
	BedConvertible = "Convertible"
	BedOne         = "1BR"
	BedOneDen      = "1BR+Den"
	BedTwo         = "2BR"
	BedThreePlus   = "3BR+"
)

// bedAliases maps lowercased, trimmed scraper variants to the canonical set.
// Grown one entry at a time as new platforms surfaced new spellings.
var bedAliases = map[string]string{
	"studio":                BedStudio,
	"studio apartment":      BedStudio,
	"efficiency":            BedStudio,
	"0":                     BedStudio,
	"0 bed":                 BedStudio,
	"0 bedroom":             BedStudio,
	"0br":                   BedStudio,
	"s0":                    BedStudio,
	"0x1":                   BedStudio,
	"convertible":           BedConvertible,
	"conv":                  BedConvertible,
	"convertible studio":    BedConvertible,
	"jr 1br":                BedConvertible,
	"jr. one bedroom":       BedConvertible,
	"junior 1 bedroom":      BedConvertible,
	"junior one bedroom":    BedConvertible,
	"1":                     BedOne,
	"1br":                   BedOne,
	"1 br":                  BedOne,
	"1bd":                   BedOne,
	"1 bd":                  BedOne,
	"1 bed":                 BedOne,
	"1 bedroom":             BedOne,
	"one bedroom":           BedOne,
	"1x1":                   BedOne,
	"1x2":                   BedOne,
	"1 bed 1 bath":          BedOne,
	"1br+den":               BedOneDen,
	"1br + den":             BedOneDen,
	"1br den":               BedOneDen,
	"1 bed + den":           BedOneDen,
	"1 bedroom + den":       BedOneDen,
	"1 bed with den":        BedOneDen,
	"one bedroom plus den":  BedOneDen,
	"2":                     BedTwo,
	"2br":                   BedTwo,
	"2 br":                  BedTwo,
	"2bd":                   BedTwo,
	"2 bd":                  BedTwo,
	"2 bed":                 BedTwo,
	"2 bedroom":             BedTwo,
	"two bedroom":           BedTwo,
	"2x1":                   BedTwo,
	"2x2":                   BedTwo,
	"3":                     BedThreePlus,
	"3br":                   BedThreePlus,
	"3 br":                  BedThreePlus,
	"3 bed":                 BedThreePlus,
	"3 bedroom":             BedThreePlus,
	"three bedroom":         BedThreePlus,
	"3x2":                   BedThreePlus,
	"4":                     BedThreePlus,
	"4br":                   BedThreePlus,
	"4 bed":                 BedThreePlus,
	"4 bedroom":             BedThreePlus,
	"four bedroom":          BedThreePlus,
}

// leadingBeds matches "5br", "6 bed", "4 bedrooms", etc., so bed counts the
// alias table never met still land in the right bucket.
var leadingBeds = regexp.MustCompile(`^(\d+)\s*(?:br|bd|beds?|bedrooms?)\b`)

// canonicalBedType maps a raw bed-type string onto the canonical set.  The
// second return is false when the value is unrecognized; callers keep the
// original casing and flag the record non-canonical.
func canonicalBedType(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := bedAliases[key]; ok {
		return c, true
	}
	if m := leadingBeds.FindStringSubmatch(key); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch {
		case n == 0:
			return BedStudio, true
		case n == 1:
			return BedOne, true
		case n == 2:
			return BedTwo, true
		default:
			return BedThreePlus, true
		}
	}
	return "", false
}
