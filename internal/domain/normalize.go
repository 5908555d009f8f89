package domain

import (
	"strconv"
	"strings"
)

// State name constants used across providers. Feeds report a mix of
// abbreviations and full names; normalization settles on full names.
const (
	Delaware           = "Delaware"
	DistrictOfColumbia = "District Of Columbia"
	Maryland           = "Maryland"
	Pennsylvania       = "Pennsylvania"
	Virginia           = "Virginia"
	WestVirginia       = "West Virginia"
)

// MarylandCounties is the tracked jurisdiction list, including Baltimore City.
var MarylandCounties = []string{
	"Allegany", "Anne Arundel", "Baltimore", "Baltimore City", "Calvert",
	"Caroline", "Carroll", "Cecil", "Charles", "Dorchester", "Frederick",
	"Garrett", "Harford", "Howard", "Kent", "Montgomery", "Prince George's",
	"Queen Anne's", "St. Mary's", "Somerset", "Talbot", "Washington",
	"Wicomico", "Worcester",
}

var stateAbbrevs = map[string]string{
	"DC": DistrictOfColumbia,
	"DE": Delaware,
	"MD": Maryland,
	"PA": Pennsylvania,
	"VA": Virginia,
	"WV": WestVirginia,
}

// countyCorrections repairs county name spelling and punctuation variants
// observed in live feeds over the years.
var countyCorrections = map[string]string{
	"Prince Georges": "Prince George's",
	"St Marys":       "St. Mary's",
	"St Mary's":      "St. Mary's",
	"St. Marys":      "St. Mary's",
	"Queen Annes":    "Queen Anne's",
	"Kent (MD)":      "Kent",
}

// textual stand-ins some providers report instead of a small number
var countReplacements = map[string]int{
	"Less than 5": 1,
	"<5":          1,
}

// ExpandStateAbbrev exchanges a two-letter state abbreviation for the full
// state name, returning the input unchanged when it is not a known
// abbreviation (it may already be a full name).
func ExpandStateAbbrev(abbrev string) string {
	if full, ok := stateAbbrevs[abbrev]; ok {
		return full
	}
	return abbrev
}

// CoerceCount parses a feed count value to an integer. Thousands separators
// are removed, recognized textual stand-ins ("Less than 5", "<5") map to 1,
// and anything else unparseable resolves to UnknownCount rather than
// failing the record.
func CoerceCount(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, ok := countReplacements[raw]; ok {
		return n
	}
	cleaned := strings.ReplaceAll(raw, ",", "")
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return UnknownCount
	}
	return n
}

// CanonicalCountyName repairs known spelling and punctuation variants.
// All-uppercase names are title-cased first; mixed-case names are left
// alone because blanket title-casing breaks apostrophe-containing names
// (St. Mary's -> St. Mary'S).
func CanonicalCountyName(area string) string {
	if area != "" && area == strings.ToUpper(area) && area != strings.ToLower(area) {
		area = titleCase(area)
	}
	if corrected, ok := countyCorrections[area]; ok {
		return corrected
	}
	return area
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Normalize runs a provider's raw report list through the cleansing
// pipeline and returns canonical records:
//
//  1. duplicate reports collapse to one (identical in every field)
//  2. counts coerce to integers (with sentinel fallback)
//  3. county names are canonicalized and state abbreviations expanded
//  4. records outside targetState are dropped
//  5. zip-style records with zero outages are dropped
//
// Dedup runs before the filters so archive aggregation never double
// counts; coercion runs before the zero filter so "0" compares as 0.
// County zero records survive: county customer-count tracking needs them.
func Normalize(reports []Report, targetState string) []Outage {
	deduped := dedupReports(reports)

	outages := make([]Outage, 0, len(deduped))
	for _, r := range deduped {
		o := Outage{
			Provider:  r.Provider,
			Style:     r.Style,
			Area:      r.Area,
			Outages:   CoerceCount(r.Outages),
			Customers: CoerceCount(r.Customers),
			State:     ExpandStateAbbrev(r.State),
		}
		if o.Style == County {
			o.Area = CanonicalCountyName(o.Area)
		}
		if o.State != targetState {
			continue
		}
		if o.Style == Zip && o.Outages == 0 {
			continue
		}
		outages = append(outages, o)
	}
	return outages
}

// dedupReports collapses reports that are identical in every field,
// preserving first-seen order.
func dedupReports(reports []Report) []Report {
	seen := make(map[Report]struct{}, len(reports))
	out := make([]Report, 0, len(reports))
	for _, r := range reports {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
