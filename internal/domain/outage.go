package domain

// AreaType is the granularity at which a feed reports outages.
type AreaType string

const (
	County AreaType = "County"
	Zip    AreaType = "ZIP"
)

// UnknownCount marks a count that was unavailable or could not be coerced
// to an integer. Downstream consumers treat it as "no data", never zero.
const UnknownCount = -9999

// MultiProviderTag replaces the provider abbreviation on an aggregated zip
// record once more than one provider has contributed to its total.
const MultiProviderTag = "MULTI"

// Report is a raw (area, outage count, customer count, state) tuple as
// parsed from a provider feed. Counts stay strings here because feeds
// report values like "1,204" and "Less than 5"; Normalize coerces them.
type Report struct {
	Provider  string
	Style     AreaType
	Area      string
	Outages   string
	Customers string
	State     string
}

// Outage is the canonical normalized record all adapters must yield.
// After Normalize it is treated as immutable; equality over its fields is
// the record's identity for dedup purposes.
type Outage struct {
	Provider  string
	Style     AreaType
	Area      string
	Outages   int
	Customers int
	State     string
}
