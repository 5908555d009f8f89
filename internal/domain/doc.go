// Package domain contains the canonical outage record model and the pure
// transformation logic applied to provider feed data: normalization
// (dedup, count coercion, county-name canonicalization, jurisdiction
// filtering), multi-value zip splitting, cross-provider zip aggregation
// for archival, and per-feed freshness state.
//
// Nothing in this package performs I/O. Adapters produce Report values,
// the pipeline runs them through Normalize and SplitGroupedZips, and the
// sync layer consumes the resulting Outage records.
package domain
