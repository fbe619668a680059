// Package model defines the data structures shared by the crawler and the
// report writers.
//
// This package contains the following main types:
//   - Outcome: The immutable result of checking one URL
//   - Kind: The classification tag of an Outcome
//   - Summary: Aggregated outcomes of one crawl session
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Both the crawler and the report package need these types, so
// centralizing them prevents import cycles.
package model
