// Package catalog reads catalog exports into core.SourceRecord values.
//
// The expected input is a Netflix-style CSV with a header row naming the
// columns (show_id, type, title, director, cast, country, date_added,
// release_year, rating, duration, listed_in, description). Columns may
// appear in any order and unknown columns are ignored.
package catalog
