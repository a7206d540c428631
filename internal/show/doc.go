// Package show defines the screening records extracted from the Cinegestion listing.
//
// A Show is one volunteer-staffed session at a venue. Records are built once per
// extraction from a single table row and are never modified afterwards; the
// calendar package consumes them to produce events.
package show
