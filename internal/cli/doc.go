// Package cli implements the command-line interface for cineco-calendar.
//
// The cli package provides the Cobra-based commands: serve runs the HTTP feed,
// generate renders one calendar (or the extracted shows as JSON) from a live
// Cinegestion fetch or from a saved listing page.
package cli
