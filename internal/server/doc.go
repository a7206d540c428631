// Package server exposes the calendar feed over HTTP.
//
// GET /{venue}/{viewer} logs into Cinegestion, extracts the volunteer shows of
// the venue and answers with a text/calendar document. When Cinegestion cannot
// be reached the route answers 422 with a JSON error body.
package server
