// Package scraper fetches the Cinegestion admin listing and extracts volunteer shows from it.
//
// The Client logs into the booking back-office with a cookie jar and downloads the
// listing page. The Extractor turns that page into show.Show records for one venue:
// rows with missing cells, another role or another venue, an unreadable date or a
// non-numeric session number are dropped without failing the whole extraction.
// Dates are written in French ("samedi 14 juin 2025 20:30") and interpreted as civil
// time in the venue's timezone.
package scraper
