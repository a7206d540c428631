package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/cineco-calendar/internal/logger"
	"github.com/pfrederiksen/cineco-calendar/internal/show"
)

const (
	// VolunteerRole marks sessions staffed by volunteers rather than employees.
	VolunteerRole = "Benevoles"

	showRowSelector = `tr[data-type="show"]`
	namesAttr       = "data-names"
	minCells        = 7
)

// Listing columns
const (
	colID = iota
	colRole
	colVenue
	colDate
	colTitle
	colProjector
	colAssigned
)

var firstNamePattern = regexp.MustCompile(`^([\p{L}\p{M}\p{N}\p{Pc}]+)(\s.*)?$`)

// Extractor turns a listing page into show records.
type Extractor struct {
	loc *time.Location
}

// NewExtractor creates an Extractor reading listing dates as civil time in loc.
// A nil loc means UTC.
func NewExtractor(loc *time.Location) *Extractor {
	if loc == nil {
		loc = time.UTC
	}
	return &Extractor{loc: loc}
}

// Extract returns the volunteer shows of venue found in html, in document order.
// Malformed rows are skipped; a page without show rows yields an empty slice.
func (e *Extractor) Extract(html, venue string) []show.Show {
	shows := make([]show.Show, 0)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn("Unreadable listing page", logger.Fields{"error": err.Error()})
		return shows
	}

	var dropped int64
	doc.Find(showRowSelector).Each(func(_ int, row *goquery.Selection) {
		if s, ok := e.parseRow(row.Find("td"), venue); ok {
			shows = append(shows, s)
		} else {
			dropped++
		}
	})

	logger.AddCounter("extract.shows", int64(len(shows)))
	logger.AddCounter("extract.rows_dropped", dropped)

	return shows
}

// parseRow builds a Show from the cells of one listing row. It reports false
// when the row is not a volunteer show of venue or cannot be decoded.
func (e *Extractor) parseRow(cells *goquery.Selection, venue string) (show.Show, bool) {
	if cells.Length() < minCells {
		logger.Debug("Skipping row", logger.Fields{"reason": "too few cells", "cells": cells.Length()})
		return show.Show{}, false
	}

	if role := cellText(cells, colRole); role != VolunteerRole {
		return show.Show{}, false
	}
	if v := cellText(cells, colVenue); v != venue {
		return show.Show{}, false
	}

	dateText := cellText(cells, colDate)
	start, ok := parseDate(dateText, e.loc)
	if !ok {
		logger.Debug("Skipping row", logger.Fields{"reason": "unreadable date", "date": dateText})
		return show.Show{}, false
	}

	title := parseTitle(cells.Eq(colTitle))
	projector := cellText(cells, colProjector)

	var assignedTo []string
	if names, ok := cells.Eq(colAssigned).Attr(namesAttr); ok {
		assignedTo = parseFirstNames(names)
	}

	idText := cellText(cells, colID)
	id, err := strconv.ParseUint(idText, 10, 32)
	if err != nil {
		logger.Warn("Show row without a numeric session number", logger.Fields{
			"id":    idText,
			"title": title,
		})
		return show.Show{}, false
	}

	return show.New(uint32(id), title, start, projector, assignedTo), true
}

func cellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(cells.Eq(i).Text())
}

// parseTitle keeps the text before the first <br> of the title cell, at any
// depth; the second line holds extra information such as the version.
func parseTitle(cell *goquery.Selection) string {
	var b strings.Builder
	collectUntilBreak(cell, &b)
	return strings.TrimSpace(b.String())
}

// collectUntilBreak appends the text of sel in document order and reports
// false once a <br> has been reached.
func collectUntilBreak(sel *goquery.Selection, b *strings.Builder) bool {
	more := true
	sel.Contents().EachWithBreak(func(_ int, node *goquery.Selection) bool {
		switch goquery.NodeName(node) {
		case "br":
			more = false
		case "#text":
			b.WriteString(node.Text())
		default:
			more = collectUntilBreak(node, b)
		}
		return more
	})
	return more
}

// parseFirstNames reduces a "Jean Dupont, Marie Curie" list to its first
// names. Tokens that do not start with a word are left out.
func parseFirstNames(list string) []string {
	names := make([]string, 0)
	for _, token := range strings.Split(list, ", ") {
		if m := firstNamePattern.FindStringSubmatch(token); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}
