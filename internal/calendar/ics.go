package calendar

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pfrederiksen/cineco-calendar/internal/show"
)

const (
	Version = "2.0"
	ProdID  = "-//Cineco//cineco-calendar//FR"

	// SessionDuration is the assumed length of a screening; the listing has no end time.
	SessionDuration = 2 * time.Hour

	CategoryProjection = "PROJECTION"
	CategoryCinema     = "CINEMA"

	maxLineOctets = 75
)

// Namespace seeds the UIDs of show events. It must never change: calendar
// clients match regenerated events to existing ones by UID.
var Namespace = uuid.MustParse("4f345610-24a1-4c21-84cf-7f3efdf964d0")

// Event is one VEVENT of the feed
type Event struct {
	UID         string
	Start       time.Time
	End         time.Time
	Summary     string
	Description string
	Categories  []string
	Attendees   []string
	Confirmed   bool
}

// Calendar is a complete iCalendar document
type Calendar struct {
	ProdID string
	Name   string // X-WR-CALNAME, omitted when empty
	Events []Event
}

// EventUID returns the stable UID of the show with the given session number.
func EventUID(id uint32) string {
	return uuid.NewSHA1(Namespace, []byte(strconv.FormatUint(uint64(id), 10))).String()
}

// Synthesize maps every show to one event. Events where viewer is one of the
// projectionists are confirmed.
func Synthesize(shows []show.Show, viewer string) *Calendar {
	events := make([]Event, 0, len(shows))
	for _, s := range shows {
		events = append(events, NewEvent(s, viewer))
	}
	return &Calendar{
		ProdID: ProdID,
		Events: events,
	}
}

// NewEvent maps a single show to its calendar event.
func NewEvent(s show.Show, viewer string) Event {
	attendees := make([]string, len(s.AssignedTo))
	copy(attendees, s.AssignedTo)

	return Event{
		UID:         EventUID(s.ID),
		Start:       s.Start,
		End:         s.Start.Add(SessionDuration),
		Summary:     s.Title,
		Description: describe(s),
		Categories:  []string{CategoryProjection, CategoryCinema},
		Attendees:   attendees,
		Confirmed:   s.IsAssigned(viewer),
	}
}

func describe(s show.Show) string {
	return fmt.Sprintf("Numéro de séance: %d\nProjection du film '%s'\nProjectioniste(s): %s\nProjo: %s",
		s.ID, s.Title, strings.Join(s.AssignedTo, ", "), s.Projector)
}

// Serialize renders the calendar as RFC 5545 text.
func (c *Calendar) Serialize() string {
	var ics strings.Builder

	prodID := c.ProdID
	if prodID == "" {
		prodID = ProdID
	}

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:"+Version)
	writeLine(&ics, "PRODID:"+prodID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	if c.Name != "" {
		writeLine(&ics, "X-WR-CALNAME:"+escapeICS(c.Name))
	}

	for _, evt := range c.Events {
		writeEvent(&ics, evt)
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

// WriteTo writes the serialized calendar to w.
func (c *Calendar) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.Serialize())
	return int64(n), err
}

func writeEvent(ics *strings.Builder, evt Event) {
	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, "UID:"+evt.UID)

	// DTSTAMP follows the session so that a regenerated feed is byte-identical
	writeLine(ics, "DTSTAMP:"+formatICSTime(evt.Start))
	writeLine(ics, "DTSTART:"+formatICSTime(evt.Start))
	writeLine(ics, "DTEND:"+formatICSTime(evt.End))

	writeLine(ics, "SUMMARY:"+escapeICS(evt.Summary))
	writeLine(ics, "DESCRIPTION:"+escapeICS(evt.Description))
	for _, category := range evt.Categories {
		writeLine(ics, "CATEGORIES:"+escapeICS(category))
	}
	for _, attendee := range evt.Attendees {
		writeLine(ics, "ATTENDEE:"+attendee)
	}
	if evt.Confirmed {
		writeLine(ics, "STATUS:CONFIRMED")
	}

	writeLine(ics, "END:VEVENT")
}

// writeLine writes one content line, folded to 75 octets. Folds never split
// a UTF-8 sequence.
func writeLine(ics *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		limit = maxLineOctets - 1 // the leading space counts
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters of TEXT values (RFC 5545 3.3.11)
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
