package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/cineco-calendar/internal/calendar"
	"github.com/pfrederiksen/cineco-calendar/internal/show"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatICS  OutputFormat = "ics"
	FormatJSON OutputFormat = "json"
)

// OutputResult is the JSON form of an extraction
type OutputResult struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Venue       string      `json:"venue"`
	Viewer      string      `json:"viewer,omitempty"`
	ShowCount   int         `json:"show_count"`
	Shows       []show.Show `json:"shows"`
}

// WriteShows outputs the extracted shows as indented JSON
func WriteShows(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// WriteCalendar outputs the calendar as an .ics document
func WriteCalendar(w io.Writer, cal *calendar.Calendar) error {
	if _, err := cal.WriteTo(w); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
