package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/cineco-calendar/internal/calendar"
	"github.com/pfrederiksen/cineco-calendar/internal/scraper"
)

func main() {
	html, err := os.ReadFile("testdata/fixtures/listing.html")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading fixture: %v\n", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading timezone: %v\n", err)
		os.Exit(1)
	}

	shows := scraper.NewExtractor(loc).Extract(string(html), "Ste-Enimie")
	cal := calendar.Synthesize(shows, "Jean")
	cal.Name = "Cineco - Ste-Enimie"

	// Write to file (owner read/write only)
	filename := "sample-cineco.ics"
	if err := os.WriteFile(filename, []byte(cal.Serialize()), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s (%d events)\n\n", filename, len(cal.Events))
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app")
	fmt.Println("2. Or subscribe to the served feed from Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Print(cal.Serialize())
}
