package scraper

import (
	"regexp"
	"strconv"
	"time"
)

// Weekday (ignored), day of month, month name, year, hour, minute.
var datePattern = regexp.MustCompile(`(\p{L}+) (\d{2}) (\p{L}+) (\d{4}) (\d{2}):(\d{2})`)

var frenchMonths = map[string]time.Month{
	"janvier":   time.January,
	"février":   time.February,
	"mars":      time.March,
	"avril":     time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"août":      time.August,
	"septembre": time.September,
	"octobre":   time.October,
	"novembre":  time.November,
}

// parseMonth maps a French month name to its month. Every other name,
// "décembre" included, falls back to December.
func parseMonth(name string) time.Month {
	if m, ok := frenchMonths[name]; ok {
		return m
	}
	return time.December
}

// parseDate parses a listing date such as "samedi 14 juin 2025 20:30" as
// civil time in loc and returns the matching instant in UTC.
func parseDate(text string, loc *time.Location) (time.Time, bool) {
	m := datePattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	// The pattern only lets digits through, so Atoi cannot fail here.
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[4])
	hour, _ := strconv.Atoi(m[5])
	minute, _ := strconv.Atoi(m[6])

	return civilTime(year, parseMonth(m[3]), day, hour, minute, loc)
}

// civilTime resolves a wall clock reading in loc to a single instant.
// Readings that do not exist (impossible dates, spring-forward gaps) or that
// exist twice (fall-back overlaps) are rejected.
func civilTime(year int, month time.Month, day, hour, minute int, loc *time.Location) (time.Time, bool) {
	wall := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	if !sameWallClock(wall, year, month, day, hour, minute) {
		return time.Time{}, false
	}

	// Offsets a day before and after cover any transition near the reading.
	var found []time.Time
	for _, near := range []time.Time{wall.Add(-24 * time.Hour), wall.Add(24 * time.Hour)} {
		_, offset := near.In(loc).Zone()
		candidate := wall.Add(-time.Duration(offset) * time.Second)

		if !sameWallClock(candidate.In(loc), year, month, day, hour, minute) {
			continue
		}
		if len(found) == 1 && found[0].Equal(candidate) {
			continue
		}
		found = append(found, candidate)
	}

	if len(found) != 1 {
		return time.Time{}, false
	}
	return found[0].UTC(), true
}

func sameWallClock(t time.Time, year int, month time.Month, day, hour, minute int) bool {
	return t.Year() == year && t.Month() == month && t.Day() == day &&
		t.Hour() == hour && t.Minute() == minute
}
