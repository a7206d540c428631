// Package calendar turns show records into an iCalendar (RFC 5545) feed.
//
// Each show becomes one VEVENT whose UID is a version 5 UUID of the session
// number under Namespace, so regenerating the feed updates events in calendar
// clients instead of duplicating them.
package calendar
