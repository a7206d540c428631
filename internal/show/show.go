package show

import (
	"slices"
	"time"
)

// NoProjector is used when the listing carries no equipment information.
const NoProjector = "N/A"

// Show represents one scheduled screening staffed by volunteers
type Show struct {
	ID         uint32    `json:"id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"` // always UTC
	Projector  string    `json:"projector"`
	AssignedTo []string  `json:"assigned_to"` // first names, source order
}

// New creates a Show, normalizing the start time to UTC and replacing a
// missing projector or assignee list with their defaults.
func New(id uint32, title string, start time.Time, projector string, assignedTo []string) Show {
	if projector == "" {
		projector = NoProjector
	}
	if assignedTo == nil {
		assignedTo = []string{}
	}
	return Show{
		ID:         id,
		Title:      title,
		Start:      start.UTC(),
		Projector:  projector,
		AssignedTo: assignedTo,
	}
}

// IsAssigned reports whether viewer is one of the projectionists of the show.
// The comparison is an exact string match.
func (s Show) IsAssigned(viewer string) bool {
	return slices.Contains(s.AssignedTo, viewer)
}
