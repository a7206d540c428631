package scraper

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/listing.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func TestExtract_Fixture(t *testing.T) {
	e := NewExtractor(paris(t))
	shows := e.Extract(loadFixture(t), "Ste-Enimie")

	type want struct {
		id         uint32
		title      string
		start      time.Time
		projector  string
		assignedTo []string
	}
	expected := []want{
		{42, "Movie Title", time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC), "N/A", []string{"Jean", "Marie"}},
		{47, "Le Comte de Monte-Cristo", time.Date(2025, 1, 15, 17, 0, 0, 0, time.UTC), "Projecteur 2", []string{}},
		{48, "Wicked", time.Date(2025, 12, 5, 20, 0, 0, 0, time.UTC), "N/A", []string{"Élodie", "Paul"}},
	}

	if len(shows) != len(expected) {
		t.Fatalf("Extract() returned %d shows, want %d: %+v", len(shows), len(expected), shows)
	}

	for i, w := range expected {
		s := shows[i]
		if s.ID != w.id {
			t.Errorf("shows[%d].ID = %d, want %d", i, s.ID, w.id)
		}
		if s.Title != w.title {
			t.Errorf("shows[%d].Title = %q, want %q", i, s.Title, w.title)
		}
		if !s.Start.Equal(w.start) {
			t.Errorf("shows[%d].Start = %v, want %v", i, s.Start, w.start)
		}
		if s.Projector != w.projector {
			t.Errorf("shows[%d].Projector = %q, want %q", i, s.Projector, w.projector)
		}
		if !reflect.DeepEqual(s.AssignedTo, w.assignedTo) {
			t.Errorf("shows[%d].AssignedTo = %#v, want %#v", i, s.AssignedTo, w.assignedTo)
		}
	}
}

func TestExtract_FixtureOtherVenue(t *testing.T) {
	shows := NewExtractor(paris(t)).Extract(loadFixture(t), "Florac")

	if len(shows) != 1 {
		t.Fatalf("Extract() returned %d shows, want 1", len(shows))
	}
	if shows[0].ID != 44 || shows[0].Title != "Tom & Jerry" {
		t.Errorf("shows[0] = %+v, want id 44 \"Tom & Jerry\"", shows[0])
	}
}

func TestExtract_FixtureUnknownVenue(t *testing.T) {
	shows := NewExtractor(paris(t)).Extract(loadFixture(t), "Mende")
	if len(shows) != 0 {
		t.Errorf("Extract() returned %d shows for an unknown venue, want 0", len(shows))
	}
}
