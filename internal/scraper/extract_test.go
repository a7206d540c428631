package scraper

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
)

// row renders one show row; names is omitted from the markup when empty.
func row(id, role, venue, date, title, projector, names string) string {
	attr := ""
	if names != "" {
		attr = fmt.Sprintf(` data-names="%s"`, names)
	}
	return fmt.Sprintf(`<tr data-type="show"><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td%s>x</td></tr>`,
		id, role, venue, date, title, projector, attr)
}

func page(rows ...string) string {
	return "<html><body><table><tbody>" + strings.Join(rows, "\n") + "</tbody></table></body></html>"
}

func TestExtract_EndToEndRow(t *testing.T) {
	e := NewExtractor(paris(t))
	html := page(row("42", "Benevoles", "Ste-Enimie", "samedi 14 juin 2025 20:30", "Movie Title <br>extra", "N/A", "Jean Dupont, Marie Curie"))

	shows := e.Extract(html, "Ste-Enimie")

	if len(shows) != 1 {
		t.Fatalf("Extract() returned %d shows, want 1", len(shows))
	}
	s := shows[0]
	if s.ID != 42 {
		t.Errorf("ID = %d, want 42", s.ID)
	}
	if s.Title != "Movie Title" {
		t.Errorf("Title = %q, want %q", s.Title, "Movie Title")
	}
	if want := time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC); !s.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", s.Start, want)
	}
	if s.Projector != "N/A" {
		t.Errorf("Projector = %q, want N/A", s.Projector)
	}
	if want := []string{"Jean", "Marie"}; !reflect.DeepEqual(s.AssignedTo, want) {
		t.Errorf("AssignedTo = %v, want %v", s.AssignedTo, want)
	}
}

func TestExtract_Filtering(t *testing.T) {
	const date = "samedi 14 juin 2025 20:30"

	tests := []struct {
		name    string
		html    string
		wantIDs []uint32
	}{
		{
			name:    "employee role is excluded",
			html:    page(row("1", "Salarié", "Ste-Enimie", date, "Film", "P1", "Jean Dupont")),
			wantIDs: nil,
		},
		{
			name:    "other venue is excluded",
			html:    page(row("2", "Benevoles", "Florac", date, "Film", "P1", "Jean Dupont")),
			wantIDs: nil,
		},
		{
			name:    "venue match is exact",
			html:    page(row("3", "Benevoles", "ste-enimie", date, "Film", "P1", "Jean Dupont")),
			wantIDs: nil,
		},
		{
			name: "too few cells",
			html: page(`<tr data-type="show"><td>4</td><td>Benevoles</td><td>Ste-Enimie</td><td>` + date + `</td><td>Film</td><td>P1</td></tr>`),
		},
		{
			name: "single cell row",
			html: page(`<tr data-type="show"><td>5</td></tr>`),
		},
		{
			name: "rows without show marker are ignored",
			html: page(`<tr data-type="meeting"><td>6</td><td>Benevoles</td><td>Ste-Enimie</td><td>` + date + `</td><td>AG</td><td>N/A</td><td data-names="Jean Dupont">1</td></tr>`),
		},
		{
			name: "unreadable date",
			html: page(row("7", "Benevoles", "Ste-Enimie", "bientôt", "Film", "P1", "")),
		},
		{
			name: "non numeric id",
			html: page(row("abc", "Benevoles", "Ste-Enimie", date, "Film", "P1", "")),
		},
		{
			name: "negative id",
			html: page(row("-8", "Benevoles", "Ste-Enimie", date, "Film", "P1", "")),
		},
		{
			name: "id overflowing 32 bits",
			html: page(row("4294967296", "Benevoles", "Ste-Enimie", date, "Film", "P1", "")),
		},
		{
			name: "mixed rows keep document order",
			html: page(
				row("30", "Benevoles", "Ste-Enimie", date, "C", "P1", ""),
				row("31", "Salarié", "Ste-Enimie", date, "X", "P1", ""),
				row("10", "Benevoles", "Ste-Enimie", "dimanche 15 juin 2025 18:00", "A", "P1", ""),
				row("20", "Benevoles", "Ste-Enimie", "vendredi 13 juin 2025 18:00", "B", "P1", ""),
			),
			wantIDs: []uint32{30, 10, 20},
		},
		{
			name: "no table at all",
			html: "<html><body><p>Aucune séance</p></body></html>",
		},
		{
			name: "empty document",
			html: "",
		},
	}

	e := NewExtractor(paris(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shows := e.Extract(tt.html, "Ste-Enimie")

			if shows == nil {
				t.Fatal("Extract() returned nil, want empty slice")
			}
			var ids []uint32
			for _, s := range shows {
				ids = append(ids, s.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("Extract() ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	e := NewExtractor(paris(t))
	html := page(
		row("1", "Benevoles", "Ste-Enimie", "samedi 14 juin 2025 20:30", "Film <br>VO", "P1", "Jean Dupont, Marie Curie"),
		row("2", "Benevoles", "Ste-Enimie", "dimanche 15 juin 2025 18:00", "Autre film", "", ""),
	)

	first := e.Extract(html, "Ste-Enimie")
	second := e.Extract(html, "Ste-Enimie")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Extract() is not idempotent:\n first = %+v\nsecond = %+v", first, second)
	}
}

func TestParseTitle(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want string
	}{
		{"plain", "Dune", "Dune"},
		{"trimmed", "   Dune  \n", "Dune"},
		{"second line dropped", "Movie Title <br>extra", "Movie Title"},
		{"self closing br", "Movie Title<br/>extra", "Movie Title"},
		{"only first line kept", "One<br>Two<br>Three", "One"},
		{"inline markup kept", "<b>Les</b> Misérables<br>VOST", "Les Misérables"},
		{"entities decoded", "Tom &amp; Jerry <br>VF", "Tom & Jerry"},
		{"empty first line", "<br>Only second", ""},
		{"br inside bold", "<b>Movie Title<br>VOST</b>", "Movie Title"},
		{"br inside span", "<span>Movie Title <br>extra</span>", "Movie Title"},
		{"br nested twice", "<i><b>Dune</b> <span>2<br>VF</span></i> 3D", "Dune 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := page(row("1", "Benevoles", "V", "samedi 14 juin 2025 20:30", tt.cell, "P", ""))
			shows := NewExtractor(time.UTC).Extract(html, "V")
			if len(shows) != 1 {
				t.Fatalf("Extract() returned %d shows, want 1", len(shows))
			}
			if shows[0].Title != tt.want {
				t.Errorf("title of %q = %q, want %q", tt.cell, shows[0].Title, tt.want)
			}
		})
	}
}

func TestParseFirstNames(t *testing.T) {
	tests := []struct {
		list string
		want []string
	}{
		{"Jean Dupont, Marie Curie", []string{"Jean", "Marie"}},
		{"Jean Dupont", []string{"Jean"}},
		{"Jean", []string{"Jean"}},
		{"Jean Dupont, Jean Valjean", []string{"Jean", "Jean"}},
		{"Élodie Martin, Zoë Kravitz", []string{"Élodie", "Zoë"}},
		{"Zoe\u0308 Kravitz, Jean Dupont", []string{"Zoe\u0308", "Jean"}}, // decomposed diaeresis
		{"Jean\u203fPierre Léaud", []string{"Jean\u203fPierre"}},          // connector punctuation
		{"Jean-Pierre Léaud", []string{}}, // the hyphen breaks the first word
		{"Jean Dupont, -Anne, Paul Durand", []string{"Jean", "Paul"}},
		{"", []string{}},
		{"Jean Dupont,Marie Curie", []string{"Jean"}}, // separator is comma-space
	}

	for _, tt := range tests {
		t.Run(tt.list, func(t *testing.T) {
			got := parseFirstNames(tt.list)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFirstNames(%q) = %#v, want %#v", tt.list, got, tt.want)
			}
		})
	}
}

func TestExtract_MissingNamesAttribute(t *testing.T) {
	html := page(row("9", "Benevoles", "V", "samedi 14 juin 2025 20:30", "Film", "", ""))

	shows := NewExtractor(time.UTC).Extract(html, "V")
	if len(shows) != 1 {
		t.Fatalf("Extract() returned %d shows, want 1", len(shows))
	}
	if shows[0].AssignedTo == nil || len(shows[0].AssignedTo) != 0 {
		t.Errorf("AssignedTo = %#v, want empty slice", shows[0].AssignedTo)
	}
	if shows[0].Projector != "N/A" {
		t.Errorf("Projector = %q, want N/A for an empty cell", shows[0].Projector)
	}
}

func TestNewExtractor_NilLocation(t *testing.T) {
	e := NewExtractor(nil)
	shows := e.Extract(page(row("1", "Benevoles", "V", "samedi 14 juin 2025 20:30", "Film", "P", "")), "V")
	if len(shows) != 1 {
		t.Fatalf("Extract() returned %d shows, want 1", len(shows))
	}
	if want := time.Date(2025, 6, 14, 20, 30, 0, 0, time.UTC); !shows[0].Start.Equal(want) {
		t.Errorf("Start = %v, want %v", shows[0].Start, want)
	}
}
