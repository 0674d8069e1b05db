package realtime

import (
	"testing"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

func sampleDeviations() []Deviation {
	return []Deviation{
		{ID: "d1", Header: "Elevator out of order", SiteIDs: []string{"9001"}},
		{ID: "d2", Header: "Reduced service", LineIDs: []string{"17", "18"}},
		{ID: "d3", Header: "Station closed", SiteIDs: []string{"9192"}, LineIDs: []string{"17"}},
	}
}

func TestStoreFilters(t *testing.T) {
	s := NewStore()
	s.SetDeviations(sampleDeviations())

	if got := len(s.All()); got != 3 {
		t.Errorf("All() len = %d, want 3", got)
	}

	forSite := s.ForSite("9001")
	if len(forSite) != 1 || forSite[0].ID != "d1" {
		t.Errorf("ForSite(9001) = %+v", forSite)
	}

	forLine := s.ForLine("17")
	if len(forLine) != 2 {
		t.Fatalf("ForLine(17) len = %d, want 2", len(forLine))
	}
	if forLine[0].ID != "d2" || forLine[1].ID != "d3" {
		t.Errorf("ForLine(17) = %+v", forLine)
	}

	if got := s.ForSite("unknown"); len(got) != 0 {
		t.Errorf("ForSite(unknown) = %+v, want empty", got)
	}
}

func TestStoreSnapshotIsolation(t *testing.T) {
	s := NewStore()
	s.SetDeviations(sampleDeviations())

	snapshot := s.All()
	snapshot[0].Header = "mutated"

	if s.All()[0].Header != "Elevator out of order" {
		t.Error("caller mutation leaked into store")
	}
}

func TestTranslationPreference(t *testing.T) {
	str := func(lang, text string) *gtfs.TranslatedString_Translation {
		return &gtfs.TranslatedString_Translation{
			Language: proto.String(lang),
			Text:     proto.String(text),
		}
	}

	tests := []struct {
		name string
		ts   *gtfs.TranslatedString
		want string
	}{
		{"nil", nil, ""},
		{"prefers swedish", &gtfs.TranslatedString{
			Translation: []*gtfs.TranslatedString_Translation{str("en", "closed"), str("sv", "stängd")},
		}, "stängd"},
		{"falls back to english", &gtfs.TranslatedString{
			Translation: []*gtfs.TranslatedString_Translation{str("fi", "suljettu"), str("en", "closed")},
		}, "closed"},
		{"first when neither", &gtfs.TranslatedString{
			Translation: []*gtfs.TranslatedString_Translation{str("fi", "suljettu")},
		}, "suljettu"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := translation(tc.ts); got != tc.want {
				t.Errorf("translation() = %q, want %q", got, tc.want)
			}
		})
	}
}
