// Package realtime polls the GTFS-RT service alerts feed and serves
// the active deviations from memory.
package realtime

import "sync"

// Deviation is one active service alert.
type Deviation struct {
	ID          string   `json:"id"`
	Header      string   `json:"header"`
	Description string   `json:"description,omitempty"`
	Effect      string   `json:"effect,omitempty"`
	Cause       string   `json:"cause,omitempty"`
	SiteIDs     []string `json:"siteIds,omitempty"`
	LineIDs     []string `json:"lineIds,omitempty"`
}

// Store holds the latest deviation snapshot. Reads vastly outnumber
// writes; the whole snapshot is swapped on each feed poll.
type Store struct {
	mu         sync.RWMutex
	deviations []Deviation
}

func NewStore() *Store {
	return &Store{}
}

// SetDeviations replaces the snapshot.
func (s *Store) SetDeviations(devs []Deviation) {
	s.mu.Lock()
	s.deviations = devs
	s.mu.Unlock()
}

// All returns every active deviation.
func (s *Store) All() []Deviation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Deviation, len(s.deviations))
	copy(out, s.deviations)
	return out
}

// ForSite returns deviations affecting the given site.
func (s *Store) ForSite(siteID string) []Deviation {
	return s.filter(func(d Deviation) bool {
		return contains(d.SiteIDs, siteID)
	})
}

// ForLine returns deviations affecting the given line.
func (s *Store) ForLine(lineID string) []Deviation {
	return s.filter(func(d Deviation) bool {
		return contains(d.LineIDs, lineID)
	})
}

func (s *Store) filter(keep func(Deviation) bool) []Deviation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Deviation
	for _, d := range s.deviations {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
