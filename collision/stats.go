package collision

import "time"

// Stats are per-frame diagnostic counters. They never affect simulation.
type Stats struct {
	Pairs              int
	Collisions         int
	FastBodies         int
	FastBodyCollisions int
	TreeUpdates        int
	Contacts           map[string]*Contact

	Broadphase  time.Duration
	Narrowphase time.Duration
	Solve       time.Duration
}

func NewStats() *Stats {
	return &Stats{Contacts: make(map[string]*Contact)}
}

// Reset clears the counters for a new frame.
func (s *Stats) Reset() {
	if s == nil {
		return
	}
	*s = Stats{Contacts: s.Contacts}
	if s.Contacts == nil {
		s.Contacts = make(map[string]*Contact)
	}
	clear(s.Contacts)
}
