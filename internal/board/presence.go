package board

import (
	"sort"

	"whiteboard/internal/wire"
)

// Presence maps peer display names to their last known cursor position.
type Presence struct {
	cursors map[string]wire.Point
}

// NewPresence returns an empty cursor map.
func NewPresence() *Presence {
	return &Presence{cursors: make(map[string]wire.Point)}
}

// Update records the latest cursor position of username. Entries are
// replaced, never merged.
func (p *Presence) Update(username string, at wire.Point) {
	p.cursors[username] = at
}

// Remove forgets a peer's cursor, reporting whether it was known.
func (p *Presence) Remove(username string) bool {
	if _, ok := p.cursors[username]; !ok {
		return false
	}
	delete(p.cursors, username)
	return true
}

// Get returns the last known position of username.
func (p *Presence) Get(username string) (wire.Point, bool) {
	at, ok := p.cursors[username]
	return at, ok
}

// Len returns the number of known peers.
func (p *Presence) Len() int {
	return len(p.cursors)
}

// Names returns the known peers in sorted order.
func (p *Presence) Names() []string {
	names := make([]string, 0, len(p.cursors))
	for name := range p.cursors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
