package relay

// Registry tracks which connection belongs to which room. It is owned by the
// hub goroutine and is not safe for concurrent use.
type Registry struct {
	rooms map[string]map[*Conn]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[*Conn]struct{})}
}

// Join moves c into room, leaving its previous room first. It reports the
// room that was left (empty if none), whether that room is now empty and
// whether room was created by this join.
func (r *Registry) Join(c *Conn, room string) (left string, leftEmptied, created bool) {
	if c.room == room {
		return "", false, false
	}
	if c.room != "" {
		left, leftEmptied = r.Leave(c)
	}

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[*Conn]struct{})
		r.rooms[room] = members
		created = true
	}
	members[c] = struct{}{}
	c.room = room
	return left, leftEmptied, created
}

// Leave removes c from its room and deletes the room once nobody is left.
func (r *Registry) Leave(c *Conn) (room string, emptied bool) {
	room = c.room
	if room == "" {
		return "", false
	}
	c.room = ""

	members, ok := r.rooms[room]
	if !ok {
		return room, false
	}
	delete(members, c)
	if len(members) == 0 {
		delete(r.rooms, room)
		return room, true
	}
	return room, false
}

// Members returns the connections joined to room, optionally skipping one.
func (r *Registry) Members(room string, except *Conn) []*Conn {
	members := r.rooms[room]
	out := make([]*Conn, 0, len(members))
	for c := range members {
		if c != except {
			out = append(out, c)
		}
	}
	return out
}

// Counts returns the member count of every live room.
func (r *Registry) Counts() map[string]int {
	out := make(map[string]int, len(r.rooms))
	for id, members := range r.rooms {
		out[id] = len(members)
	}
	return out
}
