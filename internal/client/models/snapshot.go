package models

// Snapshot is an immutable copy of the catalog at a given version.
// Version increases by one after every successful write.
type Snapshot struct {
	Version uint64
	Users   []User
}

// NewSnapshot deep-copies users into a snapshot.
func NewSnapshot(version uint64, users []User) Snapshot {
	out := make([]User, len(users))
	for i := range users {
		out[i] = *users[i].Clone()
	}
	return Snapshot{Version: version, Users: out}
}

// Len returns the number of records.
func (s Snapshot) Len() int {
	return len(s.Users)
}

// Find returns a copy of the record with the given ID.
func (s Snapshot) Find(id int64) (*User, bool) {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return s.Users[i].Clone(), true
		}
	}
	return nil, false
}
