package model

// Snapshot is an immutable, versioned view of the whole task store.
//
// Every simulation tick produces a new snapshot with the next version, the
// previous one is never modified.
type Snapshot struct {
	Version uint64
	Tasks   []Task
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{Version: s.Version}
	if s.Tasks != nil {
		c.Tasks = make([]Task, len(s.Tasks))
		for i, t := range s.Tasks {
			c.Tasks[i] = t.Clone()
		}
	}
	return c
}

// AllComplete returns true when every task of the snapshot is complete.
func (s Snapshot) AllComplete() bool {
	for _, t := range s.Tasks {
		if !t.Complete() {
			return false
		}
	}
	return true
}
