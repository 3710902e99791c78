package store

// ChangeKind identifies which mutation a Change reports
type ChangeKind string

const (
	Loaded           ChangeKind = "loaded"
	Ingested         ChangeKind = "ingested"
	Dropped          ChangeKind = "dropped"
	Cleared          ChangeKind = "cleared"
	Paused           ChangeKind = "paused"
	Resumed          ChangeKind = "resumed"
	FilterChanged    ChangeKind = "filter_changed"
	SelectionChanged ChangeKind = "selection_changed"
)

// Change describes an applied mutation. Count is the number of entries involved, if any.
// Seq is assigned under the store lock and grows by one per change in the order
// the changes were applied
type Change struct {
	Kind  ChangeKind
	Count int
	Seq   uint64
}

// Observer is called after a mutation has been applied, outside the store lock.
// Mutations racing on different goroutines may reach observers out of Seq
// order; an observer that cares drops changes older than the last Seq it saw
type Observer func(Change)

// OnChange registers fn for every subsequent change
func (s *store) OnChange(fn Observer) {
	if fn == nil {
		return
	}

	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	s.observers = append(s.observers, fn)
}

func (s *store) notify(c Change) {
	s.obsMu.RLock()
	observers := s.observers
	s.obsMu.RUnlock()

	for _, fn := range observers {
		fn(c)
	}
}

// record stamps c with the next sequence number; callers hold mu
func (s *store) record(c Change) Change {
	s.seq++
	c.Seq = s.seq

	return c
}

func pauseChange(paused bool) Change {
	if paused {
		return Change{Kind: Paused}
	}

	return Change{Kind: Resumed}
}
