package investigation

import (
	"sync"

	"labqms/internal/domain/quality"
)

// Store is the in-memory working set behind an interactive session. The
// console loads it from the repository, mutates through the service, and
// refreshes collections wholesale. All methods are safe for concurrent use.
type Store struct {
	mu             sync.RWMutex
	investigations []quality.Investigation
	currentID      string
	auditTrail     []quality.AuditEntry
}

func NewStore() *Store {
	return &Store{}
}

// ReplaceInvestigations swaps the whole collection. The current selection is
// kept when its id survives the replacement and cleared otherwise.
func (s *Store) ReplaceInvestigations(items []quality.Investigation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.investigations = make([]quality.Investigation, len(items))
	copy(s.investigations, items)

	if s.currentID == "" {
		return
	}
	for _, inv := range s.investigations {
		if inv.ID == s.currentID {
			return
		}
	}
	s.currentID = ""
}

func (s *Store) Investigations() []quality.Investigation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]quality.Investigation, len(s.investigations))
	copy(out, s.investigations)
	return out
}

// SetCurrent selects an investigation by id; an empty id clears the
// selection.
func (s *Store) SetCurrent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		s.currentID = ""
		return nil
	}
	for _, inv := range s.investigations {
		if inv.ID == id {
			s.currentID = id
			return nil
		}
	}
	return quality.NotFoundError{Kind: "investigation", ID: id}
}

func (s *Store) Current() (quality.Investigation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentID == "" {
		return quality.Investigation{}, false
	}
	for _, inv := range s.investigations {
		if inv.ID == s.currentID {
			return inv, true
		}
	}
	return quality.Investigation{}, false
}

// UpdateInvestigation replaces one record in place; the selection follows
// automatically because Current reads by id.
func (s *Store) UpdateInvestigation(inv quality.Investigation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.investigations {
		if s.investigations[i].ID == inv.ID {
			s.investigations[i] = inv
			return nil
		}
	}
	return quality.NotFoundError{Kind: "investigation", ID: inv.ID}
}

// AppendAuditEntry prepends, keeping the trail newest first.
func (s *Store) AppendAuditEntry(entry quality.AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditTrail = append([]quality.AuditEntry{entry}, s.auditTrail...)
}

func (s *Store) AuditTrail() []quality.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]quality.AuditEntry, len(s.auditTrail))
	copy(out, s.auditTrail)
	return out
}
