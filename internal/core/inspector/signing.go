package inspector

import "github.com/colonyops/ixv/internal/core/report"

// SigningSet is the ordered set of facts staged for export. Entries are
// unique by id and are always facts.
type SigningSet struct {
	facts  []*report.Fact
	active bool
}

// Active reports whether selection mode is on.
func (s *SigningSet) Active() bool { return s.active }

// Enter turns selection mode on. The set is kept.
func (s *SigningSet) Enter() { s.active = true }

// Exit turns selection mode off. The set is kept.
func (s *SigningSet) Exit() { s.active = false }

// Toggle removes item if it is a member and adds it otherwise. Items that
// are not facts are ignored. It reports whether the set changed.
func (s *SigningSet) Toggle(item report.Item) bool {
	switch it := item.(type) {
	case *report.Fact:
		if i := s.indexOf(it.ID); i >= 0 {
			s.facts = append(s.facts[:i:i], s.facts[i+1:]...)
			return true
		}
		s.facts = append(s.facts, it)
		return true
	case *report.Footnote:
		return false
	default:
		return false
	}
}

func (s *SigningSet) indexOf(id string) int {
	for i, f := range s.facts {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (s *SigningSet) Contains(id string) bool { return s.indexOf(id) >= 0 }

func (s *SigningSet) Len() int { return len(s.facts) }

// Facts returns the members in insertion order.
func (s *SigningSet) Facts() []*report.Fact {
	return append([]*report.Fact(nil), s.facts...)
}

func (s *SigningSet) IDs() []string {
	ids := make([]string, 0, len(s.facts))
	for _, f := range s.facts {
		ids = append(ids, f.ID)
	}
	return ids
}

func (s *SigningSet) Clear() { s.facts = nil }
