package inspector

import "github.com/colonyops/ixv/internal/core/report"

// Selection is the current item and the alternates presented with it. When
// current is set it is always one of the alternates.
type Selection struct {
	current    report.Item
	alternates []report.Item
}

// Current returns the selected item, or nil.
func (s Selection) Current() report.Item { return s.current }

// CurrentID returns the id of the selected item, or "".
func (s Selection) CurrentID() string {
	if s.current == nil {
		return ""
	}
	return s.current.ItemID()
}

// CurrentFact returns the selected item when it is a fact.
func (s Selection) CurrentFact() (*report.Fact, bool) {
	f, ok := s.current.(*report.Fact)
	return f, ok
}

func (s Selection) Alternates() []report.Item { return s.alternates }

func (s Selection) AlternateIDs() []string {
	ids := make([]string, 0, len(s.alternates))
	for _, it := range s.alternates {
		ids = append(ids, it.ItemID())
	}
	return ids
}

// Contains reports whether id is one of the alternates.
func (s Selection) Contains(id string) bool {
	return s.indexOf(id) >= 0
}

func (s Selection) indexOf(id string) int {
	for i, it := range s.alternates {
		if it.ItemID() == id {
			return i
		}
	}
	return -1
}

// Consistent reports whether the selection invariant holds.
func (s Selection) Consistent() bool {
	return s.current == nil || s.Contains(s.current.ItemID())
}

// setAlternates replaces the alternate list, keeping the current item.
func (s *Selection) setAlternates(items []report.Item) {
	s.alternates = items
}

// switchTo makes item current. An item outside the alternate list replaces
// the list with itself.
func (s *Selection) switchTo(item report.Item) {
	if item == nil {
		s.current = nil
		return
	}
	if !s.Contains(item.ItemID()) {
		s.alternates = []report.Item{item}
	}
	s.current = item
}

// alternate returns the alternate delta steps away from the current item,
// wrapping around.
func (s Selection) alternate(delta int) (report.Item, bool) {
	n := len(s.alternates)
	if n == 0 || s.current == nil {
		return nil, false
	}
	i := s.indexOf(s.current.ItemID())
	return s.alternates[((i+delta)%n+n)%n], true
}
