package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/colonyops/ixv/internal/tui/components"
)

// keyMap holds every binding of the inspector outside the search input.
type keyMap struct {
	Quit   key.Binding
	Help   key.Binding
	Search key.Binding
	Focus  key.Binding
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	// SelectAll selects a result with every revealed result as alternates.
	SelectAll key.Binding

	NextTag       key.Binding
	PrevTag       key.Binding
	NextDuplicate key.Binding
	PrevDuplicate key.Binding
	NextAlternate key.Binding
	PrevAlternate key.Binding
	CycleRole     key.Binding
	FullValue     key.Binding

	ShowMore     key.Binding
	ResetFilters key.Binding
	CyclePeriod  key.Binding
	CycleType    key.Binding
	ToggleHidden key.Binding
	ToggleShown  key.Binding

	SelectionMode key.Binding
	ToggleSigning key.Binding
	Done          key.Binding
	Cancel        key.Binding
	ShowSigned    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select / follow link")),
		SelectAll: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "select with all results")),

		NextTag:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next tag")),
		PrevTag:       key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "previous tag")),
		NextDuplicate: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next duplicate")),
		PrevDuplicate: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous duplicate")),
		NextAlternate: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "next alternate")),
		PrevAlternate: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "previous alternate")),
		CycleRole:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next calculation role")),
		FullValue:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "show full value")),

		ShowMore:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "show more results")),
		ResetFilters: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset filters")),
		CyclePeriod:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "cycle period")),
		CycleType:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle concept type")),
		ToggleHidden: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "toggle hidden facts")),
		ToggleShown:  key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "toggle visible facts")),

		SelectionMode: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "selection mode")),
		ToggleSigning: key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "stage / unstage result")),
		Done:          key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "send staged facts")),
		Cancel:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "discard staged facts")),
		ShowSigned:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "highlight signed facts")),
	}
}

func helpSections(k keyMap) []components.HelpSection {
	section := func(title string, bindings ...key.Binding) components.HelpSection {
		s := components.HelpSection{Title: title}
		for _, b := range bindings {
			h := b.Help()
			s.Entries = append(s.Entries, components.HelpEntry{Key: h.Key, Desc: h.Desc})
		}
		return s
	}

	return []components.HelpSection{
		section("General", k.Quit, k.Help, k.Focus, k.Up, k.Down, k.Select),
		section("Navigation", k.NextTag, k.PrevTag, k.NextDuplicate, k.PrevDuplicate,
			k.NextAlternate, k.PrevAlternate, k.CycleRole, k.FullValue),
		section("Search", k.Search, k.SelectAll, k.ShowMore, k.ResetFilters,
			k.CyclePeriod, k.CycleType, k.ToggleHidden, k.ToggleShown),
		section("Signing", k.SelectionMode, k.ToggleSigning, k.Done, k.Cancel, k.ShowSigned),
	}
}
