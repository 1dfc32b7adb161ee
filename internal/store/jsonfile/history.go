package jsonfile

import (
	"context"
	"slices"

	"github.com/colonyops/ixv/internal/core/history"
)

var _ history.Store = (*HistoryStore)(nil)

// HistoryFile is the on-disk layout of the export history.
type HistoryFile struct {
	Entries []history.Entry `json:"entries"`
}

// HistoryStore is the export history, newest entry first.
type HistoryStore struct {
	doc document[HistoryFile]
}

// NewHistoryStore creates a history store backed by the file at path.
func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{doc: document[HistoryFile]{path: path}}
}

func (s *HistoryStore) List(_ context.Context) ([]history.Entry, error) {
	file, err := s.doc.read()
	if err != nil {
		return nil, err
	}
	return file.Entries, nil
}

func (s *HistoryStore) Get(_ context.Context, id string) (history.Entry, error) {
	return s.first(func(e history.Entry) bool { return e.ID == id })
}

func (s *HistoryStore) Latest(_ context.Context, report string) (history.Entry, error) {
	return s.first(func(e history.Entry) bool { return e.Report == report })
}

func (s *HistoryStore) first(match func(history.Entry) bool) (history.Entry, error) {
	file, err := s.doc.read()
	if err != nil {
		return history.Entry{}, err
	}

	i := slices.IndexFunc(file.Entries, match)
	if i < 0 {
		return history.Entry{}, history.ErrNotFound
	}
	return file.Entries[i], nil
}

func (s *HistoryStore) Save(_ context.Context, entry history.Entry, maxEntries int) error {
	return s.doc.update(func(file *HistoryFile) bool {
		file.Entries = slices.Insert(file.Entries, 0, entry)
		if maxEntries > 0 && len(file.Entries) > maxEntries {
			file.Entries = file.Entries[:maxEntries]
		}
		return true
	})
}

func (s *HistoryStore) Clear(_ context.Context) error {
	return s.doc.update(func(file *HistoryFile) bool {
		file.Entries = []history.Entry{}
		return true
	})
}
