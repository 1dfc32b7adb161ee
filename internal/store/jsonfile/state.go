package jsonfile

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/ixv/internal/core/logging"
)

// StateFile is the root JSON structure of the per-report state.
type StateFile struct {
	Reports map[string]ReportState `json:"reports"`
}

// ReportState is what is remembered about one report.
type ReportState struct {
	Fragment  string    `json:"fragment"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StateStore keeps the last selection fragment of every report, keyed by
// the report's absolute path.
type StateStore struct {
	doc document[StateFile]
}

// NewStateStore creates a state store backed by the file at path.
func NewStateStore(path string) *StateStore {
	return &StateStore{doc: document[StateFile]{path: path}}
}

// Fragment returns the stored fragment for report, or "" when none is kept.
func (s *StateStore) Fragment(report string) (string, error) {
	file, err := s.doc.read()
	if err != nil {
		return "", err
	}
	return file.Reports[report].Fragment, nil
}

// SetFragment stores fragment for report. An empty fragment forgets the
// report.
func (s *StateStore) SetFragment(report, fragment string) error {
	return s.doc.update(func(file *StateFile) bool {
		if fragment == "" {
			if _, ok := file.Reports[report]; !ok {
				return false
			}
			delete(file.Reports, report)
			return true
		}

		if file.Reports == nil {
			file.Reports = make(map[string]ReportState)
		}
		file.Reports[report] = ReportState{Fragment: fragment, UpdatedAt: time.Now().UTC()}
		return true
	})
}

// Location binds the store to one report. The stored fragment is read once;
// writes go through to disk and failures are logged, not returned.
func (s *StateStore) Location(report string) *Location {
	l := &Location{
		store:  s,
		report: report,
		log:    logging.ReportComponent("state", report),
	}

	fragment, err := s.Fragment(report)
	if err != nil {
		l.log.Warn().Err(err).Msg("failed to read stored selection")
	}
	l.fragment = fragment
	return l
}

// Location is a persisted selection fragment for a single report.
type Location struct {
	store    *StateStore
	report   string
	fragment string
	log      zerolog.Logger
}

// Fragment returns the last fragment set, or the one loaded from disk.
func (l *Location) Fragment() string {
	return l.fragment
}

// SetFragment records fragment and persists it.
func (l *Location) SetFragment(fragment string) {
	if fragment == l.fragment {
		return
	}
	l.fragment = fragment
	if err := l.store.SetFragment(l.report, fragment); err != nil {
		l.log.Error().Err(err).Msg("failed to persist selection")
	}
}
