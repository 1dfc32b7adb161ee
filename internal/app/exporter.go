package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/ixv/internal/core/history"
	"github.com/colonyops/ixv/internal/core/host"
	"github.com/colonyops/ixv/internal/core/logging"
)

// recordingExporter forwards exports and then appends them to the export
// history. A history failure is logged; the export itself already happened.
type recordingExporter struct {
	next    host.Exporter
	store   history.Store
	report  string
	maxSize int
	log     zerolog.Logger
}

// RecordingExporter wraps next so that every successful export is recorded
// in the history. A nil next only records.
func (s *Session) RecordingExporter(next host.Exporter) host.Exporter {
	if next == nil {
		next = host.Nop{}
	}
	return &recordingExporter{
		next:    next,
		store:   s.app.History,
		report:  s.Path,
		maxSize: s.app.Config.State.HistorySize,
		log:     logging.Component("export"),
	}
}

func (e *recordingExporter) Export(payload []byte) error {
	if err := e.next.Export(payload); err != nil {
		return err
	}

	ids, err := exportedIDs(payload)
	if err != nil {
		e.log.Warn().Err(err).Msg("export not recorded")
		return nil
	}

	entry := history.NewEntry(e.report, ids)
	if err := e.store.Save(context.Background(), entry, e.maxSize); err != nil {
		e.log.Error().Err(err).Str("entry", entry.ID).Msg("failed to record export")
	}
	return nil
}

func exportedIDs(payload []byte) ([]string, error) {
	var records []host.ExportRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids, nil
}
