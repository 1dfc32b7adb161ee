// Package app wires the report, its collaborators and the stores into the
// pieces the commands and the TUI consume.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/ixv/internal/core/calc"
	"github.com/colonyops/ixv/internal/core/config"
	"github.com/colonyops/ixv/internal/core/history"
	"github.com/colonyops/ixv/internal/core/host"
	"github.com/colonyops/ixv/internal/core/inspector"
	"github.com/colonyops/ixv/internal/core/logging"
	"github.com/colonyops/ixv/internal/core/report"
	"github.com/colonyops/ixv/internal/core/search"
	"github.com/colonyops/ixv/internal/store/jsonfile"
)

// App is the central entry point shared by every command.
type App struct {
	Config  *config.Config
	State   *jsonfile.StateStore
	History history.Store
}

// New builds an App whose stores live in the configured data directory.
func New(cfg *config.Config) *App {
	return &App{
		Config:  cfg,
		State:   jsonfile.NewStateStore(cfg.StateFile()),
		History: jsonfile.NewHistoryStore(cfg.HistoryFile()),
	}
}

// Session is one loaded report and the collaborators built over it.
type Session struct {
	Path   string
	Report *report.Report
	Engine *search.Engine
	Calc   *calc.Resolver

	app *App
}

// Open loads the report at path. The search index is not built; call
// BuildIndex (usually in the background) before querying.
func (a *App) Open(path string) (*Session, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve report path: %w", err)
	}

	r, err := report.Load(abs)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("report", abs).
		Int("facts", len(r.Facts())).
		Int("footnotes", len(r.Footnotes())).
		Msg("report loaded")

	return &Session{
		Path:   abs,
		Report: r,
		Engine: search.New(r),
		Calc:   calc.New(r),
		app:    a,
	}, nil
}

// Context returns ctx annotated with the session's report for logging.
func (s *Session) Context(ctx context.Context) context.Context {
	return logging.WithReport(ctx, s.Path)
}

// BuildIndex builds the search index, logging how long it took.
func (s *Session) BuildIndex(ctx context.Context) error {
	ctx = s.Context(ctx)
	start := time.Now()
	if err := s.Engine.BuildIndex(ctx); err != nil {
		log.Error().Ctx(ctx).Err(err).Msg("search index build failed")
		return fmt.Errorf("build search index: %w", err)
	}
	log.Debug().Ctx(ctx).
		Int("periods", len(s.Engine.Periods())).
		Dur("took", time.Since(start)).
		Msg("search index ready")
	return nil
}

// Location returns where the selection of this report is persisted. With
// restore_selection off the selection only lives in memory.
func (s *Session) Location() inspector.Location {
	if !s.app.Config.State.RestoreSelection {
		return &inspector.MemoryLocation{}
	}
	return s.app.State.Location(s.Path)
}

// Inspector builds an inspector for the session. Exports are recorded in
// the export history before being handed to exporter.
func (s *Session) Inspector(viewer inspector.Viewer, notifier host.Notifier, exporter host.Exporter) *inspector.Inspector {
	return inspector.New(inspector.Deps{
		Index:            s.Report,
		Search:           s.Engine,
		Calc:             s.Calc,
		Viewer:           viewer,
		Notifier:         notifier,
		Exporter:         s.RecordingExporter(exporter),
		Location:         s.Location(),
		HighlightResults: s.app.Config.Search.HighlightResults,
	})
}

// Headless builds an inspector without a document view or host. Its
// location is in memory so headless runs never move the persisted
// selection. Exports go to exporter and are recorded in the history.
func (s *Session) Headless(exporter host.Exporter) *inspector.Inspector {
	return inspector.New(inspector.Deps{
		Index:    s.Report,
		Search:   s.Engine,
		Calc:     s.Calc,
		Viewer:   inspector.NopViewer{},
		Exporter: s.RecordingExporter(exporter),
	})
}
