package main

import (
	"fmt"

	"github.com/kalambet/ptm/internal/planner"
	"github.com/kalambet/ptm/internal/storage"
	"github.com/kalambet/ptm/internal/views"
)

// session is one open store plus the controllers bound to it.
type session struct {
	store *storage.Store
	app   *views.App
}

// clock is swapped by tests to pin "today".
var clock views.Clock

func openSession() (*session, error) {
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	app := views.NewApp(planner.Open(store), views.Options{
		Clock:   clock,
		MaxDots: cfg.Calendar.MaxDots,
	})
	return &session{store: store, app: app}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		printWarning("closing storage: %v", err)
	}
}

// withSession opens a session, runs fn and closes the session.
func withSession(fn func(s *session) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func withApp(fn func(app *views.App) error) error {
	return withSession(func(s *session) error { return fn(s.app) })
}

func parseDateFlag(raw string) (planner.Date, error) {
	d, err := planner.ParseDate(raw)
	if err != nil {
		return planner.Date{}, fmt.Errorf("invalid date: %w", err)
	}
	return d, nil
}
