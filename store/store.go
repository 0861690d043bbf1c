// Package store is the report and settings adapter in front of the remote document
// store. Reads fall back to a local snapshot when the remote is unreachable; writes
// always advance the snapshot before the remote write is attempted.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"canal-denuncies/models"

	"github.com/apex/log"
)

var (
	ErrNotFound = errors.New("store: report not found")
	// ErrStale accompanies data served from the local snapshot after a remote failure.
	ErrStale = errors.New("store: remote unavailable, served from local cache")
)

const (
	reportsKey  = "reports"
	settingsKey = "settings"
)

// Remote is the cloud document store.
type Remote interface {
	FindAll(ctx context.Context) ([]models.Report, error)
	// FindByID returns ErrNotFound when no document has the id.
	FindByID(ctx context.Context, id string) (models.Report, error)
	ReplaceAll(ctx context.Context, reports []models.Report) error
	Insert(ctx context.Context, report models.Report) error
	Delete(ctx context.Context, id string) error
	// FindSettings reports found=false when the settings document does not exist.
	FindSettings(ctx context.Context) (settings models.AppSettings, found bool, err error)
	SaveSettings(ctx context.Context, settings models.AppSettings) error
}

// Snapshot is the local cache the store falls back to.
type Snapshot interface {
	Load(key string, v any) (bool, error)
	Save(key string, v any) error
}

type Store struct {
	// cacheMu covers every read-modify-write of the snapshot.
	cacheMu sync.Mutex

	remote   Remote
	cache    Snapshot
	timeout  time.Duration
	defaults models.AppSettings
	onStale  func(op string)
}

type Option func(*Store)

// WithTimeout bounds every remote call.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithStaleHook is called whenever a read is served from the snapshot.
func WithStaleHook(fn func(op string)) Option {
	return func(s *Store) { s.onStale = fn }
}

func New(remote Remote, cache Snapshot, opts ...Option) *Store {
	s := &Store{
		remote:   remote,
		cache:    cache,
		timeout:  8 * time.Second,
		defaults: models.AppSettings{ID: models.SettingsID},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) remoteCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) stale(op string, err error) {
	log.WithError(err).WithField("op", op).Warn("remote store unavailable, using local cache")
	if s.onStale != nil {
		s.onStale(op)
	}
}

// cached and remember expect cacheMu to be held.
func (s *Store) cached() []models.Report {
	var reports []models.Report
	if _, err := s.cache.Load(reportsKey, &reports); err != nil {
		log.WithError(err).Error("read reports snapshot")
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports
}

func (s *Store) remember(reports []models.Report) {
	if err := s.cache.Save(reportsKey, reports); err != nil {
		log.WithError(err).Error("write reports snapshot")
	}
}

// FetchAll returns every report, newest first.
func (s *Store) FetchAll(ctx context.Context) ([]models.Report, error) {
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	reports, err := s.remote.FindAll(rctx)
	if err != nil {
		s.stale("fetch_all", err)
		s.cacheMu.Lock()
		defer s.cacheMu.Unlock()
		return s.cached(), fmt.Errorf("fetch all: %w: %w", ErrStale, err)
	}
	if reports == nil {
		reports = []models.Report{}
	}
	sortNewestFirst(reports)
	s.cacheMu.Lock()
	s.remember(reports)
	s.cacheMu.Unlock()
	return reports, nil
}

// FetchByID looks up a single report. A cached copy is returned with ErrStale when
// the remote fails; a miss in both places is ErrNotFound.
func (s *Store) FetchByID(ctx context.Context, id string) (models.Report, error) {
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	report, err := s.remote.FindByID(rctx, id)
	switch {
	case err == nil:
		s.upsertCached(report)
		return report, nil
	case errors.Is(err, ErrNotFound):
		return models.Report{}, ErrNotFound
	}

	s.stale("fetch_by_id", err)
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	for _, r := range s.cached() {
		if r.ID == id {
			return r, fmt.Errorf("fetch %s: %w: %w", id, ErrStale, err)
		}
	}
	return models.Report{}, ErrNotFound
}

// SaveAll overwrites the whole collection.
func (s *Store) SaveAll(ctx context.Context, reports []models.Report) error {
	s.cacheMu.Lock()
	s.remember(reports)
	s.cacheMu.Unlock()

	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	if err := s.remote.ReplaceAll(rctx, reports); err != nil {
		return fmt.Errorf("save all: %w", err)
	}
	return nil
}

// Append stores one new report.
func (s *Store) Append(ctx context.Context, report models.Report) error {
	s.cacheMu.Lock()
	current := s.cached()
	updated := make([]models.Report, 0, len(current)+1)
	updated = append(updated, report)
	for _, r := range current {
		if r.ID != report.ID {
			updated = append(updated, r)
		}
	}
	s.remember(updated)
	s.cacheMu.Unlock()

	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	if err := s.remote.Insert(rctx, report); err != nil {
		return fmt.Errorf("append %s: %w", report.ID, err)
	}
	return nil
}

// Delete permanently removes one report.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.cacheMu.Lock()
	current := s.cached()
	kept := current[:0]
	for _, r := range current {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.remember(kept)
	s.cacheMu.Unlock()

	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	if err := s.remote.Delete(rctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// FetchSettings returns the shared settings. When no settings document exists an empty
// record is returned so callers fall back to the default PIN.
func (s *Store) FetchSettings(ctx context.Context) (models.AppSettings, error) {
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	settings, found, err := s.remote.FindSettings(rctx)
	if err != nil {
		s.stale("fetch_settings", err)
		var cached models.AppSettings
		s.cacheMu.Lock()
		ok, cerr := s.cache.Load(settingsKey, &cached)
		s.cacheMu.Unlock()
		if cerr != nil {
			log.WithError(cerr).Error("read settings snapshot")
		}
		if !ok || cerr != nil {
			cached = s.defaults
		}
		return cached, fmt.Errorf("fetch settings: %w: %w", ErrStale, err)
	}
	if !found || !settings.HasPIN() {
		return s.defaults, nil
	}
	s.cacheMu.Lock()
	if err := s.cache.Save(settingsKey, settings); err != nil {
		log.WithError(err).Error("write settings snapshot")
	}
	s.cacheMu.Unlock()
	return settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings models.AppSettings) error {
	settings.ID = models.SettingsID
	s.cacheMu.Lock()
	if err := s.cache.Save(settingsKey, settings); err != nil {
		log.WithError(err).Error("write settings snapshot")
	}
	s.cacheMu.Unlock()

	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	if err := s.remote.SaveSettings(rctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *Store) upsertCached(report models.Report) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	current := s.cached()
	for i := range current {
		if current[i].ID == report.ID {
			current[i] = report
			s.remember(current)
			return
		}
	}
	current = append(current, report)
	sortNewestFirst(current)
	s.remember(current)
}

func sortNewestFirst(reports []models.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}
