// Package shell orchestrates the per-client application state: view routing, the
// report form, the admin dashboard, toasts and the background resync.
package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"canal-denuncies/auth"
	"canal-denuncies/classify"
	"canal-denuncies/dashboard"
	"canal-denuncies/metrics"
	"canal-denuncies/models"
	"canal-denuncies/notify"
	"canal-denuncies/store"
	"canal-denuncies/wizard"

	"github.com/apex/log"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/robfig/cron/v3"
)

var (
	ErrUnknownView = errors.New("shell: unknown view")
	ErrNotAdmin    = errors.New("shell: admin session required")
	ErrWrongPIN    = errors.New("shell: wrong PIN")

	// ErrTokenRevoked rejects a token presented after its session logged out.
	ErrTokenRevoked = errors.New("shell: admin token revoked")
)

// ReportStore is implemented by *store.Store.
type ReportStore interface {
	FetchAll(ctx context.Context) ([]models.Report, error)
	FetchByID(ctx context.Context, id string) (models.Report, error)
	SaveAll(ctx context.Context, reports []models.Report) error
	Append(ctx context.Context, report models.Report) error
	Delete(ctx context.Context, id string) error
	FetchSettings(ctx context.Context) (models.AppSettings, error)
	SaveSettings(ctx context.Context, settings models.AppSettings) error
}

type Config struct {
	Entity             string
	AttachmentMaxBytes int64
	ResyncInterval     time.Duration
	SessionCacheSize   int
	SessionIdleTTL     time.Duration
	Location           *time.Location

	// TokenTTL bounds how long a revoked token id is remembered.
	TokenTTL time.Duration
}

type Deps struct {
	Store      ReportStore
	Drafts     *store.Drafts
	Auth       *auth.Manager
	Classifier classify.Classifier
	Notifier   notify.Notifier
	// Encoder stores accepted attachments; nil means inline data URLs.
	Encoder wizard.Encoder
}

type App struct {
	cfg  Config
	deps Deps
	now  func() time.Time

	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
	revoked  *expirable.LRU[string, struct{}]
	cron     *cron.Cron
}

func New(cfg Config, deps Deps) *App {
	if cfg.SessionCacheSize <= 0 {
		cfg.SessionCacheSize = 1024
	}
	if cfg.SessionIdleTTL <= 0 {
		cfg.SessionIdleTTL = 12 * time.Hour
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 8 * time.Hour
	}
	if cfg.ResyncInterval <= 0 {
		cfg.ResyncInterval = 2 * time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if deps.Encoder == nil {
		deps.Encoder = wizard.InlineEncoder{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Disabled{}
	}
	return &App{
		cfg:      cfg,
		deps:     deps,
		now:      time.Now,
		sessions: expirable.NewLRU[string, *Session](cfg.SessionCacheSize, nil, cfg.SessionIdleTTL),
		revoked:  expirable.NewLRU[string, struct{}](cfg.SessionCacheSize, nil, cfg.TokenTTL),
	}
}

// SetClock replaces the time source, for tests.
func (a *App) SetClock(now func() time.Time) {
	a.now = now
}

func (a *App) Location() *time.Location {
	return a.cfg.Location
}

// Start schedules the background resync.
func (a *App) Start() error {
	c := cron.New()
	spec := fmt.Sprintf("@every %s", a.cfg.ResyncInterval)
	if _, err := c.AddFunc(spec, func() { a.ResyncAll(context.Background()) }); err != nil {
		return fmt.Errorf("schedule resync: %w", err)
	}
	c.Start()
	a.cron = c
	log.WithField("interval", a.cfg.ResyncInterval).Info("background resync scheduled")
	return nil
}

// Stop waits for a running resync to finish.
func (a *App) Stop() {
	if a.cron == nil {
		return
	}
	<-a.cron.Stop().Done()
}

// session returns the client's session, creating it on first use. The LRU refreshes
// its idle timer on every access.
func (a *App) session(clientID string) *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.sessions.Get(clientID); ok {
		return s
	}
	s := newSession(clientID)
	a.sessions.Add(clientID, s)
	return s
}

func (s *Session) resyncDue(now time.Time) bool {
	return s.isAdminAt(now) && s.view == ViewDashboard
}

// ResyncAll refreshes the collection of every admin session that is looking at the
// dashboard. Failures only flip the cloud status. The fetch runs once and without
// holding any session lock.
func (a *App) ResyncAll(ctx context.Context) {
	var due []*Session
	for _, s := range a.sessions.Values() {
		s.mu.Lock()
		if s.resyncDue(a.now()) {
			s.cloud = CloudSyncing
			due = append(due, s)
		}
		s.mu.Unlock()
	}
	if len(due) == 0 {
		return
	}

	reports, err := a.deps.Store.FetchAll(ctx)
	metrics.ResyncTotal.WithLabelValues(metrics.Result(err)).Inc()

	for _, s := range due {
		s.mu.Lock()
		if s.resyncDue(a.now()) {
			a.apply(s, reports, err)
		}
		s.mu.Unlock()
	}
}

// refresh reloads the dashboard collection. Caller holds s.mu.
func (a *App) refresh(ctx context.Context, s *Session) error {
	s.cloud = CloudSyncing
	reports, err := a.deps.Store.FetchAll(ctx)
	metrics.ResyncTotal.WithLabelValues(metrics.Result(err)).Inc()
	a.apply(s, reports, err)
	return err
}

// apply installs a fetch result on the session. Caller holds s.mu.
func (a *App) apply(s *Session, reports []models.Report, err error) {
	if err != nil {
		s.cloud = CloudError
		if s.board == nil {
			s.board = dashboard.New(a.deps.Store, reports)
		}
		return
	}
	s.cloud = CloudConnected
	if s.board == nil {
		s.board = dashboard.New(a.deps.Store, reports)
	} else {
		s.board.Replace(reports)
	}
}
