package shell

import (
	"context"
	"errors"
	"io"
	"time"

	"canal-denuncies/auth"
	"canal-denuncies/dashboard"
	"canal-denuncies/metrics"
	"canal-denuncies/models"
	"canal-denuncies/tracking"

	"github.com/apex/log"
)

const (
	msgPINUpdated    = "PIN actualitzat correctament al núvol per a tots els administradors."
	msgPINSaveFailed = "Error en desar el nou PIN."
	msgPINTooShort   = "El PIN ha de tenir almenys 4 caràcters."
	msgSaveFailed    = "Error en desar els canvis al núvol."
	msgDeleteFailed  = "No s'ha pogut eliminar l'expedient."
	msgDeleted       = "Expedient eliminat definitivament."
)

// Login checks the PIN against the shared settings and opens an admin session.
// The returned token authenticates the admin API until it expires.
func (a *App) Login(ctx context.Context, clientID, pin string) (string, time.Time, error) {
	s := a.session(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := a.deps.Store.FetchSettings(ctx)
	if err != nil {
		// Stale or default settings still decide the login.
		s.cloud = CloudError
	}
	if !a.deps.Auth.VerifyPIN(&settings, pin) {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		s.loginError = true
		s.showLogin = true
		return "", time.Time{}, ErrWrongPIN
	}

	token, expires, err := a.deps.Auth.Issue(s.id)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", time.Time{}, err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	s.adminUntil = expires
	s.showLogin = false
	s.loginError = false
	s.view = ViewDashboard
	if err := a.refresh(ctx, s); err != nil {
		log.WithError(err).Warn("load reports after login")
	}
	log.WithField("session", s.id).Info("admin login")
	return token, expires, nil
}

// AdminToken is the part of a verified admin token the shell checks.
type AdminToken struct {
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ResumeAdmin restores admin state for a session holding a valid token, e.g. after
// a restart dropped the in-memory session. Tokens closed by Logout are refused.
func (a *App) ResumeAdmin(ctx context.Context, sessionID string, tok AdminToken) error {
	if tok.ID != "" && a.revoked.Contains(tok.ID) {
		return ErrTokenRevoked
	}
	s := a.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	// iat has second precision.
	if !s.loggedOutAt.IsZero() && tok.IssuedAt.Before(s.loggedOutAt.Truncate(time.Second)) {
		return ErrTokenRevoked
	}
	if s.isAdminAt(a.now()) {
		return nil
	}
	s.adminUntil = tok.ExpiresAt
	if err := a.refresh(ctx, s); err != nil {
		log.WithError(err).Warn("load reports on resumed session")
	}
	return nil
}

// Logout closes the admin session and revokes the token it was called with.
func (a *App) Logout(sessionID, tokenID string) State {
	if tokenID != "" {
		a.revoked.Add(tokenID, struct{}{})
	}
	s := a.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedOutAt = a.now()
	s.dropAdmin()
	s.view = ViewHome
	return a.state(s)
}

// UpdatePIN stores a new shared PIN. Concurrent updates are last-write-wins.
func (a *App) UpdatePIN(ctx context.Context, sessionID, pin string) error {
	return a.withAdmin(sessionID, func(s *Session) error {
		settings, err := a.deps.Auth.NewSettings(pin)
		if errors.Is(err, auth.ErrPINTooShort) {
			s.toast(ToastError, msgPINTooShort)
			return err
		}
		if err != nil {
			s.toast(ToastError, msgPINSaveFailed)
			return err
		}
		if err := a.deps.Store.SaveSettings(ctx, settings); err != nil {
			s.toast(ToastError, msgPINSaveFailed)
			return err
		}
		s.toast(ToastSuccess, msgPINUpdated)
		s.view = ViewDashboard
		return nil
	})
}

// Sync refetches the collection on demand.
func (a *App) Sync(ctx context.Context, sessionID string) (State, error) {
	var st State
	err := a.withAdmin(sessionID, func(s *Session) error {
		err := a.refresh(ctx, s)
		st = a.state(s)
		return err
	})
	return st, err
}

func (a *App) withAdmin(sessionID string, fn func(s *Session) error) error {
	s := a.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isAdminAt(a.now()) {
		return ErrNotAdmin
	}
	if s.board == nil {
		s.board = dashboard.New(a.deps.Store, nil)
	}
	return fn(s)
}

func (a *App) Reports(sessionID, query string) ([]models.Report, error) {
	var out []models.Report
	err := a.withAdmin(sessionID, func(s *Session) error {
		out = s.board.List(query)
		return nil
	})
	return out, err
}

func (a *App) Stats(sessionID string) (dashboard.Stats, error) {
	var out dashboard.Stats
	err := a.withAdmin(sessionID, func(s *Session) error {
		out = s.board.Stats()
		return nil
	})
	return out, err
}

func (a *App) Report(sessionID, id string) (models.Report, error) {
	var out models.Report
	err := a.withAdmin(sessionID, func(s *Session) error {
		r, err := s.board.Select(id)
		out = r
		return err
	})
	return out, err
}

// ChangeStatus fails with a toast when the remote rewrite fails; the local change
// is kept.
func (a *App) ChangeStatus(ctx context.Context, sessionID, id string, status models.Status) (models.Report, error) {
	return a.mutate(sessionID, id, func(b *dashboard.Dashboard) error {
		return b.ChangeStatus(ctx, id, status)
	})
}

func (a *App) SaveObservations(ctx context.Context, sessionID, id, text string) (models.Report, error) {
	return a.mutate(sessionID, id, func(b *dashboard.Dashboard) error {
		return b.SaveObservations(ctx, id, text)
	})
}

func (a *App) mutate(sessionID, id string, fn func(*dashboard.Dashboard) error) (models.Report, error) {
	var out models.Report
	err := a.withAdmin(sessionID, func(s *Session) error {
		err := fn(s.board)
		if err != nil && !errors.Is(err, dashboard.ErrNotFound) && !errors.Is(err, dashboard.ErrInvalidStatus) {
			s.cloud = CloudError
			s.toast(ToastError, msgSaveFailed)
		}
		out, _ = s.board.Select(id)
		return err
	})
	return out, err
}

func (a *App) RequestDelete(sessionID, id string) error {
	return a.withAdmin(sessionID, func(s *Session) error {
		return s.board.RequestDelete(id)
	})
}

func (a *App) ConfirmDelete(ctx context.Context, sessionID, id string) error {
	return a.withAdmin(sessionID, func(s *Session) error {
		err := s.board.ConfirmDelete(ctx, id)
		switch {
		case errors.Is(err, dashboard.ErrNoPendingDelete):
		case err != nil:
			s.toast(ToastError, msgDeleteFailed)
		default:
			s.toast(ToastSuccess, msgDeleted)
		}
		return err
	})
}

func (a *App) Print(w io.Writer, sessionID, id string) error {
	return a.withAdmin(sessionID, func(s *Session) error {
		return s.board.Print(w, id, a.cfg.Location)
	})
}

// Track looks up the public summary of a report for the tracking view.
func (a *App) Track(ctx context.Context, clientID, code string) (tracking.Summary, error) {
	s := a.session(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = ViewTracking
	summary, err := tracking.Lookup(ctx, a.deps.Store, code)
	if err != nil {
		return tracking.Summary{}, err
	}
	if summary.Stale {
		s.cloud = CloudError
	}
	return summary, nil
}
