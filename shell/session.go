package shell

import (
	"sync"
	"time"

	"canal-denuncies/dashboard"
	"canal-denuncies/wizard"
)

type View string

const (
	ViewHome      View = "home"
	ViewReport    View = "report"
	ViewDashboard View = "dashboard"
	ViewInfo      View = "info"
	ViewSettings  View = "settings"
	ViewSubmitted View = "submitted"
	ViewTracking  View = "tracking"
)

func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewReport, ViewDashboard, ViewInfo, ViewSettings, ViewSubmitted, ViewTracking:
		return true
	}
	return false
}

func (v View) adminOnly() bool {
	return v == ViewDashboard || v == ViewSettings
}

type CloudStatus string

const (
	CloudConnected CloudStatus = "connected"
	CloudSyncing   CloudStatus = "syncing"
	CloudError     CloudStatus = "error"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

type Toast struct {
	Kind    ToastKind `json:"type"`
	Message string    `json:"message"`
}

// Session is the state of one browser profile.
type Session struct {
	mu sync.Mutex

	id         string
	view       View
	adminUntil time.Time
	showLogin  bool
	loginError bool
	cloud      CloudStatus
	toasts     []Toast
	lastCode   string
	form       *wizard.Form
	board      *dashboard.Dashboard

	// loggedOutAt rejects tokens issued before the last logout.
	loggedOutAt time.Time
}

func newSession(id string) *Session {
	return &Session{id: id, view: ViewHome, cloud: CloudConnected}
}

func (s *Session) isAdminAt(now time.Time) bool {
	return !s.adminUntil.IsZero() && now.Before(s.adminUntil)
}

func (s *Session) toast(kind ToastKind, msg string) {
	s.toasts = append(s.toasts, Toast{Kind: kind, Message: msg})
}

func (s *Session) dropAdmin() {
	s.adminUntil = time.Time{}
	s.board = nil
}

// State is the shell snapshot returned to the client.
type State struct {
	View           View        `json:"view"`
	IsAdmin        bool        `json:"isAdmin"`
	ShowAdminLogin bool        `json:"showAdminLogin"`
	LoginError     bool        `json:"loginError"`
	CloudStatus    CloudStatus `json:"cloudStatus"`
	LastSubmitted  string      `json:"lastSubmittedCode,omitempty"`
	HasDraft       bool        `json:"hasDraft"`
	Toasts         []Toast     `json:"toasts"`
}

// State returns the session snapshot and drains its pending toasts.
func (a *App) State(clientID string) State {
	s := a.session(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return a.state(s)
}

func (a *App) state(s *Session) State {
	_, hasDraft := a.deps.Drafts.Load(s.id)
	if s.view.adminOnly() && !s.isAdminAt(a.now()) {
		s.dropAdmin()
		s.view = ViewHome
	}
	st := State{
		View:           s.view,
		IsAdmin:        s.isAdminAt(a.now()),
		ShowAdminLogin: s.showLogin,
		LoginError:     s.loginError,
		CloudStatus:    s.cloud,
		LastSubmitted:  s.lastCode,
		HasDraft:       hasDraft,
		Toasts:         s.toasts,
	}
	if st.Toasts == nil {
		st.Toasts = []Toast{}
	}
	s.toasts = nil
	return st
}

// Navigate switches view. Admin views without an admin session open the login
// prompt instead.
func (a *App) Navigate(clientID string, view View) (State, error) {
	if !view.Valid() {
		return State{}, ErrUnknownView
	}
	s := a.session(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case view.adminOnly() && !s.isAdminAt(a.now()):
		s.showLogin = true
		s.loginError = false
		return a.state(s), nil
	case view == ViewReport:
		a.openForm(s)
	case view == ViewSubmitted && s.lastCode == "":
		view = ViewHome
	}
	if view != ViewReport && view != ViewSubmitted {
		s.lastCode = ""
	}
	s.showLogin = false
	s.view = view
	return a.state(s), nil
}

// CloseLogin dismisses the admin login prompt.
func (a *App) CloseLogin(clientID string) State {
	s := a.session(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showLogin = false
	s.loginError = false
	return a.state(s)
}
