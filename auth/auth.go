// Package auth checks the shared admin PIN and issues signed, expiring admin
// session tokens.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"canal-denuncies/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPINLength = 4
	RoleAdmin    = "admin"
)

var (
	ErrPINTooShort  = fmt.Errorf("auth: PIN must have at least %d characters", MinPINLength)
	ErrInvalidToken = errors.New("auth: invalid session token")
)

type Claims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret     []byte
	ttl        time.Duration
	defaultPIN string
	now        func() time.Time
}

func NewManager(secret string, ttl time.Duration, defaultPIN string) *Manager {
	return &Manager{
		secret:     []byte(secret),
		ttl:        ttl,
		defaultPIN: defaultPIN,
		now:        time.Now,
	}
}

// SetClock replaces the time source, for tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// VerifyPIN compares a PIN against the shared settings. Settings without a PIN (not
// loaded yet, or never stored) fall back to the default PIN.
func (m *Manager) VerifyPIN(settings *models.AppSettings, pin string) bool {
	if pin == "" {
		return false
	}
	switch {
	case settings != nil && settings.PinHash != "":
		return bcrypt.CompareHashAndPassword([]byte(settings.PinHash), []byte(pin)) == nil
	case settings != nil && settings.AdminPin != "":
		return subtle.ConstantTimeCompare([]byte(settings.AdminPin), []byte(pin)) == 1
	default:
		return subtle.ConstantTimeCompare([]byte(m.defaultPIN), []byte(pin)) == 1
	}
}

// NewSettings hashes a new PIN into a settings record.
func (m *Manager) NewSettings(pin string) (models.AppSettings, error) {
	if len([]rune(pin)) < MinPINLength {
		return models.AppSettings{}, ErrPINTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return models.AppSettings{}, fmt.Errorf("hash PIN: %w", err)
	}
	return models.AppSettings{
		ID:          models.SettingsID,
		PinHash:     string(hash),
		LastUpdated: m.now().UTC(),
	}, nil
}

// Issue signs an admin token bound to a client session.
func (m *Manager) Issue(sessionID string) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	claims := Claims{
		SessionID: sessionID,
		Role:      RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expires, nil
}

// Parse validates signature, expiry and role.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(m.now()) {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleAdmin || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
