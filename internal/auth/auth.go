// Package auth implements the admin console's session gate. It is a UI convenience
// gate with a single configured credential pair, not an access-control system.
package auth

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName carries the session token between requests
const CookieName = "ca_admin_token"

// ErrInvalidCredentials is returned by Login for a wrong username or password
var ErrInvalidCredentials = errors.New("invalid credentials")

// InvalidCredentialsMessage is the copy shown on a rejected login
const InvalidCredentialsMessage = "Invalid username or password. Please try again."

// Credentials is the accepted username and password
type Credentials struct {
	Username string
	Password string
}

// Policy controls session lifetime. A zero TTL never expires.
type Policy struct {
	TTL time.Duration
}

// Session is an issued login
type Session struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

func (s Session) expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Manager issues and checks sessions
type Manager struct {
	creds    Credentials
	policy   Policy
	now      func() time.Time
	newToken func() string

	mu       sync.Mutex
	sessions map[string]Session
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithClock overrides the time source
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithTokenGenerator overrides how session tokens are minted
func WithTokenGenerator(fn func() string) ManagerOption {
	return func(m *Manager) { m.newToken = fn }
}

// NewManager creates a session manager for the given credentials
func NewManager(creds Credentials, policy Policy, opts ...ManagerOption) *Manager {
	m := &Manager{
		creds:    creds,
		policy:   policy,
		now:      time.Now,
		newToken: uuid.NewString,
		sessions: make(map[string]Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login issues a session when username and password match exactly
func (m *Manager) Login(username, password string) (Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.creds.Password)) == 1
	if !userOK || !passOK {
		return Session{}, ErrInvalidCredentials
	}

	now := m.now()
	s := Session{Token: m.newToken(), IssuedAt: now}
	if m.policy.TTL > 0 {
		s.ExpiresAt = now.Add(m.policy.TTL)
	}

	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()
	return s, nil
}

// Logout forgets the session. Unknown tokens are ignored.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Validate reports whether token names a live session. Expired sessions are dropped.
func (m *Manager) Validate(token string) bool {
	if token == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return false
	}
	if s.expired(m.now()) {
		delete(m.sessions, token)
		return false
	}
	return true
}

// Active returns the number of live sessions
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for _, s := range m.sessions {
		if !s.expired(now) {
			n++
		}
	}
	return n
}
