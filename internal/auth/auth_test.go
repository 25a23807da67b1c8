package auth

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/agency-admin-api/internal/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestManager(ttl time.Duration, clock *fakeClock) *Manager {
	n := 0
	return NewManager(
		Credentials{Username: "admin", Password: "password123"},
		Policy{TTL: ttl},
		WithClock(clock.now),
		WithTokenGenerator(func() string { n++; return fmt.Sprintf("token-%d", n) }),
	)
}

func TestLogin(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := newTestManager(0, clock)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "admin", "password123", false},
		{"wrong password", "admin", "password", true},
		{"wrong username", "root", "password123", true},
		{"case sensitive", "Admin", "password123", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := m.Login(tt.username, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("Expected ErrInvalidCredentials, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login failed: %v", err)
			}
			if !m.Validate(s.Token) {
				t.Error("Expected issued token to validate")
			}
		})
	}
}

func TestInvalidCredentialsMessage(t *testing.T) {
	if InvalidCredentialsMessage != "Invalid username or password. Please try again." {
		t.Errorf("Unexpected message %q", InvalidCredentialsMessage)
	}
	if msg := ErrInvalidCredentials.Error(); msg != strings.ToLower(msg) || strings.HasSuffix(msg, ".") {
		t.Errorf("Expected a lower-case error string, got %q", msg)
	}
}

func TestLogout(t *testing.T) {
	m := newTestManager(0, &fakeClock{t: time.Now()})
	s, _ := m.Login("admin", "password123")

	m.Logout(s.Token)
	if m.Validate(s.Token) {
		t.Error("Expected token to be invalid after logout")
	}
	m.Logout("never-issued")
}

func TestSessionExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(time.Hour, clock)
	s, _ := m.Login("admin", "password123")

	clock.t = clock.t.Add(59 * time.Minute)
	if !m.Validate(s.Token) {
		t.Error("Expected session to be live before TTL")
	}

	clock.t = clock.t.Add(time.Minute)
	if m.Validate(s.Token) {
		t.Error("Expected session to expire at TTL")
	}
	if m.Active() != 0 {
		t.Errorf("Expected expired session to be dropped, got %d active", m.Active())
	}
}

func TestGate_ProjectsRequiresLogin(t *testing.T) {
	m := newTestManager(0, &fakeClock{t: time.Now()})
	gate := NewGate(m)

	if got := gate.Resolve(models.RouteProjects, ""); got != models.RouteLogin {
		t.Errorf("Expected redirect to login, got %s", got)
	}

	s, err := m.Login("admin", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if got := gate.Resolve(models.RouteProjects, s.Token); got != models.RouteProjects {
		t.Errorf("Expected projects to render after login, got %s", got)
	}
}

func TestGate_Routes(t *testing.T) {
	m := newTestManager(0, &fakeClock{t: time.Now()})
	gate := NewGate(m)
	s, _ := m.Login("admin", "password123")

	tests := []struct {
		name  string
		route models.AppRoute
		token string
		want  models.AppRoute
	}{
		{"login without session", models.RouteLogin, "", models.RouteLogin},
		{"unknown token", models.RouteCareers, "forged", models.RouteLogin},
		{"unknown route falls back to dashboard", "/nowhere", s.Token, models.RouteDashboard},
		{"unknown route without session", "/nowhere", "", models.RouteLogin},
		{"services with session", models.RouteServices, s.Token, models.RouteServices},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.Resolve(tt.route, tt.token); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
