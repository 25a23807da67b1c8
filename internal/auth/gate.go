package auth

import (
	"github.com/agency-admin-api/internal/models"
)

// Gate decides which route a navigation lands on
type Gate struct {
	sessions *Manager
}

func NewGate(sessions *Manager) *Gate {
	return &Gate{sessions: sessions}
}

// Resolve returns the route to render for a navigation to route with token.
// The login route is always reachable. Unknown routes fall back to the dashboard,
// and protected routes without a live session go to the login route.
func (g *Gate) Resolve(route models.AppRoute, token string) models.AppRoute {
	if route == models.RouteLogin {
		return route
	}
	if !isKnown(route) {
		route = models.RouteDashboard
	}
	if !g.sessions.Validate(token) {
		return models.RouteLogin
	}
	return route
}

// Authenticated reports whether token names a live session
func (g *Gate) Authenticated(token string) bool {
	return g.sessions.Validate(token)
}

func isKnown(route models.AppRoute) bool {
	for _, r := range models.ProtectedRoutes {
		if r == route {
			return true
		}
	}
	return false
}
