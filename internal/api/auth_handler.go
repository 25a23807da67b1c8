package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/agency-admin-api/internal/auth"
	"github.com/agency-admin-api/internal/config"
	"github.com/agency-admin-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles login, logout and page navigation
type AuthHandler struct {
	sessions *auth.Manager
	gate     *auth.Gate
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions *auth.Manager, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		gate:     auth.NewGate(sessions),
		cfg:      cfg,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	session, err := h.sessions.Login(req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.log.Warn().Str("username", req.Username).Msg("Login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.InvalidCredentialsMessage})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	maxAge := int(h.cfg.Auth.SessionTTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, session.Token, maxAge, "/", "", false, true)

	h.log.Info().Msg("Login succeeded")
	c.JSON(http.StatusOK, session)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		h.sessions.Logout(token)
	}
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"redirect": string(models.RouteLogin)})
}

// Page handles GET on a console route: it renders the route or redirects through the gate
func (h *AuthHandler) Page(c *gin.Context) {
	h.navigate(c, models.AppRoute(c.Request.URL.Path))
}

// NotFound sends unknown page routes through the gate and answers JSON 404 for the API
func (h *AuthHandler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/v1/") || c.Request.Method != http.MethodGet {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.navigate(c, models.AppRoute(c.Request.URL.Path))
}

func (h *AuthHandler) navigate(c *gin.Context, route models.AppRoute) {
	target := h.gate.Resolve(route, sessionToken(c))
	if target != route {
		c.Redirect(http.StatusFound, string(target))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"route":         string(route),
		"authenticated": h.gate.Authenticated(sessionToken(c)),
	})
}

// requireSession rejects API calls without a live session
func requireSession(sessions *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.Validate(sessionToken(c)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "authentication required",
				"redirect": string(models.RouteLogin),
			})
			return
		}
		c.Next()
	}
}

// sessionToken reads the token from the Authorization header or the session cookie
func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if token, err := c.Cookie(auth.CookieName); err == nil {
		return token
	}
	return ""
}
