package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/duynhne/newsroom-service/internal/core/domain"
	logicv1 "github.com/duynhne/newsroom-service/internal/logic/v1"
	"github.com/duynhne/newsroom-service/middleware"
	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Settings is the non-secret runtime configuration shown to managers.
type Settings struct {
	Service    string `json:"service"`
	Version    string `json:"version"`
	Env        string `json:"env"`
	CookieName string `json:"session_cookie"`
	SessionTTL string `json:"session_ttl"`
}

// Handler groups HTTP handlers for the newsroom API v1.
// Dependencies are injected via the constructor.
type Handler struct {
	auth     *logicv1.AuthService
	guard    *logicv1.Guard
	articles *logicv1.ArticleService
	cookie   CookieConfig
	settings Settings
}

// NewHandler creates a new Handler.
func NewHandler(auth *logicv1.AuthService, guard *logicv1.Guard, articles *logicv1.ArticleService, cookie CookieConfig, settings Settings) *Handler {
	return &Handler{
		auth:     auth,
		guard:    guard,
		articles: articles,
		cookie:   cookie,
		settings: settings,
	}
}

// RegisterRoutes registers all API v1 routes on the given router group.
// Every admin route names the operation class the guard checks.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/auth/me", h.GetMe)

	rg.GET("/categories", h.ListCategories)
	rg.GET("/articles", h.ListArticles)
	rg.GET("/articles/:id", h.GetArticle)
	rg.GET("/breaking", h.Breaking)

	admin := rg.Group("/admin")
	admin.GET("/dashboard", h.Require(domain.OpDashboardView), h.Dashboard)
	admin.GET("/articles", h.Require(domain.OpContentManage), h.AdminListArticles)
	admin.POST("/articles/:id/publish", h.Require(domain.OpContentManage), h.PublishArticle)
	admin.DELETE("/articles/:id", h.Require(domain.OpContentManage), h.DeleteArticle)
	admin.GET("/users", h.Require(domain.OpUsersManage), h.ListUsers)
	admin.GET("/settings", h.Require(domain.OpSettingsManage), h.GetSettings)
}

// Login handles HTTP request for staff login. On success the session token
// is set as an HTTP-only cookie; the body carries only the principal.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := pkgzerolog.FromContext(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Invalid login request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	sess, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, logicv1.ErrInvalidCredentials) {
			logger.Warn().Str("username", req.Username).Msg("Login rejected")
		} else {
			logger.Error().Err(err).Msg("Login failed")
		}
		writeError(c, err)
		return
	}

	h.setSessionCookie(c, sess.Token, int(domain.SessionTTL/time.Second))

	logger.Info().Int("user_id", sess.Principal.ID).Msg("Login successful")
	c.JSON(http.StatusOK, domain.AuthResponse{
		User:      sess.Principal,
		ExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout deletes the presented session and clears the cookie. It always
// succeeds; a store failure is logged and the record is left to expire.
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	logger := pkgzerolog.FromContext(ctx)

	if err := h.auth.Logout(ctx, h.sessionToken(c)); err != nil {
		logger.Error().Err(err).Msg("Session delete failed on logout")
	}

	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// GetMe is the session probe.
// GET /api/v1/auth/me
func (h *Handler) GetMe(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := pkgzerolog.FromContext(ctx)

	rec, err := h.auth.Authenticate(ctx, h.sessionToken(c))
	if err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Session probe failed")
		writeError(c, err)
		return
	}

	c.Set(middleware.UserIDKey, rec.Principal.ID)
	c.JSON(http.StatusOK, domain.AuthResponse{
		User:      rec.Principal,
		ExpiresAt: rec.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// sessionToken reads the token from the session cookie, falling back to an
// Authorization: Bearer header for non-browser clients.
func (h *Handler) sessionToken(c *gin.Context) string {
	if v, err := c.Cookie(h.cookie.Name); err == nil && v != "" {
		return v
	}

	const bearerPrefix = "Bearer "
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimSpace(authHeader[len(bearerPrefix):])
	}
	return ""
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}

// writeError maps the logic error taxonomy to a status and a generic body.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, logicv1.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, logicv1.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, logicv1.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, logicv1.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, logicv1.ErrInvalidRequest):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
