package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/newsroom-service/internal/core/domain"
	"github.com/duynhne/newsroom-service/internal/core/repository"
	logicv1 "github.com/duynhne/newsroom-service/internal/logic/v1"
)

const testCookie = "newsroom_session"

type stubUsers struct {
	rows map[string]domain.UserRow
}

func (s *stubUsers) GetByUsername(_ context.Context, username string) (*domain.UserRow, error) {
	r, ok := s.rows[username]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *stubUsers) List(_ context.Context) ([]domain.UserRow, error) {
	out := make([]domain.UserRow, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubUsers) UpdateLastLogin(context.Context, int) error { return nil }

type stubArticles struct {
	published []domain.Article
}

func (s *stubArticles) ListPublished(_ context.Context, req domain.PageRequest) ([]domain.Article, error) {
	if req.Offset >= len(s.published) {
		return []domain.Article{}, nil
	}
	end := req.Offset + req.Limit
	if end > len(s.published) {
		end = len(s.published)
	}
	return s.published[req.Offset:end], nil
}

func (s *stubArticles) ListAll(ctx context.Context, req domain.PageRequest) ([]domain.Article, error) {
	return s.ListPublished(ctx, req)
}

func (s *stubArticles) ListBreaking(context.Context, time.Time, int) ([]domain.Article, error) {
	return []domain.Article{{ID: 7, Title: "Flood warning", Breaking: true, Published: true}}, nil
}

func (s *stubArticles) GetPublished(_ context.Context, id int64) (*domain.Article, error) {
	for _, a := range s.published {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *stubArticles) Publish(_ context.Context, id int64, _ time.Time) (bool, error) {
	return id <= int64(len(s.published)), nil
}

func (s *stubArticles) Delete(_ context.Context, id int64) (bool, error) {
	return id <= int64(len(s.published)), nil
}

func (s *stubArticles) Categories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Slug: "world", Name: "World"}}, nil
}

func (s *stubArticles) Stats(context.Context) (domain.Stats, error) {
	return domain.Stats{Published: len(s.published)}, nil
}

func hash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

type failingDeleteStore struct {
	*repository.MemorySessionStore
}

func (failingDeleteStore) Delete(context.Context, string) error {
	return errors.New("connection reset")
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newRouterWithSessions(t, repository.NewMemorySessionStore())
}

func newRouterWithSessions(t *testing.T, sessions domain.SessionRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &stubUsers{rows: map[string]domain.UserRow{
		"ann": {ID: 1, Username: "ann", PasswordHash: hash(t, "s3cret"), Role: domain.RoleManager, Active: true},
		"ed":  {ID: 2, Username: "ed", PasswordHash: hash(t, "pw"), Role: domain.RoleEditor, Active: true},
		"vic": {ID: 3, Username: "vic", PasswordHash: hash(t, "pw"), Role: domain.RoleViewer, Active: true},
	}}
	var published []domain.Article
	for i := int64(1); i <= 24; i++ {
		published = append(published, domain.Article{ID: i, Title: "story", Published: true})
	}

	auth := logicv1.NewAuthService(users, sessions)
	h := NewHandler(
		auth,
		logicv1.NewGuard(auth, domain.DefaultPermissions()),
		logicv1.NewArticleService(&stubArticles{published: published}, users),
		CookieConfig{Name: testCookie},
		Settings{Service: "newsroom", Env: "test"},
	)

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(r *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, user, pw string) *http.Cookie {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/auth/login", `{"username":"`+user+`","password":"`+pw+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestLogin_SetsHTTPOnlyCookieAndProbeReturnsPrincipal(t *testing.T) {
	r := newRouter(t)

	cookie := login(t, r, "ann", "s3cret")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, int(domain.SessionTTL/time.Second), cookie.MaxAge)
	assert.NotEmpty(t, cookie.Value)

	w := do(r, http.MethodGet, "/api/v1/auth/me", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ann", resp.User.Username)
	assert.Equal(t, domain.RoleManager, resp.User.Role)
}

func TestLogin_BadCredentialsAreGeneric(t *testing.T) {
	r := newRouter(t)

	wrongPw := do(r, http.MethodPost, "/api/v1/auth/login", `{"username":"ann","password":"nope"}`)
	noUser := do(r, http.MethodPost, "/api/v1/auth/login", `{"username":"zed","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, noUser.Code)
	assert.JSONEq(t, wrongPw.Body.String(), noUser.Body.String())
	assert.Empty(t, wrongPw.Result().Cookies())
}

func TestLogin_MalformedBody(t *testing.T) {
	r := newRouter(t)
	w := do(r, http.MethodPost, "/api/v1/auth/login", `{"username":"ann"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe_BearerFallbackAndUnknownToken(t *testing.T) {
	r := newRouter(t)
	cookie := login(t, r, "vic", "pw")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/auth/me", "", &http.Cookie{Name: testCookie, Value: "fabricated"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_IdempotentAndInvalidates(t *testing.T) {
	r := newRouter(t)
	cookie := login(t, r, "ann", "s3cret")

	w := do(r, http.MethodPost, "/api/v1/auth/logout", "", cookie)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodPost, "/api/v1/auth/logout", "", cookie)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodPost, "/api/v1/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/v1/auth/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_StoreFailureStillClearsCookie(t *testing.T) {
	r := newRouterWithSessions(t, failingDeleteStore{repository.NewMemorySessionStore()})
	cookie := login(t, r, "ann", "s3cret")

	w := do(r, http.MethodPost, "/api/v1/auth/logout", "", cookie)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var cleared *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestAdmin_GuardMatrix(t *testing.T) {
	r := newRouter(t)
	manager := login(t, r, "ann", "s3cret")
	editor := login(t, r, "ed", "pw")
	viewer := login(t, r, "vic", "pw")

	tests := []struct {
		name   string
		method string
		path   string
		cookie *http.Cookie
		want   int
	}{
		{"anonymous dashboard", http.MethodGet, "/api/v1/admin/dashboard", nil, http.StatusUnauthorized},
		{"viewer dashboard", http.MethodGet, "/api/v1/admin/dashboard", viewer, http.StatusOK},
		{"viewer articles", http.MethodGet, "/api/v1/admin/articles", viewer, http.StatusForbidden},
		{"editor articles", http.MethodGet, "/api/v1/admin/articles", editor, http.StatusOK},
		{"editor users", http.MethodGet, "/api/v1/admin/users", editor, http.StatusForbidden},
		{"manager users", http.MethodGet, "/api/v1/admin/users", manager, http.StatusOK},
		{"manager settings", http.MethodGet, "/api/v1/admin/settings", manager, http.StatusOK},
		{"editor publishes", http.MethodPost, "/api/v1/admin/articles/3/publish", editor, http.StatusNoContent},
		{"editor publishes missing", http.MethodPost, "/api/v1/admin/articles/999/publish", editor, http.StatusNotFound},
		{"viewer deletes missing sees forbidden", http.MethodDelete, "/api/v1/admin/articles/999", viewer, http.StatusForbidden},
		{"viewer deletes existing sees forbidden", http.MethodDelete, "/api/v1/admin/articles/1", viewer, http.StatusForbidden},
		{"anonymous delete", http.MethodDelete, "/api/v1/admin/articles/1", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w *httptest.ResponseRecorder
			if tt.cookie != nil {
				w = do(r, tt.method, tt.path, "", tt.cookie)
			} else {
				w = do(r, tt.method, tt.path, "")
			}
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"Forbidden"}`, w.Body.String())
			}
		})
	}
}

func TestListArticles_Paging(t *testing.T) {
	r := newRouter(t)

	var page []domain.Article
	w := do(r, http.MethodGet, "/api/v1/articles?limit=10&offset=20", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page, 4)

	w = do(r, http.MethodGet, "/api/v1/articles?offset=100", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	for _, q := range []string{"limit=abc", "limit=500", "offset=-1", "category=x"} {
		w = do(r, http.MethodGet, "/api/v1/articles?"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestGetArticle_NotFound(t *testing.T) {
	r := newRouter(t)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/articles/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/articles/999", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/articles/zero", "").Code)
}

func TestBreaking(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/api/v1/breaking?window=6h", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Flood warning")

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/breaking?window=soon", "").Code)
}
