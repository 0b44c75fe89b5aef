package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/services"
	"yelocar/internal/utils"
	"yelocar/pkg/cache"
	"yelocar/pkg/logger"

	"github.com/gin-gonic/gin"
)

const testSecret = "middleware-secret"

type sessions struct{}

func (sessions) ValidateSession(token string) (*utils.SessionClaims, error) {
	claims, err := utils.ValidateToken(token, testSecret)
	if err != nil {
		return nil, models.ErrUnauthorized
	}
	return claims, nil
}

type profiles map[string]models.Role

func (p profiles) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	role, ok := p[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &models.UserProfile{UID: userID, Role: role}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := utils.GenerateSessionToken(userID, userID+"@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	return tok
}

func newRouter(area services.Area) *gin.Engine {
	access := services.NewAccessService(profiles{"admin-1": models.RoleAdmin, "buyer-1": models.RoleBuyer}, logger.Discard())
	r := gin.New()
	r.Use(RequestIDMiddleware(), OptionalAuth(sessions{}))
	r.GET("/area", AreaRequired(access, area), func(c *gin.Context) {
		role, _ := Role(c)
		c.JSON(http.StatusOK, gin.H{"user": UserID(c), "role": role})
	})
	r.GET("/private", AuthRequired(sessions{}), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func do(r http.Handler, path, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAreaRequired(t *testing.T) {
	cases := []struct {
		name     string
		area     services.Area
		user     string
		status   int
		redirect string
	}{
		{"guest public", services.AreaPublic, "", http.StatusOK, ""},
		{"guest buyer", services.AreaBuyer, "", http.StatusUnauthorized, utils.PathSignIn},
		{"guest admin", services.AreaAdmin, "", http.StatusUnauthorized, utils.PathSignIn},
		{"buyer buyer", services.AreaBuyer, "buyer-1", http.StatusOK, ""},
		{"buyer admin", services.AreaAdmin, "buyer-1", http.StatusForbidden, utils.PathHome},
		{"admin buyer", services.AreaBuyer, "admin-1", http.StatusForbidden, utils.PathAdminDashboard},
		{"admin admin", services.AreaAdmin, "admin-1", http.StatusOK, ""},
		{"no profile buyer", services.AreaBuyer, "ghost", http.StatusOK, ""},
		{"no profile admin", services.AreaAdmin, "ghost", http.StatusForbidden, utils.PathHome},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok := ""
			if tc.user != "" {
				tok = token(t, tc.user)
			}
			w := do(newRouter(tc.area), "/area", tok)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
			}
			if tc.redirect == "" {
				return
			}
			var body struct {
				Data services.AccessDecision `json:"data"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Data.RedirectTo == nil || *body.Data.RedirectTo != tc.redirect {
				t.Fatalf("redirectTo = %v, want %s", body.Data.RedirectTo, tc.redirect)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	r := newRouter(services.AreaPublic)

	for _, tok := range []string{"", "garbage"} {
		w := do(r, "/private", tok)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: status = %d", tok, w.Code)
		}
		var body struct {
			Data services.AccessDecision `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Data.RedirectTo == nil || *body.Data.RedirectTo != utils.PathSignIn {
			t.Fatalf("token %q: redirectTo = %v", tok, body.Data.RedirectTo)
		}
	}
	if w := do(r, "/private", token(t, "buyer-1")); w.Code != http.StatusOK || w.Body.String() != "buyer-1" {
		t.Fatalf("valid token: %d %q", w.Code, w.Body.String())
	}
	if w := do(r, "/private?token="+token(t, "buyer-1"), ""); w.Code != http.StatusOK {
		t.Fatalf("query token: status = %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := newRouter(services.AreaPublic)
	w := do(r, "/area", "")
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("request id header missing")
	}

	req := httptest.NewRequest(http.MethodGet, "/area", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) != "req-42" {
		t.Fatalf("incoming request id not kept: %q", w.Header().Get(RequestIDHeader))
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	log := logger.Discard()
	store := services.NewCacheService(cache.NewMemoryCache(), log, "test", time.Minute)
	r := gin.New()
	r.Use(RateLimitMiddleware(store, 2, log))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := do(r, "/", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
	if w := do(r, "/", ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware(logger.Discard()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	if w := do(r, "/", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://yelocar.in"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://yelocar.in")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "https://yelocar.in" {
		t.Fatalf("allow origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign origin: status = %d", w.Code)
	}
}
