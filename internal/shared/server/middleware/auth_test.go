package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"docscan-backend/internal/shared/auth"
)

func TestIdentityWithValidCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("SESSION_SECRET", "test-secret")

	token, err := auth.SignSession("google:42", "x@y.test", "X", "", time.Hour)
	if err != nil {
		t.Fatalf("SignSession: %v", err)
	}

	router := gin.New()
	router.Use(Identity())
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, UserIDFromContext(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Body.String() != "google:42" {
		t.Fatalf("expected user google:42, got %q", resp.Body.String())
	}
}

func TestIdentityWithoutCookieIsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("SESSION_SECRET", "test-secret")

	router := gin.New()
	router.Use(Identity())
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, "id=%s", UserIDFromContext(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected anonymous request to pass, got %d", resp.Code)
	}
	if resp.Body.String() != "id=" {
		t.Fatalf("expected empty identity, got %q", resp.Body.String())
	}
}

func TestIdentityWithGarbageCookieIsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("SESSION_SECRET", "test-secret")

	router := gin.New()
	router.Use(Identity())
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, "id=%s", UserIDFromContext(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "not-a-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected request with bad cookie to pass, got %d", resp.Code)
	}
	if resp.Body.String() != "id=" {
		t.Fatalf("expected empty identity, got %q", resp.Body.String())
	}
}
