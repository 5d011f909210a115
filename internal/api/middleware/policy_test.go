package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/finance/bff-web/internal/core/domain"
)

var testPolicy = Policy{
	{Prefix: "/auth/login", Access: Public},
	{Prefix: "/bff/web/v1/", Access: Role(domain.RoleWebClient)},
}

func runAuthorize(t *testing.T, path string, principal *domain.Principal) (int, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if principal != nil {
		req = req.WithContext(WithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Authorize(testPolicy)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code, called
}

func TestAuthorize(t *testing.T) {
	web := &domain.Principal{Username: "usuario_web", Role: domain.RoleWebClient}
	other := &domain.Principal{Username: "ops", Role: "ADMIN"}

	tests := []struct {
		name      string
		path      string
		principal *domain.Principal
		wantCode  int
		wantNext  bool
	}{
		{"public anonymous", "/auth/login", nil, http.StatusOK, true},
		{"role route anonymous", "/bff/web/v1/accounts/1", nil, http.StatusUnauthorized, false},
		{"role route wrong role", "/bff/web/v1/accounts/1", other, http.StatusForbidden, false},
		{"role route right role", "/bff/web/v1/accounts/1", web, http.StatusOK, true},
		{"default anonymous", "/anything", nil, http.StatusUnauthorized, false},
		{"default any principal", "/anything", other, http.StatusOK, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, called := runAuthorize(t, tt.path, tt.principal)
			if code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, code)
			}
			if called != tt.wantNext {
				t.Fatalf("next called = %v, want %v", called, tt.wantNext)
			}
		})
	}
}
