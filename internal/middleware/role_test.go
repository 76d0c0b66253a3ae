package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRequireRole(t *testing.T) {
	testCases := []struct {
		name       string
		role       interface{}
		allowed    []string
		wantStatus int
	}{
		{
			name:       "admin allowed on admin route",
			role:       "admin",
			allowed:    []string{"admin"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "user rejected on admin route",
			role:       "user",
			allowed:    []string{"admin"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "user allowed on shared route",
			role:       "user",
			allowed:    []string{"admin", "user"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing role rejected",
			role:       nil,
			allowed:    []string{"admin"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "non-string role rejected",
			role:       42,
			allowed:    []string{"admin"},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != nil {
				c.Set("role", tc.role)
			}

			h := RequireRole(tc.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})

			err := h(c)
			assert.NoError(t, err)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
