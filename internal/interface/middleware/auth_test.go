package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/checklist-api/pkg/helpers"
)

func authTestRouter(t *testing.T, jwt *helpers.JWTManager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", Auth(jwt), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey))
	})
	return r
}

func TestAuth_ValidToken(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Minute)
	token, _, err := jwt.Generate("user-42")
	require.NoError(t, err)

	r := authTestRouter(t, jwt)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", w.Body.String())
}

func TestAuth_Rejections(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Minute)
	valid, _, err := jwt.Generate("user-42")
	require.NoError(t, err)

	other := helpers.NewJWTManager("other-secret", time.Minute)
	forged, _, err := other.Generate("user-42")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer   "},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong key", "Bearer " + forged},
		{"lowercase scheme", "bearer " + valid},
	}
	r := authTestRouter(t, jwt)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
