package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/oksasatya/checklist-api/internal/application"
	"github.com/oksasatya/checklist-api/internal/domain/entity"
	repo "github.com/oksasatya/checklist-api/internal/domain/repository"
	handlers "github.com/oksasatya/checklist-api/internal/interface/http"
	"github.com/oksasatya/checklist-api/internal/interface/middleware"
	"github.com/oksasatya/checklist-api/pkg/googleauth"
	"github.com/oksasatya/checklist-api/pkg/helpers"
	"github.com/oksasatya/checklist-api/pkg/validation"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User // by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.users {
		if ex.Email == u.Email || ex.GoogleID == u.GoogleID {
			return repo.ErrConflict
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByGoogleID(_ context.Context, googleID string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Email = u.Email
	cur.Name = u.Name
	return nil
}

var _ repo.UserRepository = (*fakeUserRepo)(nil)

// credentialVerifier resolves credentials from a static table.
type credentialVerifier struct {
	identities map[string]*googleauth.Identity
}

func (v *credentialVerifier) Verify(_ context.Context, credential string) (*googleauth.Identity, error) {
	ident, ok := v.identities[credential]
	if !ok {
		return nil, googleauth.ErrVerification
	}
	return ident, nil
}

type authTestEnv struct {
	router *gin.Engine
	jwt    *helpers.JWTManager
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	jwt := helpers.NewJWTManager("auth-handler-secret", time.Minute)
	verifier := &credentialVerifier{identities: map[string]*googleauth.Identity{
		"good-credential": {GoogleID: "g-123", Email: "ada@example.com", Name: "Ada"},
	}}
	svc := app.NewAuthService(newFakeUserRepo(), verifier, jwt, nil)
	h := handlers.NewAuthHandler(svc, nil)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/google", h.GoogleLogin)
	me := api.Group("/")
	me.Use(middleware.Auth(jwt))
	me.GET("/auth/me", h.Me)
	return &authTestEnv{router: r, jwt: jwt}
}

func (e *authTestEnv) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestGoogleLogin_Success(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.post(t, "/api/auth/google", gin.H{"credential": "good-credential"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := envelopeData(t, w)
	assert.Equal(t, "bearer", data["token_type"])
	assert.NotEmpty(t, data["expires_at"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.Equal(t, "Ada", user["name"])

	// The issued token authenticates /auth/me for the same user.
	token := data["access_token"].(string)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	me := envelopeData(t, rec)
	assert.Equal(t, user["id"], me["id"])
	assert.Equal(t, "ada@example.com", me["email"])
}

func TestGoogleLogin_RepeatSignInKeepsUser(t *testing.T) {
	env := newAuthTestEnv(t)

	first := env.post(t, "/api/auth/google", gin.H{"credential": "good-credential"})
	require.Equal(t, http.StatusOK, first.Code)
	second := env.post(t, "/api/auth/google", gin.H{"credential": "good-credential"})
	require.Equal(t, http.StatusOK, second.Code)

	u1 := envelopeData(t, first)["user"].(map[string]any)
	u2 := envelopeData(t, second)["user"].(map[string]any)
	assert.Equal(t, u1["id"], u2["id"])
}

func TestGoogleLogin_BadCredential(t *testing.T) {
	env := newAuthTestEnv(t)
	w := env.post(t, "/api/auth/google", gin.H{"credential": "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGoogleLogin_MissingCredential(t *testing.T) {
	env := newAuthTestEnv(t)
	w := env.post(t, "/api/auth/google", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe_RequiresToken(t *testing.T) {
	env := newAuthTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_UnknownUser(t *testing.T) {
	env := newAuthTestEnv(t)
	token, _, err := env.jwt.Generate(uuid.NewString())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
