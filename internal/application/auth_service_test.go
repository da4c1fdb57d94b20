package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/checklist-api/internal/domain/entity"
	repo "github.com/oksasatya/checklist-api/internal/domain/repository"
	"github.com/oksasatya/checklist-api/pkg/googleauth"
	"github.com/oksasatya/checklist-api/pkg/helpers"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = "generated-id"
		u.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*entity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	args := m.Called(ctx, googleID)
	if u, ok := args.Get(0).(*entity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

type fakeVerifier struct {
	identity *googleauth.Identity
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*googleauth.Identity, error) {
	return f.identity, f.err
}

func newAuthService(users repo.UserRepository, v googleauth.Verifier) *AuthService {
	return NewAuthService(users, v, helpers.NewJWTManager("testsecret", time.Minute), nil)
}

func TestLoginWithGoogle_FirstSignInCreatesUser(t *testing.T) {
	users := new(mockUserRepo)
	verifier := &fakeVerifier{identity: &googleauth.Identity{GoogleID: "g-1", Email: "a@example.com", Name: "Alice"}}
	svc := newAuthService(users, verifier)
	ctx := context.Background()

	users.On("GetByGoogleID", mock.Anything, "g-1").Return(nil, repo.ErrNotFound).Once()
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.GoogleID == "g-1" && u.Email == "a@example.com" && u.Name == "Alice"
	})).Return(nil).Once()

	res, err := svc.LoginWithGoogle(ctx, "credential")
	require.NoError(t, err)
	assert.Equal(t, "generated-id", res.User.ID)
	assert.NotEmpty(t, res.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Minute), res.ExpiresAt, 5*time.Second)

	sub, err := svc.JWT.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, sub)

	users.AssertExpectations(t)
}

func TestLoginWithGoogle_ExistingUserUnchanged(t *testing.T) {
	users := new(mockUserRepo)
	existing := &entity.User{ID: "u-1", GoogleID: "g-1", Email: "a@example.com", Name: "Alice"}
	verifier := &fakeVerifier{identity: &googleauth.Identity{GoogleID: "g-1", Email: "a@example.com", Name: "Alice"}}
	svc := newAuthService(users, verifier)

	users.On("GetByGoogleID", mock.Anything, "g-1").Return(existing, nil).Once()

	res, err := svc.LoginWithGoogle(context.Background(), "credential")
	require.NoError(t, err)
	assert.Equal(t, "u-1", res.User.ID)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestLoginWithGoogle_ProfileChangeUpdates(t *testing.T) {
	users := new(mockUserRepo)
	existing := &entity.User{ID: "u-1", GoogleID: "g-1", Email: "old@example.com", Name: "Old Name"}
	verifier := &fakeVerifier{identity: &googleauth.Identity{GoogleID: "g-1", Email: "new@example.com", Name: "New Name"}}
	svc := newAuthService(users, verifier)

	users.On("GetByGoogleID", mock.Anything, "g-1").Return(existing, nil).Once()
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.ID == "u-1" && u.Email == "new@example.com" && u.Name == "New Name"
	})).Return(nil).Once()

	res, err := svc.LoginWithGoogle(context.Background(), "credential")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", res.User.Email)
	users.AssertExpectations(t)
}

func TestLoginWithGoogle_SignupRaceRetriesLookup(t *testing.T) {
	users := new(mockUserRepo)
	winner := &entity.User{ID: "u-other", GoogleID: "g-1", Email: "a@example.com", Name: "Alice"}
	verifier := &fakeVerifier{identity: &googleauth.Identity{GoogleID: "g-1", Email: "a@example.com", Name: "Alice"}}
	svc := newAuthService(users, verifier)

	users.On("GetByGoogleID", mock.Anything, "g-1").Return(nil, repo.ErrNotFound).Once()
	users.On("Create", mock.Anything, mock.Anything).Return(repo.ErrConflict).Once()
	users.On("GetByGoogleID", mock.Anything, "g-1").Return(winner, nil).Once()

	res, err := svc.LoginWithGoogle(context.Background(), "credential")
	require.NoError(t, err)
	assert.Equal(t, "u-other", res.User.ID)
	users.AssertExpectations(t)
}

func TestLoginWithGoogle_EmailTakenByOtherAccount(t *testing.T) {
	users := new(mockUserRepo)
	verifier := &fakeVerifier{identity: &googleauth.Identity{GoogleID: "g-1", Email: "a@example.com", Name: "Alice"}}
	svc := newAuthService(users, verifier)

	users.On("GetByGoogleID", mock.Anything, "g-1").Return(nil, repo.ErrNotFound).Twice()
	users.On("Create", mock.Anything, mock.Anything).Return(repo.ErrConflict).Once()

	_, err := svc.LoginWithGoogle(context.Background(), "credential")
	assert.ErrorIs(t, err, repo.ErrConflict)
	users.AssertExpectations(t)
}

func TestLoginWithGoogle_BadCredential(t *testing.T) {
	users := new(mockUserRepo)
	verifier := &fakeVerifier{err: googleauth.ErrVerification}
	svc := newAuthService(users, verifier)

	_, err := svc.LoginWithGoogle(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginWithGoogle_StoreError(t *testing.T) {
	users := new(mockUserRepo)
	verifier := &fakeVerifier{identity: &googleauth.Identity{GoogleID: "g-1", Email: "a@example.com", Name: "Alice"}}
	svc := newAuthService(users, verifier)

	boom := errors.New("connection lost")
	users.On("GetByGoogleID", mock.Anything, "g-1").Return(nil, boom).Once()

	_, err := svc.LoginWithGoogle(context.Background(), "credential")
	assert.ErrorIs(t, err, boom)
}

func TestGetUser(t *testing.T) {
	users := new(mockUserRepo)
	svc := newAuthService(users, &fakeVerifier{})

	u := &entity.User{ID: "u-1", Email: "a@example.com"}
	users.On("GetByID", mock.Anything, "u-1").Return(u, nil).Once()
	users.On("GetByID", mock.Anything, "missing").Return(nil, repo.ErrNotFound).Once()

	got, err := svc.GetUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = svc.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
