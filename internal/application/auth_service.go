package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/checklist-api/internal/domain/entity"
	repo "github.com/oksasatya/checklist-api/internal/domain/repository"
	"github.com/oksasatya/checklist-api/pkg/googleauth"
	"github.com/oksasatya/checklist-api/pkg/helpers"
)

var (
	// ErrUnauthenticated covers every credential failure without
	// distinguishing the reason.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUserNotFound    = errors.New("user not found")
)

// AuthService is the user directory plus the token issuing flow: it turns a
// Google credential into a local user record and a signed session token.
type AuthService struct {
	Users    repo.UserRepository
	Verifier googleauth.Verifier
	JWT      *helpers.JWTManager
	Logger   *logrus.Logger
}

func NewAuthService(users repo.UserRepository, verifier googleauth.Verifier, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Verifier: verifier, JWT: jwt, Logger: logger}
}

// LoginResult carries the authenticated user and their bearer token.
type LoginResult struct {
	User        *entity.User
	AccessToken string
	ExpiresAt   time.Time
}

// LoginWithGoogle verifies the credential, upserts the user record, and
// issues an access token.
func (s *AuthService) LoginWithGoogle(ctx context.Context, credential string) (*LoginResult, error) {
	ident, err := s.Verifier.Verify(ctx, credential)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("google credential rejected")
		}
		return nil, ErrUnauthenticated
	}

	u, err := s.upsertFromIdentity(ctx, ident)
	if err != nil {
		return nil, err
	}

	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user authenticated")
	}
	return &LoginResult{User: u, AccessToken: token, ExpiresAt: exp}, nil
}

// upsertFromIdentity looks the user up by Google id, creating on first
// sign-in and syncing email/name when the provider data changed. A
// duplicate-insert race is resolved by retrying the lookup: the winner's
// row is authoritative.
func (s *AuthService) upsertFromIdentity(ctx context.Context, ident *googleauth.Identity) (*entity.User, error) {
	u, err := s.Users.GetByGoogleID(ctx, ident.GoogleID)
	switch {
	case err == nil:
		if u.Email == ident.Email && u.Name == ident.Name {
			return u, nil
		}
		u.Email = ident.Email
		u.Name = ident.Name
		if err := s.Users.Update(ctx, u); err != nil {
			return nil, err
		}
		return u, nil

	case errors.Is(err, repo.ErrNotFound):
		nu := &entity.User{Email: ident.Email, Name: ident.Name, GoogleID: ident.GoogleID}
		if err := s.Users.Create(ctx, nu); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				winner, lerr := s.Users.GetByGoogleID(ctx, ident.GoogleID)
				if lerr == nil {
					return winner, nil
				}
				// The email is taken by a different google account.
				return nil, repo.ErrConflict
			}
			return nil, err
		}
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"user_id": nu.ID, "email": nu.Email}).Info("new user created")
		}
		return nu, nil

	default:
		return nil, err
	}
}

// GetUser returns the user record for an authenticated subject id.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
