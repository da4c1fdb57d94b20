package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/checklist-api/internal/application"
	"github.com/oksasatya/checklist-api/internal/domain/entity"
	repo "github.com/oksasatya/checklist-api/internal/domain/repository"
	"github.com/oksasatya/checklist-api/internal/interface/middleware"
	"github.com/oksasatya/checklist-api/pkg/response"
	"github.com/oksasatya/checklist-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *app.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *app.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type googleLoginRequest struct {
	Credential string `json:"credential" binding:"required"`
}

func userPayload(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"created_at": u.CreatedAt,
	}
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.LoginWithGoogle(c.Request.Context(), req.Credential)
	switch {
	case errors.Is(err, app.ErrUnauthenticated):
		response.Error[any](c, http.StatusUnauthorized, "invalid google credential", nil)
		return
	case errors.Is(err, repo.ErrConflict):
		response.Error[any](c, http.StatusConflict, "email already registered with a different google account", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	response.Success[any](c, http.StatusOK, gin.H{
		"access_token": res.AccessToken,
		"token_type":   "bearer",
		"expires_at":   res.ExpiresAt,
		"user":         userPayload(res.User),
	}, "login successful", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetUser(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, app.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to load user", nil)
		return
	}
	response.Success[any](c, http.StatusOK, userPayload(u), "profile", nil)
}
