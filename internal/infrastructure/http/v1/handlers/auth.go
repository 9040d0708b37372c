package handlers

import (
	"github.com/gin-gonic/gin"

	"claimsdesk/internal/core/apperror"
	appctx "claimsdesk/internal/core/context"
	"claimsdesk/internal/domain/auth"
	"claimsdesk/internal/domain/users"
	"claimsdesk/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles login and identity endpoints.
type AuthHandler struct {
	BaseHandler
	users *users.Service
	jwt   *auth.JWTService
}

func NewAuthHandler(userService *users.Service, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{users: userService, jwt: jwtService}
}

// Login authenticates credentials and issues an access token.
// Unknown email, wrong password and a held lock all map to the same
// generic unauthorized response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}
	if result == nil || !result.Success {
		h.Error(c, apperror.NewUnauthorized("incorrect credentials"))
		return
	}

	user := result.User
	token, expiresAt, err := h.jwt.GenerateAccessToken(user.ID, user.Email, user.Name, user.Role, user.Role == users.RoleAdmin)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	h.OK(c, dto.LoginResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			ExpiresAt:   expiresAt,
			TokenType:   "Bearer",
		},
		User: user,
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userCtx := appctx.GetUser(c.Request.Context())
	if userCtx == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userCtx.UserID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, user)
}
