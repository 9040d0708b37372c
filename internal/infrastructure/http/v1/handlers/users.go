package handlers

import (
	"github.com/gin-gonic/gin"

	"claimsdesk/internal/domain/users"
	"claimsdesk/internal/infrastructure/http/v1/dto"
)

// UsersHandler handles user administration endpoints.
type UsersHandler struct {
	BaseHandler
	users *users.Service
}

func NewUsersHandler(userService *users.Service) *UsersHandler {
	return &UsersHandler{users: userService}
}

func (h *UsersHandler) List(c *gin.Context) {
	all, err := h.users.GetAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, all)
}

func (h *UsersHandler) Get(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, user)
}

func (h *UsersHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user := users.User{Name: req.Name, Email: req.Email, Role: req.Role}
	if err := h.users.Create(c.Request.Context(), &user, req.Password); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, user.ID)
}

func (h *UsersHandler) Update(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user := users.User{ID: id, Name: req.Name, Email: req.Email, Role: req.Role}
	if err := h.users.Update(c.Request.Context(), user); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "user updated")
}

func (h *UsersHandler) Delete(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// TemporaryPassword issues a new temporary password for the account and
// returns it once.
func (h *UsersHandler) TemporaryPassword(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	plain, err := h.users.GenerateTemporaryPassword(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"temporaryPassword": plain})
}
