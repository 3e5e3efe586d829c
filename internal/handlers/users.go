package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"accounts_service/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidUserID = "invalid user id"
	errUserNotFound  = "user not found"
	errListUsers     = "failed to list users"
	errGetUser       = "failed to load user"
	errUpdateUser    = "failed to update user"
	errDeleteUser    = "failed to delete user"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Partial update payload; absent fields are left unchanged.
type updateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// pathUserID parses the :id path parameter, writing a 400 on failure.
func (h *Handler) pathUserID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidUserID})
		return 0, false
	}
	return id, true
}

// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, users"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/users [get]
// @Security     BearerAuth
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListUsers, "users_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(users),
		"users": users,
	})
}

// @Summary      Get user by id
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  models.PublicUser
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/users/{id} [get]
// @Security     BearerAuth
func (h *Handler) getUser(c *gin.Context) {
	id, ok := h.pathUserID(c)
	if !ok {
		return
	}

	user, err := h.services.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetUser, "users_get_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      Update user
// @Description  Partial merge; a supplied password is re-hashed before storage.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path   int                true  "User ID"
// @Param        body  body   updateUserRequest  true  "Fields to update"
// @Success      200   {object}  models.PublicUser
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/users/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateUser(c *gin.Context) {
	id, ok := h.pathUserID(c)
	if !ok {
		return
	}

	var input updateUserRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, err := h.services.Users.Update(c.Request.Context(), id, service.UpdateUserInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		IsActive: input.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errUpdateUser, "users_update_failed", err, "id", id)
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/users/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := h.pathUserID(c)
	if !ok {
		return
	}

	if err := h.services.Users.Remove(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errDeleteUser, "users_delete_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("user #%d deleted", id)})
}
