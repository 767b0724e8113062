package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pictu/api/internal/models"
)

func (h HandlerSet) Profile(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, newUserResponse(user))
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) GetUser(c *gin.Context) {
	user, err := h.userService.GetOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

type updateRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required,oneof=user admin"`
}

func (h HandlerSet) UpdateUserRole(c *gin.Context) {
	actor, ok := mustUser(c)
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateRole(c.Request.Context(), c.Param("id"), req.Role, actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	actor, ok := mustUser(c)
	if !ok {
		return
	}

	if err := h.userService.Remove(c.Request.Context(), c.Param("id"), actor); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
