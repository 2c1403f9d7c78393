package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shwetank-antino/task-management-api/internal/httperr"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) List(c *gin.Context) {
	var all []User
	if err := h.db.Order("id ASC").Find(&all).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, all)
}

func (h *Handler) Me(c *gin.Context) {
	who, ok := FromContext(c)
	if !ok {
		httperr.Respond(c, httperr.Unauthorized("Unauthorized"))
		return
	}

	var user User
	if err := h.db.First(&user, who.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, httperr.NotFound("User not found"))
			return
		}
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateRoleDTO struct {
	Role string `json:"role"`
}

// UpdateRole lets an admin promote or demote another user. Self-service
// role changes are rejected so an admin cannot accidentally lock the last
// admin account out.
func (h *Handler) UpdateRole(c *gin.Context) {
	who, ok := FromContext(c)
	if !ok {
		httperr.Respond(c, httperr.Unauthorized("Unauthorized"))
		return
	}

	id, err := userIDParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var body updateRoleDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}
	if body.Role != RoleUser && body.Role != RoleAdmin {
		httperr.Respond(c, httperr.BadRequest("Invalid role specified"))
		return
	}
	if id == who.ID {
		httperr.Respond(c, httperr.BadRequest("Users cannot change their own role"))
		return
	}

	var user User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, httperr.NotFound("User not found"))
			return
		}
		httperr.Respond(c, err)
		return
	}

	user.Role = body.Role
	if err := h.db.Save(&user).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated successfully",
		"user":    user,
	})
}

// Delete removes a user account. Tasks referencing the user keep their old
// createdBy/assignee ids; no cascade or reassignment happens here.
func (h *Handler) Delete(c *gin.Context) {
	who, ok := FromContext(c)
	if !ok {
		httperr.Respond(c, httperr.Unauthorized("Unauthorized"))
		return
	}

	id, err := userIDParam(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if id == who.ID {
		httperr.Respond(c, httperr.BadRequest("Users cannot delete their own account"))
		return
	}

	var user User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, httperr.NotFound("User not found"))
			return
		}
		httperr.Respond(c, err)
		return
	}

	if err := h.db.Delete(&user).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func userIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, httperr.BadRequest("Invalid user id")
	}
	return uint(id), nil
}
