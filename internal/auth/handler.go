package auth

import (
	"errors"
	"net/http"
	"unicode"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shwetank-antino/task-management-api/internal/httperr"
	"github.com/shwetank-antino/task-management-api/internal/users"
)

const refreshCookieName = "refreshToken"

type Handler struct {
	db           *gorm.DB
	tokens       *TokenService
	secureCookie bool
}

func NewHandler(db *gorm.DB, tokens *TokenService, secureCookie bool) *Handler {
	return &Handler{db: db, tokens: tokens, secureCookie: secureCookie}
}

type registerDTO struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

type loginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var body registerDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}
	if !strongPassword(body.Password) {
		httperr.Respond(c, httperr.BadRequest("Validation error",
			"Password must contain uppercase, lowercase, and a number"))
		return
	}

	var existing users.User
	err := h.db.First(&existing, "email = ?", body.Email).Error
	if err == nil {
		httperr.Respond(c, httperr.Conflict("User already exists"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Respond(c, err)
		return
	}

	hashed, err := users.HashPassword(body.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	role := body.Role
	if role == "" {
		role = users.RoleUser
	}
	user := users.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: hashed,
		Role:         role,
	}
	if err := h.db.Create(&user).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *Handler) Login(c *gin.Context) {
	var body loginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	var user users.User
	if err := h.db.First(&user, "email = ?", body.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, httperr.Unauthorized("Invalid email or password"))
			return
		}
		httperr.Respond(c, err)
		return
	}
	if !users.CheckPassword(user.PasswordHash, body.Password) {
		httperr.Respond(c, httperr.Unauthorized("Invalid email or password"))
		return
	}

	identity := user.Identity()
	accessToken, err := h.tokens.IssueAccess(identity)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	refreshToken, err := h.tokens.IssueRefresh(identity)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.setRefreshCookie(c, refreshToken, int(h.tokens.RefreshTTL().Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

// Refresh mints a new access token from the refresh cookie. The user is
// re-read so a deleted account cannot keep refreshing until its token
// expires.
func (h *Handler) Refresh(c *gin.Context) {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie == "" {
		httperr.Respond(c, httperr.Unauthorized("No refresh token provided"))
		return
	}

	claims, err := h.tokens.Parse(cookie, TokenTypeRefresh)
	if err != nil {
		httperr.Respond(c, httperr.Unauthorized("Invalid refresh token"))
		return
	}

	var user users.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, httperr.Unauthorized("Invalid refresh token"))
			return
		}
		httperr.Respond(c, err)
		return
	}

	accessToken, err := h.tokens.IssueAccess(user.Identity())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": accessToken,
		"user":        user,
	})
}

// Logout clears the refresh cookie. Repeating it is harmless: clearing an
// already-absent cookie still returns 200.
func (h *Handler) Logout(c *gin.Context) {
	h.setRefreshCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, value, maxAge, "/", "", h.secureCookie, true)
}

func strongPassword(pw string) bool {
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
