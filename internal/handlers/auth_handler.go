package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/config"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/middleware"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type AuthHandler struct {
	db    *gorm.DB
	jwt   config.JWTConfig
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewAuthHandler(db *gorm.DB, jwt config.JWTConfig, audit *audit.Dispatcher, now func() time.Time) *AuthHandler {
	if now == nil {
		now = time.Now
	}
	return &AuthHandler{db: db, jwt: jwt, audit: audit, now: now}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

type userView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func viewOf(u models.AdminUser) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.AdminUser
	err := h.db.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Unauthorized(c, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}
	if err != nil {
		httperr.Respond(c, httperr.FromStorage(err, "", ""))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httperr.Unauthorized(c, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}

	now := h.now()
	token, err := middleware.IssueToken(h.jwt, user.ID, user.Role, now)
	if err != nil {
		httperr.Internal(c, "TOKEN_ERROR", "Failed to generate token")
		return
	}

	h.audit.Dispatch(audit.Event{ActorID: &user.ID, Action: "admin_login", Entity: "admin_user", EntityID: &user.ID})

	httpresp.OK(c, gin.H{
		"token":      token,
		"expires_at": now.Add(h.jwt.TTL).UTC(),
		"user":       viewOf(user),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	httpresp.OK(c, viewOf(user))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		httperr.BadRequest(c, "INVALID_CREDENTIALS", "Current password is incorrect")
		return
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		httperr.Internal(c, "HASH_ERROR", "Failed to hash password")
		return
	}
	if err := h.db.WithContext(c.Request.Context()).
		Model(&user).Update("password_hash", hashed).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, "", ""))
		return
	}

	h.audit.Dispatch(audit.Event{ActorID: &user.ID, Action: "admin_password_changed", Entity: "admin_user", EntityID: &user.ID})
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) currentUser(c *gin.Context) (models.AdminUser, bool) {
	id := middleware.ActorID(c)
	if id == nil {
		httperr.Unauthorized(c, "MISSING_AUTHORIZATION", "Authentication required")
		return models.AdminUser{}, false
	}

	var user models.AdminUser
	if err := h.db.WithContext(c.Request.Context()).First(&user, *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "INVALID_TOKEN", "User no longer exists")
		} else {
			httperr.Respond(c, httperr.FromStorage(err, "", ""))
		}
		return models.AdminUser{}, false
	}
	return user, true
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
