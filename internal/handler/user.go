// internal/handler/user.go
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"expense-tracker/internal/auth"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	store  storage.UserStorage
	tokens *auth.TokenService
}

func NewUserHandler(store storage.UserStorage, tokens *auth.TokenService) *UserHandler {
	return &UserHandler{store: store, tokens: tokens}
}

// Register handles POST /register. A taken username is a conflict.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorBody(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := validateStruct(req); err != nil {
		errorBody(c, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("Password hashing failed", "error", err)
		errorBody(c, http.StatusInternalServerError, "An unexpected error occurred while creating the user. Please try again later.")
		return
	}

	user := domain.User{
		UserID:         uuid.New(),
		Username:       req.Username,
		HashedPassword: hashed,
		IsActive:       true,
		Timestamp:      time.Now().UTC(),
	}

	created, err := h.store.CreateUser(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			errorBody(c, http.StatusConflict, "User already exists")
			return
		}
		slog.Error("Create user failed", "error", err, "username", req.Username)
		errorBody(c, http.StatusInternalServerError, "An unexpected error occurred while creating the user. Please try again later.")
		return
	}

	slog.Info("User registered", "user_id", created.UserID, "username", created.Username)
	c.JSON(http.StatusOK, created)
}

// Login handles POST /login with a form-encoded username and password and
// returns a bearer token.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		errorBody(c, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.store.UserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			errorBody(c, http.StatusUnauthorized, "Credentials are invalid")
			return
		}
		slog.Error("Login lookup failed", "error", err, "username", req.Username)
		errorBody(c, http.StatusInternalServerError, "An unexpected error occurred during login. Please try again later.")
		return
	}

	if !auth.CheckPassword(user.HashedPassword, req.Password) {
		errorBody(c, http.StatusUnauthorized, "Credentials are invalid")
		return
	}

	token, err := h.tokens.GenerateToken(user.UserID)
	if err != nil {
		slog.Error("Token generation failed", "error", err, "user_id", user.UserID)
		errorBody(c, http.StatusInternalServerError, "An unexpected error occurred during login. Please try again later.")
		return
	}

	slog.Info("User logged in", "user_id", user.UserID)
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// === DTO ===

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Password string `json:"password" validate:"required,min=8,max=128,password"`
}

type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}
