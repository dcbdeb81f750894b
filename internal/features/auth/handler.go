package auth

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/birimengo/mytrade-api/internal/pkg/response"
	"github.com/birimengo/mytrade-api/internal/pkg/token"
	apperrors "github.com/birimengo/mytrade-api/pkg/errors"
)

type Handler struct {
	repo   *Repository
	tokens *token.Manager
}

func NewHandler(repo *Repository, tokens *token.Manager) *Handler {
	return &Handler{repo: repo, tokens: tokens}
}

// Register godoc
// @Summary Register a new supplier account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Signup data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if errs := ValidateRegister(&req); len(errs) > 0 {
		response.ValidationFailed(c, errs)
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		response.InternalServerError(c, "Failed to create account")
		return
	}

	user := &User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
	}

	if err := h.repo.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			response.Conflict(c, "Email already registered")
			return
		}
		response.DatabaseError(c, "Failed to create account")
		return
	}

	accessToken, err := h.tokens.Generate(user.ID.Hex(), user.Email)
	if err != nil {
		response.InternalServerError(c, "Failed to issue token")
		return
	}

	response.Created(c, AuthResponse{User: user, AccessToken: accessToken})
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.DatabaseError(c, "Failed to log in")
		return
	}
	if user == nil || !CheckPassword(req.Password, user.PasswordHash) {
		response.Unauthorized(c, "Invalid email or password")
		return
	}

	accessToken, err := h.tokens.Generate(user.ID.Hex(), user.Email)
	if err != nil {
		response.InternalServerError(c, "Failed to issue token")
		return
	}

	response.Success(c, AuthResponse{User: user, AccessToken: accessToken})
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.DatabaseError(c, "Failed to load profile")
		return
	}
	if user == nil {
		response.NotFound(c, "User not found")
		return
	}

	response.Success(c, user)
}

// UpdateNotifications godoc
// @Summary Update reminder delivery preferences
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateNotificationsRequest true "Notification settings"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/notifications [put]
func (h *Handler) UpdateNotifications(c *gin.Context) {
	userID := c.GetString("userID")

	var req UpdateNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if errs := ValidateNotifications(&req); len(errs) > 0 {
		response.ValidationFailed(c, errs)
		return
	}

	if err := h.repo.UpdateNotifications(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.DatabaseError(c, "Failed to update settings")
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		response.InternalServerError(c, "Failed to load updated settings")
		return
	}

	response.Success(c, user.Notifications)
}
