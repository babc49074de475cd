package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamtrackhq/teamtrack-api/internal/dto"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/middleware"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/services"
	"github.com/teamtrackhq/teamtrack-api/internal/utils"
)

// UserHandler coordinates user-management HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List returns the admin user listing with task and pairing data.
func (h *UserHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(services.ListUsersInput{
		Role:      c.Query("role"),
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      params.Page,
		PageSize:  params.Limit,
	})
	if err != nil {
		apierrors.Respond(c, "Failed to list users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       users,
		"pagination": utils.NewPaginationResponse(params, total),
	})
}

// Create adds a new user as an admin.
func (h *UserHandler) Create(c *gin.Context) {
	type CreateRequest struct {
		Name       string `json:"name" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required"`
		Role       string `json:"role" binding:"required"`
		Department string `json:"department"`
		Phone      string `json:"phone"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(services.CreateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       models.UserRole(req.Role),
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		apierrors.Respond(c, "Failed to create user", err)
		return
	}

	profile, err := h.userService.FormatProfile(user, false, nil)
	if err != nil {
		apierrors.Respond(c, "Failed to create user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"data":    profile,
	})
}

// Show returns one user's formatted profile with task details.
func (h *UserHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	viewer, _ := middleware.CurrentUser(c)

	user, err := h.userService.GetUser(id)
	if err != nil {
		apierrors.Respond(c, "Failed to load user", err)
		return
	}

	profile, err := h.userService.FormatProfile(user, true, viewer)
	if err != nil {
		apierrors.Respond(c, "Failed to load user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

// Update applies a partial admin update to a user.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateRequest struct {
		Name       *string `json:"name"`
		Email      *string `json:"email"`
		Role       *string `json:"role"`
		Status     *string `json:"status"`
		Department *string `json:"department"`
		Phone      *string `json:"phone"`
		Password   *string `json:"password"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Phone:      req.Phone,
		Password:   req.Password,
	}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		input.Role = &role
	}
	if req.Status != nil {
		status := models.UserStatus(*req.Status)
		input.Status = &status
	}

	user, err := h.userService.UpdateUser(id, input)
	if err != nil {
		apierrors.Respond(c, "Failed to update user", err)
		return
	}

	profile, err := h.userService.FormatProfile(user, false, nil)
	if err != nil {
		apierrors.Respond(c, "Failed to update user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"data":    profile,
	})
}

// Delete removes a user subject to the deletion guards.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.userService.DeleteUser(id, actor); err != nil {
		apierrors.Respond(c, "Failed to delete user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}

// TeamMembers returns active non-admin users for assignment pickers.
func (h *UserHandler) TeamMembers(c *gin.Context) {
	users, err := h.userService.TeamMembers()
	if err != nil {
		apierrors.Respond(c, "Failed to list team members", err)
		return
	}

	members := make([]dto.TeamMemberDTO, 0, len(users))
	for _, user := range users {
		members = append(members, dto.ToTeamMemberDTO(user))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    members,
	})
}

// Profile returns the authenticated user's profile with assigned and
// created tasks.
func (h *UserHandler) Profile(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.userService.GetUser(actor.ID)
	if err != nil {
		apierrors.Respond(c, "Failed to load profile", err)
		return
	}

	profile, err := h.userService.FormatProfile(user, true, actor)
	if err != nil {
		apierrors.Respond(c, "Failed to load profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

// UpdateProfile applies a self-service profile update.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	type UpdateProfileRequest struct {
		Name            *string `json:"name"`
		Email           *string `json:"email"`
		Phone           *string `json:"phone"`
		Department      *string `json:"department"`
		CurrentPassword string  `json:"current_password"`
		Password        *string `json:"password"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(actor, services.UpdateProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Department:      req.Department,
		CurrentPassword: req.CurrentPassword,
		Password:        req.Password,
	})
	if err != nil {
		apierrors.Respond(c, "Failed to update profile", err)
		return
	}

	profile, err := h.userService.FormatProfile(user, false, actor)
	if err != nil {
		apierrors.Respond(c, "Failed to update profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"data":    profile,
	})
}
