package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamtrackhq/teamtrack-api/internal/dto"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/middleware"
	"github.com/teamtrackhq/teamtrack-api/internal/services"
)

// CommentHandler coordinates task-comment HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// List returns a task's comments newest-first.
func (h *CommentHandler) List(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.CurrentUser(c)

	comments, err := h.commentService.ListComments(taskID)
	if err != nil {
		apierrors.Respond(c, "Failed to list comments", err)
		return
	}

	rows := make([]dto.CommentDTO, 0, len(comments))
	for i := range comments {
		rows = append(rows, dto.ToCommentDTO(&comments[i], actor))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// Create adds a comment to a task.
func (h *CommentHandler) Create(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	type CommentRequest struct {
		Comment string `json:"comment" binding:"required"`
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.AddComment(taskID, req.Comment, actor)
	if err != nil {
		apierrors.Respond(c, "Failed to add comment", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Comment added successfully",
		"data":    dto.ToCommentDTO(comment, actor),
	})
}

// Update edits a comment.
func (h *CommentHandler) Update(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	type CommentRequest struct {
		Comment string `json:"comment" binding:"required"`
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.UpdateComment(taskID, commentID, req.Comment, actor)
	if err != nil {
		apierrors.Respond(c, "Failed to update comment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comment updated successfully",
		"data":    dto.ToCommentDTO(comment, actor),
	})
}

// Delete removes a comment.
func (h *CommentHandler) Delete(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.commentService.DeleteComment(taskID, commentID, actor); err != nil {
		apierrors.Respond(c, "Failed to delete comment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comment deleted successfully",
	})
}
