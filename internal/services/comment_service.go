package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamtrackhq/teamtrack-api/internal/constants"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
	"gorm.io/gorm"
)

// CommentService handles task comment logic.
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
	}
}

// ListComments returns a task's comments newest-first.
func (s *CommentService) ListComments(taskID uint64) ([]models.TaskComment, error) {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFound("Task not found")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	comments, err := s.commentRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// AddComment creates a comment on a task.
func (s *CommentService) AddComment(taskID uint64, body string, actor *models.User) (*models.TaskComment, error) {
	if err := validateCommentBody(body); err != nil {
		return nil, err
	}

	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFound("Task not found")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	comment := &models.TaskComment{
		TaskID:  taskID,
		UserID:  actor.ID,
		Comment: strings.TrimSpace(body),
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	created, err := s.commentRepo.FindByID(comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload comment: %w", err)
	}
	return created, nil
}

// UpdateComment edits a comment. Only the author or an admin may edit.
func (s *CommentService) UpdateComment(taskID, commentID uint64, body string, actor *models.User) (*models.TaskComment, error) {
	if err := validateCommentBody(body); err != nil {
		return nil, err
	}

	comment, err := s.findTaskComment(taskID, commentID)
	if err != nil {
		return nil, err
	}
	if !comment.CanModify(actor) {
		return nil, apierrors.NewAuthorization("You can only edit your own comments")
	}

	comment.Comment = strings.TrimSpace(body)
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes a comment. Only the author or an admin may delete.
func (s *CommentService) DeleteComment(taskID, commentID uint64, actor *models.User) error {
	comment, err := s.findTaskComment(taskID, commentID)
	if err != nil {
		return err
	}
	if !comment.CanModify(actor) {
		return apierrors.NewAuthorization("You can only delete your own comments")
	}

	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// findTaskComment loads a comment and checks it belongs to the task.
func (s *CommentService) findTaskComment(taskID, commentID uint64) (*models.TaskComment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFound("Comment not found")
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	if comment.TaskID != taskID {
		return nil, apierrors.NewNotFound("Comment not found")
	}
	return comment, nil
}

func validateCommentBody(body string) error {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return apierrors.NewValidation("Validation failed", map[string]string{
			"comment": "comment is required",
		})
	}
	if len(trimmed) > constants.MaxCommentLength {
		return apierrors.NewValidation("Validation failed", map[string]string{
			"comment": fmt.Sprintf("comment may not be longer than %d characters", constants.MaxCommentLength),
		})
	}
	return nil
}
