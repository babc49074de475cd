package services

import (
	"fmt"

	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
)

// InboxService exposes a user's notification inbox and the admin-wide view.
type InboxService struct {
	notifRepo repository.NotificationRepository
}

// NewInboxService creates a new InboxService
func NewInboxService(notifRepo repository.NotificationRepository) *InboxService {
	return &InboxService{notifRepo: notifRepo}
}

// ListInput represents filters for listing notifications.
type ListInput struct {
	Type       string
	ReadStatus string
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// List returns the user's notifications with their unread count.
func (s *InboxService) List(userID uint64, input ListInput) ([]models.Notification, int64, int64, error) {
	filter := s.buildFilter(input)
	filter.UserID = &userID

	notifications, total, err := s.notifRepo.List(filter)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := s.notifRepo.CountUnread(userID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return notifications, total, unread, nil
}

// ListAdminFeed returns notifications addressed to admin users, with the
// recipient preloaded.
func (s *InboxService) ListAdminFeed(input ListInput) ([]models.Notification, int64, error) {
	filter := s.buildFilter(input)
	filter.AdminsOnly = true

	notifications, total, err := s.notifRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *InboxService) buildFilter(input ListInput) repository.NotificationFilter {
	filter := repository.NotificationFilter{
		ReadStatus: input.ReadStatus,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}
	if input.Type != "" && input.Type != "all" {
		notifType := models.NotificationType(input.Type)
		filter.Type = &notifType
	}
	return filter
}

// MarkRead marks the given notifications read and returns how many rows were
// newly marked. Marking an already-read row again is a no-op.
func (s *InboxService) MarkRead(userID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, apierrors.NewValidation("Validation failed", map[string]string{
			"ids": "at least one notification id is required",
		})
	}
	marked, err := s.notifRepo.MarkRead(userID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return marked, nil
}

// MarkUnread clears read state on the given notifications.
func (s *InboxService) MarkUnread(userID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, apierrors.NewValidation("Validation failed", map[string]string{
			"ids": "at least one notification id is required",
		})
	}
	cleared, err := s.notifRepo.MarkUnread(userID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications unread: %w", err)
	}
	return cleared, nil
}

// MarkAllRead marks everything unread in the user's inbox as read.
func (s *InboxService) MarkAllRead(userID uint64) (int64, error) {
	marked, err := s.notifRepo.MarkAllRead(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return marked, nil
}

// Delete removes the given notifications from the user's inbox.
func (s *InboxService) Delete(userID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, apierrors.NewValidation("Validation failed", map[string]string{
			"ids": "at least one notification id is required",
		})
	}
	deleted, err := s.notifRepo.Delete(userID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}
	return deleted, nil
}

// UnreadCount returns the user's unread notification count.
func (s *InboxService) UnreadCount(userID uint64) (int64, error) {
	count, err := s.notifRepo.CountUnread(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
