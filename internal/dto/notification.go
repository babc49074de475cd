package dto

import (
	"time"

	"github.com/teamtrackhq/teamtrack-api/internal/models"
)

// NotificationDTO represents an inbox entry.
type NotificationDTO struct {
	ID          uint64                  `json:"id"`
	Type        models.NotificationType `json:"type"`
	Title       string                  `json:"title"`
	Message     string                  `json:"message"`
	Data        models.JSONMap          `json:"data"`
	IsRead      bool                    `json:"is_read"`
	ReadAt      *time.Time              `json:"read_at"`
	RelatedType *models.RelatedKind     `json:"related_type"`
	RelatedID   *uint64                 `json:"related_id"`
	CreatedAt   time.Time               `json:"created_at"`
}

// AdminNotificationDTO adds the recipient identity for the admin view.
type AdminNotificationDTO struct {
	NotificationDTO
	User          CommentUserDTO `json:"user"`
	FormattedDate string         `json:"formatted_date"`
}

// ToNotificationDTO converts a notification to its inbox shape.
func ToNotificationDTO(n *models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		Data:        n.Data,
		IsRead:      n.IsRead(),
		ReadAt:      n.ReadAt,
		RelatedType: n.RelatedType,
		RelatedID:   n.RelatedID,
		CreatedAt:   n.CreatedAt,
	}
}

// ToNotificationDTOs converts a slice of notifications.
func ToNotificationDTOs(notifications []models.Notification) []NotificationDTO {
	items := make([]NotificationDTO, len(notifications))
	for i := range notifications {
		items[i] = ToNotificationDTO(&notifications[i])
	}
	return items
}

// ToAdminNotificationDTO converts a notification with its preloaded recipient.
func ToAdminNotificationDTO(n *models.Notification) AdminNotificationDTO {
	return AdminNotificationDTO{
		NotificationDTO: ToNotificationDTO(n),
		User: CommentUserDTO{
			ID:       n.User.ID,
			Name:     n.User.Name,
			Initials: n.User.Initials(),
		},
		FormattedDate: n.CreatedAt.Format("Jan 2, 2006 3:04 PM"),
	}
}
