package dto

import (
	"time"

	"github.com/teamtrackhq/teamtrack-api/internal/models"
)

// CommentUserDTO identifies a comment author.
type CommentUserDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

// CommentDTO represents a task comment in API responses.
type CommentDTO struct {
	ID            uint64         `json:"id"`
	Comment       string         `json:"comment"`
	User          CommentUserDTO `json:"user"`
	CreatedAt     time.Time      `json:"created_at"`
	FormattedDate string         `json:"formatted_date"`
	CanEdit       bool           `json:"can_edit"`
}

// ToCommentDTO converts a comment with its preloaded author. CanEdit is
// computed against the requesting principal.
func ToCommentDTO(comment *models.TaskComment, actor *models.User) CommentDTO {
	return CommentDTO{
		ID:      comment.ID,
		Comment: comment.Comment,
		User: CommentUserDTO{
			ID:       comment.User.ID,
			Name:     comment.User.Name,
			Initials: comment.User.Initials(),
		},
		CreatedAt:     comment.CreatedAt,
		FormattedDate: comment.CreatedAt.Format("Jan 2, 2006 3:04 PM"),
		CanEdit:       comment.CanModify(actor),
	}
}
