package constants

// Session / context keys
const (
	SessionCookieName  = "teamtrack_session"
	ContextKeyUserID   = "user_id"
	ContextKeyUser     = "current_user"
	SessionMaxAge      = 86400 * 7 // 7 days
)

// Password rules
const (
	MinPasswordLength = 8
)

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Limits for dashboard feeds
const (
	RecentTasksLimit    = 5
	RecentActivityLimit = 10
)

// MaxCommentLength bounds a task comment body.
const MaxCommentLength = 1000

// DateLayout is the wire format for plain dates (due dates etc).
const DateLayout = "2006-01-02"
