package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleUser    UserRole = "user"
)

type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusSuspended UserStatus = "suspended"
)

type User struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Department   string     `gorm:"type:varchar(255)" json:"department"`
	Phone        string     `gorm:"type:varchar(20)" json:"phone"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	CreatedTasks  []Task         `gorm:"foreignKey:CreatedBy" json:"-"`
	Assignments   []TaskAssignee `gorm:"foreignKey:UserID" json:"-"`
	Comments      []TaskComment  `gorm:"foreignKey:UserID" json:"-"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"-"`
}

// Roles lists the valid user roles.
func Roles() []UserRole {
	return []UserRole{RoleAdmin, RoleUser, RoleManager}
}

// Statuses lists the valid user statuses.
func Statuses() []UserStatus {
	return []UserStatus{StatusActive, StatusInactive, StatusSuspended}
}

// ValidRole reports whether role is one of the fixed role set.
func ValidRole(role UserRole) bool {
	for _, r := range Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// ValidStatus reports whether status is one of the fixed status set.
func ValidStatus(status UserStatus) bool {
	for _, s := range Statuses() {
		if s == status {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Initials returns the upper-cased first letter of each word in the name.
func (u *User) Initials() string {
	var b strings.Builder
	for _, word := range strings.Fields(u.Name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// MemberStatus classifies a user by their count of non-completed assigned
// tasks: 0 is Available, 1 is Locked, two or more is Paired.
func MemberStatus(activeTasks int64) string {
	switch {
	case activeTasks == 0:
		return "Available"
	case activeTasks == 1:
		return "Locked"
	default:
		return "Paired"
	}
}
