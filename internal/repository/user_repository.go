package repository

import (
	"strings"
	"time"

	"github.com/teamtrackhq/teamtrack-api/internal/database"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/utils"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// userSortColumns whitelists the sortable columns for user listings.
var userSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"role":       "role",
	"status":     "status",
	"department": "department",
	"created_at": "created_at",
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDWithTasks finds a user with task relations preloaded
func (r *GormUserRepository) FindByIDWithTasks(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.
		Preload("Assignments.Task").
		Preload("CreatedTasks").
		Preload("CreatedTasks.Assignments").
		First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether email belongs to a user other than excludeID.
// The comparison is case-insensitive so the uniqueness invariant holds even
// for rows stored with mixed-case addresses.
func (r *GormUserRepository) EmailTaken(email string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(email))
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List retrieves users with filtering, sorting and optional pagination
func (r *GormUserRepository) List(filter UserFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR department LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := userSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.SortOrder == "desc" {
		direction = "DESC"
	}
	query = query.Order(column + " " + direction)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ListAdmins retrieves all admin users
func (r *GormUserRepository) ListAdmins() ([]models.User, error) {
	return r.ListByRole(models.RoleAdmin)
}

// ListByRole retrieves all users with the given role
func (r *GormUserRepository) ListByRole(role models.UserRole) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role = ?", role).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListByIDs retrieves the users with the given IDs
func (r *GormUserRepository) ListByIDs(ids []uint64) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListAll retrieves every user
func (r *GormUserRepository) ListAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListTeamMembers retrieves active non-admin users ordered by name
func (r *GormUserRepository) ListTeamMembers() ([]models.User, error) {
	var users []models.User
	if err := r.db.
		Where("role != ?", models.RoleAdmin).
		Where("status = ?", models.StatusActive).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListNonAdmins retrieves all non-admin users
func (r *GormUserRepository) ListNonAdmins() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role != ?", models.RoleAdmin).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListRegisteredSince retrieves users created after the cutoff, newest first
func (r *GormUserRepository) ListRegisteredSince(cutoff time.Time, limit int) ([]models.User, error) {
	var users []models.User
	if err := r.db.
		Where("created_at > ?", cutoff).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists changes to a user inside a transaction
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(user).Error
	})
}

// DeleteCascade removes the user and everything hanging off them. Created
// tasks are deleted outright; pair-programmer references on other tasks are
// nulled, not cascaded.
func (r *GormUserRepository) DeleteCascade(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("pair_programmer_id = ?", id).
			Update("pair_programmer_id", nil).Error; err != nil {
			return err
		}

		var createdTaskIDs []uint64
		if err := tx.Model(&models.Task{}).
			Where("created_by = ?", id).
			Pluck("id", &createdTaskIDs).Error; err != nil {
			return err
		}
		if len(createdTaskIDs) > 0 {
			if err := tx.Where("task_id IN ?", createdTaskIDs).
				Delete(&models.TaskAssignee{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", createdTaskIDs).
				Delete(&models.TaskComment{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Task{}, createdTaskIDs).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.TaskAssignee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// CountUsersByIDs counts how many of the given user IDs exist
func (r *GormUserRepository) CountUsersByIDs(ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// CountTotal counts all users
func (r *GormUserRepository) CountTotal() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountActive counts users with active status
func (r *GormUserRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("status = ?", models.StatusActive).
		Count(&count).Error
	return count, err
}

// CountNonAdmins counts non-admin users
func (r *GormUserRepository) CountNonAdmins() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("role != ?", models.RoleAdmin).
		Count(&count).Error
	return count, err
}
