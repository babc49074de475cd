package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamtrackhq/teamtrack-api/internal/constants"
	"github.com/teamtrackhq/teamtrack-api/internal/dto"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles user management and self-service profile logic.
type UserService struct {
	userRepo  repository.UserRepository
	taskRepo  repository.TaskRepository
	notifRepo repository.NotificationRepository
	notifier  *NotificationService
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, taskRepo repository.TaskRepository, notifRepo repository.NotificationRepository, notifier *NotificationService) *UserService {
	return &UserService{
		userRepo:  userRepo,
		taskRepo:  taskRepo,
		notifRepo: notifRepo,
		notifier:  notifier,
	}
}

// ListUsersInput represents filters for the admin user listing.
type ListUsersInput struct {
	Role      string
	Status    string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ListUsers returns user rows with freshly computed task and pairing data.
func (s *UserService) ListUsers(input ListUsersInput) ([]dto.UserListItemDTO, int64, error) {
	filter := repository.UserFilter{
		Search:    input.Search,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}
	if input.Role != "" && input.Role != "all" {
		role := models.UserRole(input.Role)
		filter.Role = &role
	}
	if input.Status != "" && input.Status != "all" {
		status := models.UserStatus(input.Status)
		filter.Status = &status
	}

	users, total, err := s.userRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	items := make([]dto.UserListItemDTO, 0, len(users))
	for i := range users {
		item, err := s.buildListItem(&users[i])
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, nil
}

func (s *UserService) buildListItem(user *models.User) (dto.UserListItemDTO, error) {
	active, err := s.taskRepo.CountAssignedActive(user.ID)
	if err != nil {
		return dto.UserListItemDTO{}, fmt.Errorf("failed to count active tasks: %w", err)
	}
	completed, err := s.taskRepo.CountAssignedCompleted(user.ID)
	if err != nil {
		return dto.UserListItemDTO{}, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	pairTasks, err := s.taskRepo.ListPairProgrammerTasks(user.ID)
	if err != nil {
		return dto.UserListItemDTO{}, fmt.Errorf("failed to load pair tasks: %w", err)
	}
	assignedPairTasks, err := s.taskRepo.ListAssignedPairTasks(user.ID)
	if err != nil {
		return dto.UserListItemDTO{}, fmt.Errorf("failed to load assigned pair tasks: %w", err)
	}

	// Where this user pairs on a task, they are paired with its assignees;
	// where they are assigned and somebody else pairs, with that programmer.
	var pairedWith *string
	if names := uniqueNames(pairAssigneeNames(pairTasks, user.ID)); len(names) > 0 {
		joined := strings.Join(names, ", ")
		pairedWith = &joined
	} else if names := uniqueNames(pairProgrammerNames(assignedPairTasks)); len(names) > 0 {
		joined := strings.Join(names, ", ")
		pairedWith = &joined
	}

	return dto.UserListItemDTO{
		ID:                  user.ID,
		Name:                user.Name,
		Email:               user.Email,
		Role:                user.Role,
		Department:          user.Department,
		ActiveTasksCount:    active,
		CompletedTasksCount: completed,
		PairTasksCount:      len(pairTasks) + len(assignedPairTasks),
		PairedWith:          pairedWith,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}, nil
}

func pairAssigneeNames(tasks []models.Task, selfID uint64) []string {
	var names []string
	for _, task := range tasks {
		for _, assignment := range task.Assignments {
			if assignment.UserID != selfID {
				names = append(names, assignment.User.Name)
			}
		}
	}
	return names
}

func pairProgrammerNames(tasks []models.Task) []string {
	var names []string
	for _, task := range tasks {
		if task.PairProgrammer != nil {
			names = append(names, task.PairProgrammer.Name)
		}
	}
	return names
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// CreateUserInput represents input for the admin create-user operation.
type CreateUserInput struct {
	Name       string
	Email      string
	Password   string
	Role       models.UserRole
	Department string
	Phone      string
}

// CreateUser creates a user and fans out the new_user notice to admins.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	fields := map[string]string{}
	if name == "" {
		fields["name"] = "name is required"
	}
	if email == "" {
		fields["email"] = "email is required"
	}
	if len(input.Password) < constants.MinPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength)
	}
	if !models.ValidRole(input.Role) {
		fields["role"] = "role must be one of admin, user, manager"
	}
	if len(fields) > 0 {
		return nil, apierrors.NewValidation("Validation failed", fields)
	}

	taken, err := s.userRepo.EmailTaken(email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, apierrors.NewConflict("Email is already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         input.Role,
		Status:       models.StatusActive,
		Department:   input.Department,
		Phone:        input.Phone,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.notifier.NewUserRegistered(user)

	return user, nil
}

// GetUser retrieves a user with task relations for the detail view.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByIDWithTasks(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFound("User not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUserInput represents a partial admin update. Nil fields are left
// untouched.
type UpdateUserInput struct {
	Name       *string
	Email      *string
	Role       *models.UserRole
	Status     *models.UserStatus
	Department *string
	Phone      *string
	Password   *string
}

// UpdateUser applies a partial update to a user.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFound("User not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	fields := map[string]string{}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		fields["name"] = "name cannot be empty"
	}
	if input.Role != nil && !models.ValidRole(*input.Role) {
		fields["role"] = "role must be one of admin, user, manager"
	}
	if input.Status != nil && !models.ValidStatus(*input.Status) {
		fields["status"] = "status must be one of active, inactive, suspended"
	}
	if input.Password != nil && len(*input.Password) < constants.MinPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength)
	}
	if len(fields) > 0 {
		return nil, apierrors.NewValidation("Validation failed", fields)
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" {
			return nil, apierrors.NewValidation("Validation failed", map[string]string{"email": "email cannot be empty"})
		}
		taken, err := s.userRepo.EmailTaken(email, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, apierrors.NewConflict("Email is already registered")
		}
		user.Email = email
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user after the business guards pass: admins cannot be
// deleted, the actor cannot delete themselves, and the target must have no
// non-completed assignments left.
func (s *UserService) DeleteUser(id uint64, actor *models.User) error {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NewNotFound("User not found")
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.IsAdmin() {
		return apierrors.NewAuthorization("Cannot delete admin users")
	}
	if user.ID == actor.ID {
		return apierrors.NewAuthorization("You cannot delete your own account")
	}

	activeTasks, err := s.taskRepo.CountAssignedActive(user.ID)
	if err != nil {
		return fmt.Errorf("failed to count active tasks: %w", err)
	}
	if activeTasks > 0 {
		return apierrors.NewConflictWithExtra(
			"Cannot delete user with active tasks. Please reassign or complete their tasks first.",
			map[string]any{"active_tasks": activeTasks},
		)
	}

	if err := s.userRepo.DeleteCascade(user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.notifier.UserRemoved(user, actor)

	return nil
}

// TeamMembers returns active non-admin users for assignment pickers.
func (s *UserService) TeamMembers() ([]models.User, error) {
	users, err := s.userRepo.ListTeamMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return users, nil
}

// UpdateProfileInput represents a self-service profile update.
type UpdateProfileInput struct {
	Name            *string
	Email           *string
	Phone           *string
	Department      *string
	CurrentPassword string
	Password        *string
}

// UpdateProfile applies a self-service update. Changing the password
// requires the correct current password.
func (s *UserService) UpdateProfile(actor *models.User, input UpdateProfileInput) (*models.User, error) {
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, apierrors.NewValidation("Validation failed", map[string]string{
				"password": fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength),
			})
		}
		if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(input.CurrentPassword)); err != nil {
			return nil, apierrors.NewConflict("Current password is incorrect")
		}
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" {
			return nil, apierrors.NewValidation("Validation failed", map[string]string{"email": "email cannot be empty"})
		}
		taken, err := s.userRepo.EmailTaken(email, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, apierrors.NewConflict("Email is already registered")
		}
		actor.Email = email
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apierrors.NewValidation("Validation failed", map[string]string{"name": "name cannot be empty"})
		}
		actor.Name = name
	}
	if input.Phone != nil {
		actor.Phone = *input.Phone
	}
	if input.Department != nil {
		actor.Department = *input.Department
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		actor.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(actor); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return actor, nil
}

// FormatProfile builds the formatted profile response with counts computed
// fresh from current data. When includeDetails is set the assigned tasks are
// listed, and created tasks too when the viewer is the user or an admin.
func (s *UserService) FormatProfile(user *models.User, includeDetails bool, viewer *models.User) (dto.UserProfileDTO, error) {
	active, err := s.taskRepo.CountAssignedActive(user.ID)
	if err != nil {
		return dto.UserProfileDTO{}, fmt.Errorf("failed to count active tasks: %w", err)
	}
	completed, err := s.taskRepo.CountAssignedCompleted(user.ID)
	if err != nil {
		return dto.UserProfileDTO{}, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	total, err := s.taskRepo.CountAssignedTotal(user.ID)
	if err != nil {
		return dto.UserProfileDTO{}, fmt.Errorf("failed to count tasks: %w", err)
	}
	unread, err := s.notifRepo.CountUnread(user.ID)
	if err != nil {
		return dto.UserProfileDTO{}, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	profile := dto.ToUserProfileDTO(user, dto.UserCounts{
		Active: active,
		Done:   completed,
		Total:  total,
		Unread: unread,
	})

	if includeDetails {
		profile.AssignedTasks = make([]dto.ProfileTaskDTO, 0, len(user.Assignments))
		for i := range user.Assignments {
			profile.AssignedTasks = append(profile.AssignedTasks, dto.ToProfileTaskDTO(&user.Assignments[i].Task))
		}

		if viewer != nil && (viewer.IsAdmin() || viewer.ID == user.ID) {
			profile.CreatedTasks = make([]dto.CreatedTaskDTO, 0, len(user.CreatedTasks))
			for i := range user.CreatedTasks {
				task := &user.CreatedTasks[i]
				profile.CreatedTasks = append(profile.CreatedTasks, dto.CreatedTaskDTO{
					ID:             task.ID,
					Title:          task.Title,
					Status:         task.Status,
					AssigneesCount: len(task.Assignments),
				})
			}
		}
	}

	return profile, nil
}
