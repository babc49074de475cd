package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/teamtrackhq/teamtrack-api/internal/repository"
)

// OverdueService runs the daily overdue sweep: it finds past-due tasks and
// sends the overdue notice at most once per task per day.
type OverdueService struct {
	taskRepo  repository.TaskRepository
	notifRepo repository.NotificationRepository
	notifier  *NotificationService
	logger    *slog.Logger
}

// NewOverdueService creates a new OverdueService
func NewOverdueService(taskRepo repository.TaskRepository, notifRepo repository.NotificationRepository, notifier *NotificationService, logger *slog.Logger) *OverdueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OverdueService{
		taskRepo:  taskRepo,
		notifRepo: notifRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// Sweep scans overdue tasks and dispatches notices for the ones that have
// not been flagged today yet. It returns how many tasks were scanned and how
// many got a notice. Running it twice on the same day sends nothing new.
func (s *OverdueService) Sweep() (processed int, notified int, err error) {
	tasks, err := s.taskRepo.ListOverdue()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list overdue tasks: %w", err)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i := range tasks {
		task := &tasks[i]
		processed++

		already, err := s.notifRepo.HasOverdueForTaskSince(task.ID, startOfDay)
		if err != nil {
			return processed, notified, fmt.Errorf("failed to check overdue notice for task %d: %w", task.ID, err)
		}
		if already {
			continue
		}

		s.notifier.TaskOverdue(task)
		notified++
	}

	s.logger.Info("overdue sweep finished",
		slog.Int("processed", processed),
		slog.Int("notified", notified),
	)
	return processed, notified, nil
}
