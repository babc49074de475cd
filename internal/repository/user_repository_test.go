package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// newMockDB opens a gorm connection backed by sqlmock so query shapes can be
// asserted without a live server.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestGormUserRepository_EmailTaken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE LOWER\\(email\\) = \\?").
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	taken, err := repo.EmailTaken("Taken@Example.com", 0)
	require.NoError(t, err)
	require.True(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_EmailTaken_ExcludesSelf(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE LOWER\\(email\\) = \\? AND id != \\?").
		WithArgs("mine@example.com", uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	taken, err := repo.EmailTaken("mine@example.com", 7)
	require.NoError(t, err)
	require.False(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormNotificationRepository_HasOverdueForTaskSince(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	cutoff := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `notifications` WHERE type = \\? AND related_type = \\? AND related_id = \\? AND created_at >= \\?").
		WithArgs(string(models.NotifyTaskOverdue), string(models.RelatedTask), uint64(42), cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	found, err := repo.HasOverdueForTaskSince(42, cutoff)
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}
