package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/Aghostraa/abcr-platform/internal/lifecycle"
	"github.com/Aghostraa/abcr-platform/internal/models"
	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTaskRepoTest(t *testing.T) (*gorm.DB, TaskRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.UserProfile{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return db, NewTaskRepository(db)
}

func seedTask(t *testing.T, db *gorm.DB, status models.TaskStatus, applicantID *string) *models.Task {
	t.Helper()
	task := &models.Task{
		Name:         "Flyer run",
		Instructions: "Distribute flyers on campus",
		Urgency:      2,
		Priority:     3,
		Difficulty:   1,
		Points:       models.PointsFor(2, 3, 1),
		Status:       status,
		ApplicantID:  applicantID,
		CreatedBy:    uuid.NewString(),
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestApplyTransition_Apply(t *testing.T) {
	db, repo := setupTaskRepoTest(t)
	task := seedTask(t, db, models.TaskStatusPending, nil)

	actor := uuid.NewString()
	tr, err := lifecycle.ForAction(lifecycle.ActionApply)
	require.NoError(t, err)

	require.NoError(t, repo.ApplyTransition(task.ID, tr, actor, time.Now()))

	var updated models.Task
	require.NoError(t, db.First(&updated, task.ID).Error)
	require.Equal(t, models.TaskStatusApplied, updated.Status)
	require.NotNil(t, updated.ApplicantID)
	require.Equal(t, actor, *updated.ApplicantID)
}

func TestApplyTransition_SecondApplyLoses(t *testing.T) {
	db, repo := setupTaskRepoTest(t)
	task := seedTask(t, db, models.TaskStatusPending, nil)

	tr, err := lifecycle.ForAction(lifecycle.ActionApply)
	require.NoError(t, err)

	first := uuid.NewString()
	second := uuid.NewString()

	require.NoError(t, repo.ApplyTransition(task.ID, tr, first, time.Now()))

	// The second attempt sees a row that no longer matches the guard: the
	// status moved off pending and the applicant slot is taken. Exactly one
	// of two competing applies may succeed.
	err = repo.ApplyTransition(task.ID, tr, second, time.Now())
	require.ErrorIs(t, err, lifecycle.ErrNotApplicable)

	var updated models.Task
	require.NoError(t, db.First(&updated, task.ID).Error)
	require.Equal(t, first, *updated.ApplicantID)
}

func TestApplyTransition_MarkDoneRequiresApplicant(t *testing.T) {
	db, repo := setupTaskRepoTest(t)

	applicant := uuid.NewString()
	stranger := uuid.NewString()
	task := seedTask(t, db, models.TaskStatusInProgress, &applicant)

	tr, err := lifecycle.ForAction(lifecycle.ActionMarkDone)
	require.NoError(t, err)

	err = repo.ApplyTransition(task.ID, tr, stranger, time.Now())
	require.ErrorIs(t, err, lifecycle.ErrNotApplicable)

	// Row must be untouched after the rejected attempt.
	var unchanged models.Task
	require.NoError(t, db.First(&unchanged, task.ID).Error)
	require.Equal(t, models.TaskStatusInProgress, unchanged.Status)
	require.Nil(t, unchanged.CompletedAt)

	require.NoError(t, repo.ApplyTransition(task.ID, tr, applicant, time.Now()))

	var updated models.Task
	require.NoError(t, db.First(&updated, task.ID).Error)
	require.Equal(t, models.TaskStatusPendingApproval, updated.Status)
	require.NotNil(t, updated.CompletedAt)
}

func TestApplyTransition_WrongState(t *testing.T) {
	db, repo := setupTaskRepoTest(t)
	task := seedTask(t, db, models.TaskStatusPending, nil)

	tr, err := lifecycle.ForAction(lifecycle.ActionApproveApplication)
	require.NoError(t, err)

	err = repo.ApplyTransition(task.ID, tr, uuid.NewString(), time.Now())
	require.ErrorIs(t, err, lifecycle.ErrNotApplicable)
}

func TestApplyTransition_ApproveCompletion(t *testing.T) {
	db, repo := setupTaskRepoTest(t)

	applicant := uuid.NewString()
	task := seedTask(t, db, models.TaskStatusPendingApproval, &applicant)

	approver := uuid.NewString()
	tr, err := lifecycle.ForAction(lifecycle.ActionApproveCompletion)
	require.NoError(t, err)

	require.NoError(t, repo.ApplyTransition(task.ID, tr, approver, time.Now()))

	var updated models.Task
	require.NoError(t, db.First(&updated, task.ID).Error)
	require.Equal(t, models.TaskStatusCompleted, updated.Status)
	require.Equal(t, approver, *updated.ApprovedBy)
	require.NotNil(t, updated.ApprovedAt)
}

func TestOverride_BypassesGuards(t *testing.T) {
	db, repo := setupTaskRepoTest(t)
	task := seedTask(t, db, models.TaskStatusCompleted, nil)

	assignee := uuid.NewString()
	require.NoError(t, repo.Override(task.ID, models.TaskStatusPending, &assignee))

	var updated models.Task
	require.NoError(t, db.First(&updated, task.ID).Error)
	require.Equal(t, models.TaskStatusPending, updated.Status)
	require.Equal(t, assignee, *updated.AssignedUserID)
}

// TestApplyTransition_GuardedSQL asserts the shape of the statement the
// repository issues: the precondition must live in the WHERE clause of the
// same UPDATE that performs the effect, not in a separate read.
func TestApplyTransition_GuardedSQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	repo := NewTaskRepository(db)

	tr, err := lifecycle.ForAction(lifecycle.ActionApply)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "tasks" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	actor := uuid.NewString()
	require.NoError(t, repo.ApplyTransition(42, tr, actor, time.Now()))
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestApplyTransition_GuardedSQL_WhereClause checks the full guard set for
// the apply action: id, current status, and the empty applicant slot.
func TestApplyTransition_GuardedSQL_WhereClause(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	repo := NewTaskRepository(db)

	tr, err := lifecycle.ForAction(lifecycle.ActionApply)
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE "tasks" SET .+ WHERE \(id = \$\d+ AND status = \$\d+\) AND applicant_id IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ApplyTransition(42, tr, uuid.NewString(), time.Now()))
	require.NoError(t, mock.ExpectationsWereMet())
}
