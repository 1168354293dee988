package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskflow/internal/model"
	"taskflow/internal/store"
)

// taskRow is the persisted task shape. The snake_case columns are the
// durable contract; conversion to the canonical record happens here and
// nowhere else.
type taskRow struct {
	ID               string `gorm:"primaryKey"`
	UserID           string `gorm:"index"`
	Title            string
	Description      string
	Category         string
	EstimatedMinutes int
	ScheduledStart   *time.Time
	ScheduledEnd     *time.Time
	Completed        bool `gorm:"default:false"`
	CompletedAt      *time.Time
	InProgress       bool `gorm:"default:false"`
	TimerStartedAt   *time.Time
	TimeSpent        int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (taskRow) TableName() string { return "tasks" }

func rowFromTask(t model.Task) taskRow {
	return taskRow{
		ID:               t.ID,
		UserID:           t.UserID,
		Title:            t.Title,
		Description:      t.Description,
		Category:         t.Category,
		EstimatedMinutes: t.EstimatedMinutes,
		ScheduledStart:   t.ScheduledStart,
		ScheduledEnd:     t.ScheduledEnd,
		Completed:        t.Completed,
		CompletedAt:      t.CompletedAt,
		InProgress:       t.InProgress,
		TimerStartedAt:   t.TimerStartedAt,
		TimeSpent:        t.TimeSpent,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func taskFromRow(r taskRow) model.Task {
	return model.Task{
		ID:               r.ID,
		UserID:           r.UserID,
		Title:            r.Title,
		Description:      r.Description,
		Category:         r.Category,
		EstimatedMinutes: r.EstimatedMinutes,
		ScheduledStart:   r.ScheduledStart,
		ScheduledEnd:     r.ScheduledEnd,
		Completed:        r.Completed,
		CompletedAt:      r.CompletedAt,
		InProgress:       r.InProgress,
		TimerStartedAt:   r.TimerStartedAt,
		TimeSpent:        r.TimeSpent,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// columnForField translates canonical field keys into columns.
var columnForField = map[string]string{
	store.FieldTitle:            "title",
	store.FieldDescription:      "description",
	store.FieldCategory:         "category",
	store.FieldEstimatedMinutes: "estimated_minutes",
	store.FieldScheduledStart:   "scheduled_start",
	store.FieldScheduledEnd:     "scheduled_end",
	store.FieldCompleted:        "completed",
	store.FieldCompletedAt:      "completed_at",
	store.FieldInProgress:       "in_progress",
	store.FieldTimerStartedAt:   "timer_started_at",
	store.FieldTimeSpent:        "time_spent",
}

// TaskRepository is the relational persistence adapter.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) LoadAll(ctx context.Context, userID string) ([]model.Task, error) {
	var rows []taskRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, taskFromRow(row))
	}
	return tasks, nil
}

func (r *TaskRepository) Insert(ctx context.Context, task *model.Task) error {
	row := rowFromTask(*task)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, userID, id string, fields map[string]any) error {
	updates := make(map[string]any, len(fields))
	for key, value := range fields {
		column, ok := columnForField[key]
		if !ok {
			return fmt.Errorf("update task: unknown field %q", key)
		}
		updates[column] = value
	}
	if err := r.db.WithContext(ctx).Model(&taskRow{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).
		Delete(&taskRow{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
