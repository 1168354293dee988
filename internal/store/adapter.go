package store

import (
	"context"

	"taskflow/internal/model"
)

// Adapter is the durable-storage boundary. The store is storage-agnostic:
// both the relational adapter and the flat-file adapter implement this
// contract. Update receives only the fields that changed, keyed by the
// task's canonical field names; adapters translate to their own column or
// document shape at the edge.
type Adapter interface {
	LoadAll(ctx context.Context, userID string) ([]model.Task, error)
	Insert(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, userID, id string, fields map[string]any) error
	Delete(ctx context.Context, userID, id string) error
}

// ProfileStore persists the per-user profile record.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (model.UserProfile, error)
	Save(ctx context.Context, profile model.UserProfile) error
}

// Canonical field keys for Adapter.Update maps.
const (
	FieldTitle            = "title"
	FieldDescription      = "description"
	FieldCategory         = "category"
	FieldEstimatedMinutes = "estimatedMinutes"
	FieldScheduledStart   = "scheduledStart"
	FieldScheduledEnd     = "scheduledEnd"
	FieldCompleted        = "completed"
	FieldCompletedAt      = "completedAt"
	FieldInProgress       = "inProgress"
	FieldTimerStartedAt   = "timerStartedAt"
	FieldTimeSpent        = "timeSpent"
)
