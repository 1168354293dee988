package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/store"
)

// File names mirror the fixed storage keys of the local-only variant.
const (
	tasksFile   = "taskflow_tasks.json"
	profileFile = "taskflow_profile.json"
)

// FileStore is the local persistence variant: the whole task list lives in
// one JSON file that is read and rewritten wholesale on every mutation.
// There is no atomicity across processes; last write wins, which is the
// accepted trade-off of this mode.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// fileTask is the serialized task shape, matching the relational row
// field-for-field so both adapters persist the same contract.
type fileTask struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Category         string     `json:"category,omitempty"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	ScheduledStart   *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd     *time.Time `json:"scheduled_end,omitempty"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	InProgress       bool       `json:"in_progress,omitempty"`
	TimerStartedAt   *time.Time `json:"timer_started_at,omitempty"`
	TimeSpent        int        `json:"time_spent"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (f *FileStore) LoadAll(ctx context.Context, userID string) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	records, err := f.readTasks()
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	for _, rec := range records {
		if rec.UserID == userID {
			tasks = append(tasks, taskFromFile(rec))
		}
	}
	return tasks, nil
}

func (f *FileStore) Insert(ctx context.Context, task *model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	records, err := f.readTasks()
	if err != nil {
		return err
	}
	records = append(records, fileFromTask(*task))
	return f.writeTasks(records)
}

func (f *FileStore) Update(ctx context.Context, userID, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	records, err := f.readTasks()
	if err != nil {
		return err
	}
	for i, rec := range records {
		if rec.UserID != userID || rec.ID != id {
			continue
		}
		task := taskFromFile(rec)
		if err := applyFields(&task, fields); err != nil {
			return err
		}
		task.UpdatedAt = time.Now()
		records[i] = fileFromTask(task)
		return f.writeTasks(records)
	}
	return fmt.Errorf("update task: %s not in %s", id, tasksFile)
}

func (f *FileStore) Delete(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	records, err := f.readTasks()
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, rec := range records {
		if rec.UserID == userID && rec.ID == id {
			continue
		}
		kept = append(kept, rec)
	}
	return f.writeTasks(kept)
}

// Get returns the stored profile or the defaults when the file is absent.
func (f *FileStore) Get(ctx context.Context, userID string) (model.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(filepath.Join(f.dir, profileFile))
	if os.IsNotExist(err) {
		return model.DefaultProfile(userID), nil
	}
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("read profile: %w", err)
	}
	var profile model.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.UserProfile{}, fmt.Errorf("decode profile: %w", err)
	}
	profile.UserID = userID
	return profile, nil
}

// Save rewrites the profile file.
func (f *FileStore) Save(ctx context.Context, profile model.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, profileFile), data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

func (f *FileStore) readTasks() ([]fileTask, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, tasksFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	var records []fileTask
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return records, nil
}

func (f *FileStore) writeTasks(records []fileTask) error {
	if records == nil {
		records = []fileTask{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, tasksFile), data, 0o644); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}

func fileFromTask(t model.Task) fileTask {
	return fileTask{
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

func taskFromFile(r fileTask) model.Task {
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

// applyFields merges a canonical field map onto a task.
func applyFields(task *model.Task, fields map[string]any) error {
	for key, value := range fields {
		switch key {
		case store.FieldTitle:
			task.Title = value.(string)
		case store.FieldDescription:
			task.Description = value.(string)
		case store.FieldCategory:
			task.Category = value.(string)
		case store.FieldEstimatedMinutes:
			task.EstimatedMinutes = value.(int)
		case store.FieldScheduledStart:
			task.ScheduledStart = value.(*time.Time)
		case store.FieldScheduledEnd:
			task.ScheduledEnd = value.(*time.Time)
		case store.FieldCompleted:
			task.Completed = value.(bool)
		case store.FieldCompletedAt:
			task.CompletedAt = value.(*time.Time)
		case store.FieldInProgress:
			task.InProgress = value.(bool)
		case store.FieldTimerStartedAt:
			task.TimerStartedAt = value.(*time.Time)
		case store.FieldTimeSpent:
			task.TimeSpent = value.(int)
		default:
			return fmt.Errorf("update task: unknown field %q", key)
		}
	}
	return nil
}
