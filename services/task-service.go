package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/itzjapcee-code/mosquito-tracker/config"
	"github.com/itzjapcee-code/mosquito-tracker/db"
	"github.com/itzjapcee-code/mosquito-tracker/logging"
	"github.com/itzjapcee-code/mosquito-tracker/models"
)

const dateLayout = "2006-01-02"

func today() string {
	return time.Now().Format(dateLayout)
}

// TaskService owns the task lifecycle. It depends only on the Store
// interface; whichever backend the connection manager resolved is invisible
// here.
type TaskService struct {
	store db.Store
}

func NewTaskService(store db.Store) *TaskService {
	return &TaskService{store: store}
}

// newTaskID generates a short opaque task identifier.
func newTaskID() string {
	return uuid.New().String()[:8]
}

// CreateTask creates a new active task at zero progress. The contributor set
// starts as {creator}, plus the operator when someone creates a task on
// another member's behalf.
func (s *TaskService) CreateTask(ctx context.Context, creator, name, category, subcategory, difficulty, operator string) (*models.Task, error) {
	if creator == "" {
		return nil, fmt.Errorf("task creator is required")
	}
	if name == "" {
		return nil, fmt.Errorf("task name is required")
	}
	if difficulty == "" {
		difficulty = config.DefaultDifficulty
	}
	if !config.IsValidDifficulty(difficulty) {
		return nil, fmt.Errorf("unknown difficulty level: %q", difficulty)
	}

	contributors := []string{creator}
	if operator != "" && operator != creator {
		contributors = append(contributors, operator)
	}

	now := today()
	task := &models.Task{
		ID:           newTaskID(),
		Creator:      creator,
		Contributors: contributors,
		Name:         name,
		Category:     category,
		Subcategory:  subcategory,
		Difficulty:   difficulty,
		Progress:     0,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Upsert(ctx, db.TasksCollection, task.ID, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s (%s) created by %s.", task.ID, task.Name, creator)
	return task, nil
}

func (s *TaskService) loadTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.store.Load(ctx, db.TasksCollection, &tasks); err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	return tasks, nil
}

// ActiveTasks returns every task whose status is active. Filtering happens
// in memory; no backend-side status query is assumed.
func (s *TaskService) ActiveTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return nil, err
	}
	var active []models.Task
	for _, t := range tasks {
		if t.Status == models.StatusActive {
			active = append(active, t)
		}
	}
	return active, nil
}

// TasksInvolving returns the active tasks user contributes to.
func (s *TaskService) TasksInvolving(ctx context.Context, user string) ([]models.Task, error) {
	active, err := s.ActiveTasks(ctx)
	if err != nil {
		return nil, err
	}
	var involved []models.Task
	for _, t := range active {
		if t.HasContributor(user) {
			involved = append(involved, t)
		}
	}
	return involved, nil
}

// JoinTask appends user to the task's contributor set. Joining twice is a
// no-op; the second call reports false without writing. A missing task also
// reports false.
func (s *TaskService) JoinTask(ctx context.Context, user, taskID string) (bool, error) {
	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return false, err
	}
	for i := range tasks {
		if tasks[i].ID != taskID {
			continue
		}
		if tasks[i].HasContributor(user) {
			return false, nil
		}
		tasks[i].Contributors = append(tasks[i].Contributors, user)
		if err := s.store.Upsert(ctx, db.TasksCollection, taskID, &tasks[i]); err != nil {
			return false, fmt.Errorf("failed to join task: %v", err)
		}
		logging.Logger.Infof("Event ID: TASK_JOINED, Description: %s joined task %s.", user, taskID)
		return true, nil
	}
	return false, nil
}

// UpdateProgress sets the task's progress and refreshes updated_at. Reaching
// 100 flips the status to done. A missing task is a silent no-op.
func (s *TaskService) UpdateProgress(ctx context.Context, taskID string, progress int) error {
	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID != taskID {
			continue
		}
		tasks[i].Progress = progress
		tasks[i].UpdatedAt = today()
		if progress >= 100 {
			tasks[i].Status = models.StatusDone
		}
		if err := s.store.Upsert(ctx, db.TasksCollection, taskID, &tasks[i]); err != nil {
			return fmt.Errorf("failed to update task progress: %v", err)
		}
		return nil
	}
	return nil
}

// DeleteTaskCascade deletes the task and every contribution referencing it,
// returning how many contributions were removed. The store enforces no
// referential integrity of its own, so the cascade lives here and must run on
// every task deletion path.
func (s *TaskService) DeleteTaskCascade(ctx context.Context, taskID string) (int, error) {
	if _, err := s.store.Delete(ctx, db.TasksCollection, taskID); err != nil {
		return 0, fmt.Errorf("failed to delete task: %v", err)
	}

	var contributions []models.Contribution
	if err := s.store.Load(ctx, db.ContributionsCollection, &contributions); err != nil {
		return 0, fmt.Errorf("failed to retrieve contributions for cascade: %v", err)
	}

	removed := 0
	for _, c := range contributions {
		if c.TaskID != taskID {
			continue
		}
		if _, err := s.store.Delete(ctx, db.ContributionsCollection, c.ID); err != nil {
			return removed, fmt.Errorf("failed to cascade delete contribution %s: %v", c.ID, err)
		}
		removed++
	}

	logging.Logger.Infof("Event ID: TASK_CASCADE_DELETED, Description: Task %s deleted with %d contributions.", taskID, removed)
	return removed, nil
}

// PatchTask is the administrative field patch for status and progress
// corrections. It goes straight through the store; a missing task is a
// silent no-op.
func (s *TaskService) PatchTask(ctx context.Context, taskID, field string, value any) error {
	return s.store.PatchField(ctx, db.TasksCollection, taskID, field, value)
}
