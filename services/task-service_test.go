package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/itzjapcee-code/mosquito-tracker/db"
	"github.com/itzjapcee-code/mosquito-tracker/models"
)

func newTestStore(t *testing.T) *db.LocalStore {
	t.Helper()
	dir := t.TempDir()
	return db.NewLocalStore(filepath.Join(dir, "tasks_db.json"), filepath.Join(dir, "contributions_db.json"))
}

func TestCreateTaskScenario(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "A", "X", "Product R&D", "Model Training", "B (Standard)", "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.ID == "" || len(created.ID) != 8 {
		t.Errorf("got id %q, want 8-char id", created.ID)
	}

	active, err := svc.ActiveTasks(ctx)
	if err != nil {
		t.Fatalf("ActiveTasks: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("got %d active tasks, want 1", len(active))
	}
	task := active[0]
	if task.Name != "X" || task.Progress != 0 || task.Status != models.StatusActive {
		t.Errorf("unexpected task: %+v", task)
	}
	if len(task.Contributors) != 1 || task.Contributors[0] != "A" {
		t.Errorf("got contributors %v, want [A]", task.Contributors)
	}
}

func TestCreateTaskOperatorJoinsContributors(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "A", "X", "Product R&D", "Model Training", "", "B")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if len(created.Contributors) != 2 || created.Contributors[0] != "A" || created.Contributors[1] != "B" {
		t.Errorf("got contributors %v, want [A B]", created.Contributors)
	}

	// An operator equal to the creator must not duplicate.
	created, err = svc.CreateTask(ctx, "A", "Y", "Product R&D", "Model Training", "", "A")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if len(created.Contributors) != 1 {
		t.Errorf("got contributors %v, want [A]", created.Contributors)
	}
}

func TestJoinTaskIdempotent(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "A", "X", "Product R&D", "Model Training", "", "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	joined, err := svc.JoinTask(ctx, "B", created.ID)
	if err != nil {
		t.Fatalf("JoinTask: %v", err)
	}
	if !joined {
		t.Error("first join reported false")
	}

	joined, err = svc.JoinTask(ctx, "B", created.ID)
	if err != nil {
		t.Fatalf("JoinTask: %v", err)
	}
	if joined {
		t.Error("second join reported true")
	}

	tasks, err := svc.ActiveTasks(ctx)
	if err != nil {
		t.Fatalf("ActiveTasks: %v", err)
	}
	if got := tasks[0].Contributors; len(got) != 2 {
		t.Errorf("got contributors %v, want exactly [A B]", got)
	}
}

func TestJoinMissingTask(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)

	joined, err := svc.JoinTask(context.Background(), "B", "nope1234")
	if err != nil {
		t.Fatalf("JoinTask: %v", err)
	}
	if joined {
		t.Error("join against missing task reported true")
	}
}

func TestTasksInvolving(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)
	ctx := context.Background()

	if _, err := svc.CreateTask(ctx, "A", "mine", "Product R&D", "Optimization", "", ""); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := svc.CreateTask(ctx, "B", "theirs", "Product R&D", "Optimization", "", ""); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	involved, err := svc.TasksInvolving(ctx, "A")
	if err != nil {
		t.Fatalf("TasksInvolving: %v", err)
	}
	if len(involved) != 1 || involved[0].Name != "mine" {
		t.Errorf("got %+v, want only the task A contributes to", involved)
	}
}

func TestUpdateProgressTransition(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "A", "X", "Product R&D", "Model Training", "", "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := svc.UpdateProgress(ctx, created.ID, 50); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	active, err := svc.ActiveTasks(ctx)
	if err != nil {
		t.Fatalf("ActiveTasks: %v", err)
	}
	if len(active) != 1 || active[0].Progress != 50 || active[0].Status != models.StatusActive {
		t.Errorf("after 50%%: %+v", active)
	}

	if err := svc.UpdateProgress(ctx, created.ID, 100); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	active, err = svc.ActiveTasks(ctx)
	if err != nil {
		t.Fatalf("ActiveTasks: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("completed task still listed active: %+v", active)
	}

	var all []models.Task
	if err := store.Load(ctx, db.TasksCollection, &all); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(all) != 1 || all[0].Status != models.StatusDone || all[0].Progress != 100 {
		t.Errorf("stored task after completion: %+v", all)
	}
}

func TestUpdateProgressMissingIsNoOp(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)

	if err := svc.UpdateProgress(context.Background(), "nope1234", 80); err != nil {
		t.Fatalf("UpdateProgress on missing task returned error: %v", err)
	}
}

func TestDeleteTaskCascade(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store)
	contributions := NewContributionService(store)
	ctx := context.Background()

	doomed, err := tasks.CreateTask(ctx, "A", "doomed", "Product R&D", "Model Training", "", "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	survivor, err := tasks.CreateTask(ctx, "A", "survivor", "Product R&D", "Model Training", "", "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	score := models.Score{V: 50}
	for i := 0; i < 2; i++ {
		if _, err := contributions.Add(ctx, "A", doomed.ID, doomed.Name, doomed.Category, doomed.Subcategory, score, "work", ""); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if _, err := contributions.Add(ctx, "B", survivor.ID, survivor.Name, survivor.Category, survivor.Subcategory, score, "work", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}

	removed, err := tasks.DeleteTaskCascade(ctx, doomed.ID)
	if err != nil {
		t.Fatalf("DeleteTaskCascade: %v", err)
	}
	if removed != 2 {
		t.Errorf("got %d removed contributions, want 2", removed)
	}

	// The raw, unfiltered collection holds nothing for the deleted task.
	var remaining []models.Contribution
	if err := store.Load(ctx, db.ContributionsCollection, &remaining); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, c := range remaining {
		if c.TaskID == doomed.ID {
			t.Errorf("contribution %s still references deleted task", c.ID)
		}
	}
	if len(remaining) != 1 {
		t.Errorf("got %d remaining contributions, want 1", len(remaining))
	}

	active, err := tasks.ActiveTasks(ctx)
	if err != nil {
		t.Fatalf("ActiveTasks: %v", err)
	}
	if len(active) != 1 || active[0].ID != survivor.ID {
		t.Errorf("unexpected surviving tasks: %+v", active)
	}
}

func TestPatchTask(t *testing.T) {
	store := newTestStore(t)
	svc := NewTaskService(store)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "A", "X", "Product R&D", "Model Training", "", "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := svc.PatchTask(ctx, created.ID, "status", string(models.StatusPaused)); err != nil {
		t.Fatalf("PatchTask: %v", err)
	}

	var all []models.Task
	if err := store.Load(ctx, db.TasksCollection, &all); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if all[0].Status != models.StatusPaused {
		t.Errorf("got status %q, want paused", all[0].Status)
	}
}
