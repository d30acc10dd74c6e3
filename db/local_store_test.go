package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/itzjapcee-code/mosquito-tracker/models"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	dir := t.TempDir()
	return NewLocalStore(filepath.Join(dir, "tasks_db.json"), filepath.Join(dir, "contributions_db.json"))
}

func sampleTask(id, name string) *models.Task {
	return &models.Task{
		ID:           id,
		Creator:      "A",
		Contributors: []string{"A"},
		Name:         name,
		Category:     "Product R&D",
		Subcategory:  "Model Training",
		Difficulty:   "B (Standard)",
		Status:       models.StatusActive,
		CreatedAt:    "2025-03-01",
		UpdatedAt:    "2025-03-01",
	}
}

func TestLocalRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := map[string]string{
		"aaaa1111": "Optimize CNN layers",
		"bbbb2222": "现场部署准备", // non-ASCII must survive the round-trip
	}
	for id, name := range want {
		if err := store.Upsert(ctx, TasksCollection, id, sampleTask(id, name)); err != nil {
			t.Fatalf("Upsert(%s): %v", id, err)
		}
	}

	var tasks []models.Task
	if err := store.Load(ctx, TasksCollection, &tasks); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tasks) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(want))
	}
	for _, task := range tasks {
		if want[task.ID] != task.Name {
			t.Errorf("task %s: got name %q, want %q", task.ID, task.Name, want[task.ID])
		}
	}
}

func TestUpsertReplacesInPlace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, TasksCollection, "aaaa1111", sampleTask("aaaa1111", "v1")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	updated := sampleTask("aaaa1111", "v2")
	updated.Progress = 40
	if err := store.Upsert(ctx, TasksCollection, "aaaa1111", updated); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	var tasks []models.Task
	if err := store.Load(ctx, TasksCollection, &tasks); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("cardinality changed: got %d tasks, want 1", len(tasks))
	}
	if tasks[0].Name != "v2" || tasks[0].Progress != 40 {
		t.Errorf("record not replaced: got %+v", tasks[0])
	}
}

func TestDeleteReportsRemoval(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, TasksCollection, "aaaa1111", sampleTask("aaaa1111", "X")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	removed, err := store.Delete(ctx, TasksCollection, "aaaa1111")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !removed {
		t.Error("Delete of existing record reported false")
	}

	removed, err = store.Delete(ctx, TasksCollection, "aaaa1111")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed {
		t.Error("Delete of missing record reported true")
	}
}

func TestPatchField(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, TasksCollection, "aaaa1111", sampleTask("aaaa1111", "X")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.PatchField(ctx, TasksCollection, "aaaa1111", "progress", 55); err != nil {
		t.Fatalf("PatchField: %v", err)
	}

	var tasks []models.Task
	if err := store.Load(ctx, TasksCollection, &tasks); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tasks[0].Progress != 55 {
		t.Errorf("got progress %d, want 55", tasks[0].Progress)
	}
	if tasks[0].Name != "X" {
		t.Errorf("patch touched other fields: got name %q", tasks[0].Name)
	}

	// Patching a missing id is a silent no-op.
	if err := store.PatchField(ctx, TasksCollection, "missing", "progress", 99); err != nil {
		t.Fatalf("PatchField on missing id: %v", err)
	}
}

func TestMissingFileIsEmptyCollection(t *testing.T) {
	store := newTestStore(t)

	var tasks []models.Task
	if err := store.Load(context.Background(), TasksCollection, &tasks); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("got %d tasks from missing file, want 0", len(tasks))
	}
}

func TestCorruptFileIsEmptyCollection(t *testing.T) {
	dir := t.TempDir()
	taskFile := filepath.Join(dir, "tasks_db.json")
	if err := os.WriteFile(taskFile, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	store := NewLocalStore(taskFile, filepath.Join(dir, "contributions_db.json"))

	var tasks []models.Task
	if err := store.Load(context.Background(), TasksCollection, &tasks); err != nil {
		t.Fatalf("Load on corrupt file returned error: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("got %d tasks from corrupt file, want 0", len(tasks))
	}
}
