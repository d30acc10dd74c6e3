package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/itzjapcee-code/mosquito-tracker/db"
	"github.com/itzjapcee-code/mosquito-tracker/logging"
	"github.com/itzjapcee-code/mosquito-tracker/models"
)

// ContributionService owns contribution records: daily reporting events
// against tasks. Contributions are immutable in the normal flow; only the
// administrative correction path rewrites one.
type ContributionService struct {
	store db.Store
}

func NewContributionService(store db.Store) *ContributionService {
	return &ContributionService{store: store}
}

// Add records one reporting event. The task name and taxonomy fields are
// snapshotted at call time and never re-synced. Date defaults to today when
// omitted.
func (s *ContributionService) Add(ctx context.Context, user, taskID, taskName, category, subcategory string, score models.Score, description, date string) (*models.Contribution, error) {
	if user == "" {
		return nil, fmt.Errorf("contribution user is required")
	}
	if taskID == "" {
		return nil, fmt.Errorf("contribution task id is required")
	}
	if date == "" {
		date = today()
	}

	entry := &models.Contribution{
		ID:          uuid.New().String(),
		Date:        date,
		User:        user,
		TaskID:      taskID,
		TaskName:    taskName,
		Category:    category,
		Subcategory: subcategory,
		Score:       score,
		Description: description,
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	if err := s.store.Upsert(ctx, db.ContributionsCollection, entry.ID, entry); err != nil {
		return nil, fmt.Errorf("failed to add contribution: %v", err)
	}

	logging.Logger.Infof("Event ID: CONTRIBUTION_ADDED, Description: Contribution %s by %s against task %s (V=%.2f).", entry.ID, user, taskID, score.V)
	return entry, nil
}

// List returns the denormalized reporting view: contributions whose task
// still exists, with the nested score flattened into top-level columns.
// Orphans (task deleted) are hidden, never removed; a malformed score on any
// record degrades to zero instead of failing the view.
func (s *ContributionService) List(ctx context.Context) ([]models.ContributionRow, error) {
	var contributions []models.Contribution
	if err := s.store.Load(ctx, db.ContributionsCollection, &contributions); err != nil {
		return nil, fmt.Errorf("failed to retrieve contributions: %v", err)
	}

	var tasks []models.Task
	if err := s.store.Load(ctx, db.TasksCollection, &tasks); err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	live := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		live[t.ID] = struct{}{}
	}

	var rows []models.ContributionRow
	for i := range contributions {
		if _, ok := live[contributions[i].TaskID]; !ok {
			continue
		}
		rows = append(rows, contributions[i].Flatten())
	}
	return rows, nil
}

// Raw returns the unfiltered collection newest-first, for the administrative
// cleanup view. Orphans are included here on purpose.
func (s *ContributionService) Raw(ctx context.Context) ([]models.Contribution, error) {
	var contributions []models.Contribution
	if err := s.store.Load(ctx, db.ContributionsCollection, &contributions); err != nil {
		return nil, fmt.Errorf("failed to retrieve contributions: %v", err)
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Timestamp > contributions[j].Timestamp
	})
	return contributions, nil
}

// Correct overwrites score.V and the description of an existing record in
// place, then rewrites the full record. It works on the raw record map so
// any extra fields the stored record carries survive the round-trip. A
// missing id is a silent no-op.
func (s *ContributionService) Correct(ctx context.Context, id string, newScore float64, description string) error {
	var records []map[string]any
	if err := s.store.Load(ctx, db.ContributionsCollection, &records); err != nil {
		return fmt.Errorf("failed to retrieve contributions: %v", err)
	}

	for _, record := range records {
		if fmt.Sprint(record["id"]) != id {
			continue
		}
		// The nested score decodes as a plain map from the local backend and
		// as bson.M from the remote one.
		switch score := record["score"].(type) {
		case map[string]any:
			score["V"] = newScore
		case bson.M:
			score["V"] = newScore
		default:
			record["score"] = map[string]any{"V": newScore}
		}
		record["description"] = description

		if err := s.store.Upsert(ctx, db.ContributionsCollection, id, record); err != nil {
			return fmt.Errorf("failed to correct contribution %s: %v", id, err)
		}
		logging.Logger.Infof("Event ID: CONTRIBUTION_CORRECTED, Description: Contribution %s corrected (V=%.2f).", id, newScore)
		return nil
	}
	return nil
}

// Delete removes a single contribution, reporting whether one was removed
// where the backend can tell.
func (s *ContributionService) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.store.Delete(ctx, db.ContributionsCollection, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete contribution %s: %v", id, err)
	}
	return removed, nil
}
