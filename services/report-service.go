package services

import (
	"context"
	"sort"

	"github.com/itzjapcee-code/mosquito-tracker/config"
	"github.com/itzjapcee-code/mosquito-tracker/models"
)

// AtRiskThreshold is the progress percentage below which an active task is
// surfaced as at-risk.
const AtRiskThreshold = 30

// LeaderboardEntry is one ranked row of the member leaderboard.
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	User       string  `json:"user"`
	TotalScore float64 `json:"total_score"`
	Entries    int     `json:"entries"`
	LastActive string  `json:"last_active"`
}

// Overview carries the dashboard headline metrics.
type Overview struct {
	TotalScore    float64 `json:"total_score"`
	Entries       int     `json:"entries"`
	ActiveMembers int     `json:"active_members"`
	TopCategory   string  `json:"top_category"`
}

// SubcategoryNode groups the active tasks of one taxonomy leaf.
type SubcategoryNode struct {
	Name  string        `json:"name"`
	Tasks []models.Task `json:"tasks"`
}

// CategoryNode is one top-level branch of the task tree.
type CategoryNode struct {
	Category      string            `json:"category"`
	Subcategories []SubcategoryNode `json:"subcategories"`
}

// ReportService derives the aggregate views the dashboard consumes. It reads
// through the repositories and never writes.
type ReportService struct {
	tasks         *TaskService
	contributions *ContributionService
}

func NewReportService(tasks *TaskService, contributions *ContributionService) *ReportService {
	return &ReportService{tasks: tasks, contributions: contributions}
}

// Leaderboard ranks members by summed score over the orphan-filtered
// contribution view.
func (s *ReportService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	rows, err := s.contributions.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildLeaderboard(rows), nil
}

// BuildLeaderboard groups rows by user, sums V, counts entries and takes the
// latest date, then ranks descending by summed score. Ties keep first-seen
// group order.
func BuildLeaderboard(rows []models.ContributionRow) []LeaderboardEntry {
	index := make(map[string]int)
	var entries []LeaderboardEntry

	for _, row := range rows {
		i, ok := index[row.User]
		if !ok {
			i = len(entries)
			index[row.User] = i
			entries = append(entries, LeaderboardEntry{User: row.User})
		}
		entries[i].TotalScore += row.V
		entries[i].Entries++
		if row.Date > entries[i].LastActive {
			entries[i].LastActive = row.Date
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalScore > entries[j].TotalScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Overview computes the dashboard headline metrics from the orphan-filtered
// view.
func (s *ReportService) Overview(ctx context.Context) (*Overview, error) {
	rows, err := s.contributions.List(ctx)
	if err != nil {
		return nil, err
	}

	o := &Overview{Entries: len(rows)}
	members := make(map[string]struct{})
	categoryCounts := make(map[string]int)
	for _, row := range rows {
		o.TotalScore += row.V
		members[row.User] = struct{}{}
		categoryCounts[row.Category]++
	}
	o.ActiveMembers = len(members)

	best := 0
	for _, row := range rows {
		if categoryCounts[row.Category] > best {
			best = categoryCounts[row.Category]
			o.TopCategory = row.Category
		}
	}
	return o, nil
}

// ClassifyTasks partitions tasks into those whose category/subcategory pair
// exists in the taxonomy and orphans that drifted outside it. Orphans are
// surfaced, not rejected.
func ClassifyTasks(tasks []models.Task) (recognized, orphans []models.Task) {
	for _, t := range tasks {
		if config.IsRecognized(t.Category, t.Subcategory) {
			recognized = append(recognized, t)
		} else {
			orphans = append(orphans, t)
		}
	}
	return recognized, orphans
}

// AtRiskTasks returns the active tasks below the risk threshold.
func (s *ReportService) AtRiskTasks(ctx context.Context) ([]models.Task, error) {
	active, err := s.tasks.ActiveTasks(ctx)
	if err != nil {
		return nil, err
	}
	var atRisk []models.Task
	for _, t := range active {
		if t.Progress < AtRiskThreshold {
			atRisk = append(atRisk, t)
		}
	}
	return atRisk, nil
}

// TaskTree arranges the active tasks under the fixed taxonomy for the
// dashboard tree view. Tasks with an unrecognized pair are collected under a
// trailing Unclassified branch so data-entry drift stays visible.
func (s *ReportService) TaskTree(ctx context.Context) ([]CategoryNode, error) {
	active, err := s.tasks.ActiveTasks(ctx)
	if err != nil {
		return nil, err
	}

	var tree []CategoryNode
	for _, category := range config.CategoryOrder {
		node := CategoryNode{Category: category}
		for _, sub := range config.Categories[category] {
			leaf := SubcategoryNode{Name: sub}
			for _, t := range active {
				if t.Category == category && t.Subcategory == sub {
					leaf.Tasks = append(leaf.Tasks, t)
				}
			}
			node.Subcategories = append(node.Subcategories, leaf)
		}
		tree = append(tree, node)
	}

	_, orphans := ClassifyTasks(active)
	if len(orphans) > 0 {
		tree = append(tree, CategoryNode{
			Category:      "Unclassified",
			Subcategories: []SubcategoryNode{{Name: "Unrecognized", Tasks: orphans}},
		})
	}
	return tree, nil
}
