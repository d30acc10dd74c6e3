package models

import "encoding/json"

// Score is the quantified value of a single contribution: the total V plus
// the three factors that produced it. Field names mirror the stored record
// keys so both backends round-trip the same shape.
type Score struct {
	V               float64 `json:"V" bson:"V"`
	BaseValue       float64 `json:"B_val" bson:"B_val"`
	BaseLabel       string  `json:"B_label" bson:"B_label"`
	DifficultyValue float64 `json:"D_val" bson:"D_val"`
	DifficultyLabel string  `json:"D_label" bson:"D_label"`
	AccelValue      float64 `json:"M_val" bson:"M_val"`
	AccelLabel      string  `json:"M_label" bson:"M_label"`
}

// UnmarshalJSON tolerates a missing or malformed score on a stored record by
// decoding it as the zero Score instead of failing the whole collection load.
func (s *Score) UnmarshalJSON(data []byte) error {
	type plain Score
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*s = Score{}
		return nil
	}
	*s = Score(p)
	return nil
}

// Contribution is one dated reporting event against a task. The task name and
// taxonomy fields are a snapshot taken at submission time and are never
// re-synced if the task changes later.
type Contribution struct {
	ID          string `json:"id" bson:"id"`
	Date        string `json:"date" bson:"date"`
	User        string `json:"user" bson:"user"`
	TaskID      string `json:"task_id" bson:"task_id"`
	TaskName    string `json:"task_name" bson:"task_name"`
	Category    string `json:"category" bson:"category"`
	Subcategory string `json:"subcategory" bson:"subcategory"`
	Score       Score  `json:"score" bson:"score"`
	Description string `json:"description" bson:"description"`
	Timestamp   string `json:"timestamp" bson:"timestamp"`
}

// ContributionRow is the denormalized reporting view of a contribution with
// the nested score flattened into top-level columns.
type ContributionRow struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	User            string  `json:"user"`
	TaskID          string  `json:"task_id"`
	TaskName        string  `json:"task_name"`
	Category        string  `json:"category"`
	Subcategory     string  `json:"subcategory"`
	Description     string  `json:"description"`
	Timestamp       string  `json:"timestamp"`
	V               float64 `json:"V"`
	BaseValue       float64 `json:"B_val"`
	BaseLabel       string  `json:"B_label"`
	DifficultyValue float64 `json:"D_val"`
	DifficultyLabel string  `json:"D_label"`
	AccelValue      float64 `json:"M_val"`
	AccelLabel      string  `json:"M_label"`
}

// Flatten converts a contribution into its denormalized reporting row.
func (c *Contribution) Flatten() ContributionRow {
	return ContributionRow{
		ID:              c.ID,
		Date:            c.Date,
		User:            c.User,
		TaskID:          c.TaskID,
		TaskName:        c.TaskName,
		Category:        c.Category,
		Subcategory:     c.Subcategory,
		Description:     c.Description,
		Timestamp:       c.Timestamp,
		V:               c.Score.V,
		BaseValue:       c.Score.BaseValue,
		BaseLabel:       c.Score.BaseLabel,
		DifficultyValue: c.Score.DifficultyValue,
		DifficultyLabel: c.Score.DifficultyLabel,
		AccelValue:      c.Score.AccelValue,
		AccelLabel:      c.Score.AccelLabel,
	}
}
