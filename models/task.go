package models

type TaskStatus string

const (
	StatusActive TaskStatus = "active"
	StatusDone   TaskStatus = "done"
	StatusPaused TaskStatus = "paused"
)

// Task is a long-lived unit of work a group of team members report progress
// against. Date fields carry calendar dates in YYYY-MM-DD form, matching the
// on-disk record shape of local mode.
type Task struct {
	ID           string     `json:"id" bson:"id"`
	Creator      string     `json:"creator" bson:"creator"`
	Contributors []string   `json:"contributors" bson:"contributors"`
	Name         string     `json:"name" bson:"name"`
	Category     string     `json:"category" bson:"category"`
	Subcategory  string     `json:"subcategory" bson:"subcategory"`
	Difficulty   string     `json:"difficulty" bson:"difficulty"`
	Progress     int        `json:"progress" bson:"progress"`
	Status       TaskStatus `json:"status" bson:"status"`
	CreatedAt    string     `json:"created_at" bson:"created_at"`
	UpdatedAt    string     `json:"updated_at" bson:"updated_at"`
}

// HasContributor reports whether user already appears in the contributor set.
func (t *Task) HasContributor(user string) bool {
	for _, c := range t.Contributors {
		if c == user {
			return true
		}
	}
	return false
}
