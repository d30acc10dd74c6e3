package config

import "testing"

func TestBuildScore(t *testing.T) {
	tests := []struct {
		name       string
		base       string
		difficulty string
		accel      string
		want       float64
	}{
		{"progress on hard task", "Progress", "A (Hard)", "Level 1 (Automate/Execute)", 60.0},
		{"milestone with redesign", "Milestone", "S (Critical)", "Level 3 (Delete/Redesign)", 300.0},
		{"busywork barely counts", "Support", "C (Chore)", "Level 0 (Busywork)", 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := BuildScore(tt.base, tt.difficulty, tt.accel)
			if err != nil {
				t.Fatalf("BuildScore: %v", err)
			}
			if score.V != tt.want {
				t.Errorf("V = %v, want %v", score.V, tt.want)
			}
			if score.BaseLabel != tt.base || score.DifficultyLabel != tt.difficulty || score.AccelLabel != tt.accel {
				t.Errorf("labels not preserved: %+v", score)
			}
		})
	}
}

func TestBuildScoreUnknownLabel(t *testing.T) {
	if _, err := BuildScore("Progress", "Z (Unknown)", "Level 1 (Automate/Execute)"); err == nil {
		t.Error("expected error for unknown difficulty label")
	}
}

func TestIsRecognized(t *testing.T) {
	if !IsRecognized("Product R&D", "Model Training") {
		t.Error("known pair not recognized")
	}
	if IsRecognized("Product R&D", "Proposal Writing") {
		t.Error("subcategory of another category recognized")
	}
	if IsRecognized("Legacy", "Model Training") {
		t.Error("unknown category recognized")
	}
}
