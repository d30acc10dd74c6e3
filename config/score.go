package config

import (
	"fmt"
	"math"

	"github.com/itzjapcee-code/mosquito-tracker/models"
)

// Factor is one selectable row of a score factor table: a display label and
// the multiplier it stands for.
type Factor struct {
	Label string
	Value float64
}

// BaseFactors quantifies what kind of output was produced today.
var BaseFactors = []Factor{
	{Label: "Milestone", Value: 100.0},
	{Label: "Progress", Value: 50.0},
	{Label: "Fix", Value: 20.0},
	{Label: "Support", Value: 10.0},
}

// DifficultyFactors weighs the standing difficulty of the task itself.
// The labels double as the task difficulty enum.
var DifficultyFactors = []Factor{
	{Label: "S (Critical)", Value: 1.5},
	{Label: "A (Hard)", Value: 1.2},
	{Label: "B (Standard)", Value: 1.0},
	{Label: "C (Chore)", Value: 0.8},
}

// AccelerationFactors rewards work that removes work.
var AccelerationFactors = []Factor{
	{Label: "Level 3 (Delete/Redesign)", Value: 2.0},
	{Label: "Level 2 (Simplify/Accelerate)", Value: 1.5},
	{Label: "Level 1 (Automate/Execute)", Value: 1.0},
	{Label: "Level 0 (Busywork)", Value: 0.1},
}

// DefaultDifficulty is used when a task is created without an explicit level.
const DefaultDifficulty = "B (Standard)"

func factorValue(table []Factor, label string) (float64, bool) {
	for _, f := range table {
		if f.Label == label {
			return f.Value, true
		}
	}
	return 0, false
}

// IsValidDifficulty reports whether label is a known difficulty level.
func IsValidDifficulty(label string) bool {
	_, ok := factorValue(DifficultyFactors, label)
	return ok
}

// BuildScore resolves the three factor labels against their tables and
// computes V = base x difficulty x acceleration, rounded to two decimals.
func BuildScore(baseLabel, difficultyLabel, accelLabel string) (models.Score, error) {
	base, ok := factorValue(BaseFactors, baseLabel)
	if !ok {
		return models.Score{}, fmt.Errorf("unknown base factor: %q", baseLabel)
	}
	difficulty, ok := factorValue(DifficultyFactors, difficultyLabel)
	if !ok {
		return models.Score{}, fmt.Errorf("unknown difficulty factor: %q", difficultyLabel)
	}
	accel, ok := factorValue(AccelerationFactors, accelLabel)
	if !ok {
		return models.Score{}, fmt.Errorf("unknown acceleration factor: %q", accelLabel)
	}

	v := math.Round(base*difficulty*accel*100) / 100

	return models.Score{
		V:               v,
		BaseValue:       base,
		BaseLabel:       baseLabel,
		DifficultyValue: difficulty,
		DifficultyLabel: difficultyLabel,
		AccelValue:      accel,
		AccelLabel:      accelLabel,
	}, nil
}
