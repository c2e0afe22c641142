package ai

import (
	"fmt"
	"strings"
)

// DietType is the eating pattern the recipe should follow.
type DietType string

const (
	DietBalanced          DietType = "balanced"
	DietLowCalorieHealthy DietType = "low_calorie_healthy"
	DietHighProtein       DietType = "high_protein"
	DietVegetarian        DietType = "vegetarian"
	DietVegan             DietType = "vegan"
	DietKeto              DietType = "keto"
)

// DietTypes lists every diet in the order the UI offers them.
var DietTypes = []DietType{
	DietBalanced,
	DietLowCalorieHealthy,
	DietHighProtein,
	DietVegetarian,
	DietVegan,
	DietKeto,
}

var dietLabels = map[DietType]string{
	DietBalanced:          "Balanced",
	DietLowCalorieHealthy: "Healthy & Low-Calorie",
	DietHighProtein:       "High Protein",
	DietVegetarian:        "Vegetarian",
	DietVegan:             "Vegan",
	DietKeto:              "Keto",
}

// Label is the human-readable name used in prompts and the UI.
func (d DietType) Label() string {
	if l, ok := dietLabels[d]; ok {
		return l
	}
	return string(d)
}

// Difficulty is the cook's self-reported skill level.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

var Difficulties = []Difficulty{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyAdvanced,
}

var difficultyLabels = map[Difficulty]string{
	DifficultyBeginner:     "Beginner",
	DifficultyIntermediate: "Intermediate",
	DifficultyAdvanced:     "Advanced",
}

func (d Difficulty) Label() string {
	if l, ok := difficultyLabels[d]; ok {
		return l
	}
	return string(d)
}

// Defaults preselected by the UI.
const (
	DefaultDiet       = DietBalanced
	DefaultDifficulty = DifficultyIntermediate
)

// ParseDietType accepts an identifier ("high_protein") or a label
// ("High Protein"), case-insensitively. An empty string yields DefaultDiet.
func ParseDietType(s string) (DietType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultDiet, nil
	}
	for _, d := range DietTypes {
		if strings.EqualFold(s, string(d)) || strings.EqualFold(s, d.Label()) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown diet type %q", s)
}

// ParseDifficulty mirrors ParseDietType for skill levels.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultDifficulty, nil
	}
	for _, d := range Difficulties {
		if strings.EqualFold(s, string(d)) || strings.EqualFold(s, d.Label()) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}
