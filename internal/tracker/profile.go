package tracker

import (
	"fmt"
	"strings"
	"time"
)

type Sex string

const (
	SexFemale Sex = "female"
	SexMale   Sex = "male"
)

func (s Sex) String() string {
	return string(s)
}

func (s Sex) IsValid() bool {
	switch s {
	case SexFemale, SexMale:
		return true
	default:
		return false
	}
}

// ParseSex accepts exactly "female" or "male", ignoring case and surrounding whitespace.
func ParseSex(text string) (Sex, bool) {
	sex := Sex(strings.ToLower(strings.TrimSpace(text)))
	if !sex.IsValid() {
		return "", false
	}
	return sex, true
}

// Profile holds the attributes collected by the profile wizard.
type Profile struct {
	Weight               int    `json:"weight"`
	Height               int    `json:"height"`
	Sex                  Sex    `json:"sex"`
	Age                  int    `json:"age"`
	DailyActivityMinutes int    `json:"dailyActivityMinutes"`
	CalorieOverride      int    `json:"calorieOverride"`
	City                 string `json:"city"`
}

// Goals are computed once, when the profile is created.
type Goals struct {
	Water    int `json:"water"`
	Calories int `json:"calories"`
	Fat      int `json:"fat"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
}

func (g Goals) String() string {
	return fmt.Sprintf(
		"water: %d ml, calories: %d kcal, fat: %d g, protein: %d g, carbs: %d g",
		g.Water, g.Calories, g.Fat, g.Protein, g.Carbs,
	)
}

// Totals are lifetime accumulators; they are never reset, only dropped
// together with the profile.
type Totals struct {
	LoggedWater    int `json:"loggedWater"`
	LoggedCalories int `json:"loggedCalories"`
	LoggedFat      int `json:"loggedFat"`
	LoggedProtein  int `json:"loggedProtein"`
	LoggedCarbs    int `json:"loggedCarbs"`
	BurnedCalories int `json:"burnedCalories"`
	TrainedMinutes int `json:"trainedMinutes"`
	// AdditionalWaterMl is overwritten, not accumulated, on every workout
	// that pushes trained minutes past the daily activity baseline.
	AdditionalWaterMl int `json:"additionalWaterMl"`
}

type Record struct {
	UserID    int64     `json:"userId"`
	Profile   Profile   `json:"profile"`
	Goals     Goals     `json:"goals"`
	Totals    Totals    `json:"totals"`
	CreatedAt time.Time `json:"createdAt"`
}

// WaterTarget is the water goal plus the extra water earned by training.
func (r Record) WaterTarget() int {
	return r.Goals.Water + r.Totals.AdditionalWaterMl
}

// CalorieTarget is the calorie goal plus calories burned in workouts.
func (r Record) CalorieTarget() int {
	return r.Goals.Calories + r.Totals.BurnedCalories
}

// Field names an accumulator in Totals.
type Field string

const (
	FieldLoggedWater    Field = "logged_water"
	FieldLoggedCalories Field = "logged_calories"
	FieldLoggedFat      Field = "logged_fat"
	FieldLoggedProtein  Field = "logged_protein"
	FieldLoggedCarbs    Field = "logged_carbs"
	FieldBurnedCalories Field = "burned_calories"
	FieldTrainedMinutes Field = "trained_minutes"
)

func (f Field) String() string {
	return string(f)
}

func (t *Totals) accumulator(field Field) (*int, error) {
	switch field {
	case FieldLoggedWater:
		return &t.LoggedWater, nil
	case FieldLoggedCalories:
		return &t.LoggedCalories, nil
	case FieldLoggedFat:
		return &t.LoggedFat, nil
	case FieldLoggedProtein:
		return &t.LoggedProtein, nil
	case FieldLoggedCarbs:
		return &t.LoggedCarbs, nil
	case FieldBurnedCalories:
		return &t.BurnedCalories, nil
	case FieldTrainedMinutes:
		return &t.TrainedMinutes, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}
