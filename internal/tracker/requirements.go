package tracker

import (
	"context"

	log "github.com/sirupsen/logrus"
)

const (
	waterPerKilo          = 30
	waterPerActivityBlock = 500
	activityBlockMinutes  = 30

	fatRatio     = 0.022
	proteinRatio = 0.075
	carbsRatio   = 0.125
)

// WeatherProvider returns the highest temperature forecast for today in a city.
type WeatherProvider interface {
	MaxTemperatureToday(ctx context.Context, city string) (float64, error)
}

// CalculateRequirements derives the daily goals for a profile. A failed
// weather lookup counts as 0 degrees, it never fails the calculation.
// The calorie override is not applied here.
func CalculateRequirements(ctx context.Context, weather WeatherProvider, p Profile) Goals {
	temperature := 0.0
	if weather != nil {
		t, err := weather.MaxTemperatureToday(ctx, p.City)
		if err != nil {
			log.Debugf("requirements: no temperature for city [%s], using 0: %s", p.City, err)
		} else {
			temperature = t
		}
	}

	calories := CalorieGoal(p.Weight, p.Height, p.Age, p.Sex)

	return Goals{
		Water:    WaterGoal(p.Weight, p.DailyActivityMinutes, temperature),
		Calories: calories,
		Fat:      int(float64(calories) * fatRatio),
		Protein:  int(float64(calories) * proteinRatio),
		Carbs:    int(float64(calories) * carbsRatio),
	}
}

func WaterGoal(weight, activityMinutes int, temperature float64) int {
	return weight*waterPerKilo +
		waterPerActivityBlock*(activityMinutes/activityBlockMinutes) +
		TemperatureBonus(temperature)
}

// TemperatureBonus is the extra water for hot days. Tiers are checked
// highest first and each includes its lower edge.
func TemperatureBonus(temperature float64) int {
	switch {
	case temperature >= 35:
		return 1000
	case temperature >= 30:
		return 750
	case temperature >= 25:
		return 500
	default:
		return 0
	}
}

// CalorieGoal is Mifflin-St Jeor with fixed offsets, truncated to int.
func CalorieGoal(weight, height, age int, sex Sex) int {
	base := 9.99*float64(weight) + 6.25*float64(height) - 4.92*float64(age)
	if sex == SexFemale {
		return int(base - 161)
	}
	return int(base + 5)
}
