package tracker

type WorkoutType string

const (
	WorkoutRunning       WorkoutType = "running"
	WorkoutCycling       WorkoutType = "cycling"
	WorkoutYoga          WorkoutType = "yoga"
	WorkoutDancing       WorkoutType = "dancing"
	WorkoutSwimming      WorkoutType = "swimming"
	WorkoutGym           WorkoutType = "gym"
	WorkoutFigureSkating WorkoutType = "figure-skating"
	WorkoutSkiing        WorkoutType = "skiing"
	WorkoutBoxing        WorkoutType = "boxing"
	WorkoutBadminton     WorkoutType = "badminton"
	WorkoutBowling       WorkoutType = "bowling"
	WorkoutTennis        WorkoutType = "tennis"
	WorkoutFootball      WorkoutType = "football"
	WorkoutTableTennis   WorkoutType = "table-tennis"
	WorkoutVolleyball    WorkoutType = "volleyball"
)

// calories burned per minute
var workoutCoefficients = map[WorkoutType]float64{
	WorkoutRunning:       10,
	WorkoutCycling:       5.3,
	WorkoutYoga:          3.75,
	WorkoutDancing:       6.7,
	WorkoutSwimming:      3.83,
	WorkoutGym:           11,
	WorkoutFigureSkating: 5,
	WorkoutSkiing:        8.1,
	WorkoutBoxing:        14.2,
	WorkoutBadminton:     6.75,
	WorkoutBowling:       4.5,
	WorkoutTennis:        6.7,
	WorkoutFootball:      7.5,
	WorkoutTableTennis:   5.25,
	WorkoutVolleyball:    4.25,
}

// WorkoutTypes lists the catalogue in the order it is offered to users.
var WorkoutTypes = []WorkoutType{
	WorkoutRunning, WorkoutCycling,
	WorkoutYoga, WorkoutDancing,
	WorkoutSwimming, WorkoutGym,
	WorkoutFigureSkating, WorkoutSkiing,
	WorkoutBoxing, WorkoutBadminton,
	WorkoutBowling, WorkoutTennis,
	WorkoutFootball, WorkoutTableTennis,
	WorkoutVolleyball,
}

func (wt WorkoutType) String() string {
	return string(wt)
}

func (wt WorkoutType) IsValid() bool {
	_, ok := workoutCoefficients[wt]
	return ok
}

func (wt WorkoutType) Coefficient() float64 {
	return workoutCoefficients[wt]
}

// CaloriesBurned truncates duration * coefficient to int.
func (wt WorkoutType) CaloriesBurned(minutes int) int {
	return int(float64(minutes) * wt.Coefficient())
}

// AdditionalWater is the extra water for training beyond the daily baseline,
// 7 ml per excess minute. ok is false when there is no excess.
func AdditionalWater(trainedMinutes, dailyActivityMinutes int) (ml int, ok bool) {
	extra := trainedMinutes - dailyActivityMinutes
	if extra <= 0 {
		return 0, false
	}
	return 7 * extra, true
}
