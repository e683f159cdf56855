package wizard

import (
	"fmt"
	"strings"

	"github.com/2beens/nutribot/internal/tracker"

	log "github.com/sirupsen/logrus"
)

const (
	promptWorkoutType = "Choose a workout type:"
	promptDuration    = "How many minutes did you train?"
	rejectWorkoutType = "Unknown workout type, please pick one from the list"
)

// WorkoutWizard asks for a workout type and its duration, then books the
// burned calories on the user's record.
type WorkoutWizard struct {
	sessions *Sessions
	store    *tracker.Store
}

func NewWorkoutWizard(sessions *Sessions, store *tracker.Store) *WorkoutWizard {
	return &WorkoutWizard{
		sessions: sessions,
		store:    store,
	}
}

// Start requires an existing profile, otherwise tracker.ErrNotFound is returned.
func (w *WorkoutWizard) Start(userID int64) (Response, error) {
	if !w.store.Exists(userID) {
		return Response{}, tracker.ErrNotFound
	}

	sess := w.sessions.Start(userID, KindWorkout, StepAwaitingWorkoutType)
	log.Debugf("wizard: workout session %s started for user %d", sess.ID, userID)

	return Response{Text: promptWorkoutType, Step: sess.Step}, nil
}

func (w *WorkoutWizard) Handle(userID int64, text string) (Response, error) {
	sess, ok := w.sessions.Get(userID)
	if !ok || sess.Kind != KindWorkout {
		return Response{}, ErrNoSession
	}

	switch sess.Step {
	case StepAwaitingWorkoutType:
		wt := tracker.WorkoutType(strings.ToLower(strings.TrimSpace(text)))
		if !wt.IsValid() {
			return Response{Text: rejectWorkoutType, Step: sess.Step, Rejected: true}, nil
		}
		sess.Workout = wt
		return advance(w.sessions, sess, StepAwaitingDuration, promptDuration)
	case StepAwaitingDuration:
		parsed := tracker.ParseBounded(text, tracker.WorkoutDurationBounds)
		if !parsed.OK() {
			return Response{Text: parsed.Message(), Step: sess.Step, Rejected: true}, nil
		}
		return w.complete(sess, parsed.Value)
	default:
		return Response{}, fmt.Errorf("workout session %s in unexpected step %s", sess.ID, sess.Step)
	}
}

func (w *WorkoutWizard) complete(sess Session, minutes int) (Response, error) {
	if !w.sessions.Finish(sess.UserID) {
		return Response{}, ErrSessionExpired
	}

	burned := sess.Workout.CaloriesBurned(minutes)
	extraWater := 0
	rec, err := w.store.Update(sess.UserID, func(rec *tracker.Record) error {
		rec.Totals.BurnedCalories += burned
		rec.Totals.TrainedMinutes += minutes
		if ml, ok := tracker.AdditionalWater(rec.Totals.TrainedMinutes, rec.Profile.DailyActivityMinutes); ok {
			rec.Totals.AdditionalWaterMl = ml
			extraWater = ml
		}
		return nil
	})
	if err != nil {
		return Response{}, fmt.Errorf("book workout: %w", err)
	}

	log.Debugf(
		"wizard: user %d trained %s for %d min, burned %d, trained total %d",
		sess.UserID, sess.Workout, minutes, burned, rec.Totals.TrainedMinutes,
	)

	text := fmt.Sprintf("%s %d min: %d kcal burned", sess.Workout, minutes, burned)
	if extraWater > 0 {
		text += fmt.Sprintf("\nDrink an extra %d ml of water today", extraWater)
	}

	return Response{Text: text, Step: StepComplete, Done: true}, nil
}
