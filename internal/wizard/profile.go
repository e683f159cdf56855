package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/nutribot/internal/tracker"

	log "github.com/sirupsen/logrus"
)

var (
	ErrProfileExists  = errors.New("profile already exists")
	ErrNoSession      = errors.New("no active wizard session")
	ErrSessionExpired = errors.New("wizard session expired")
)

const (
	promptWeight          = "Enter your weight (kg):"
	promptHeight          = "Enter your height (cm):"
	promptSex             = "Enter your sex (female or male):"
	promptAge             = "Enter your age:"
	promptActivity        = "How many minutes of activity do you have per day?"
	promptCalorieOverride = "Enter your daily calorie goal, or 0 to calculate it automatically:"
	promptCity            = "Which city do you live in?"

	rejectSex  = "Please answer female or male"
	rejectCity = "City can not be empty. Which city do you live in?"
)

// Response is what a wizard step produced for the user.
type Response struct {
	Text string
	// Step is the step the session is in after the reply was handled.
	Step     Step
	Rejected bool
	Done     bool
}

type numericStep struct {
	bounds tracker.Bounds
	assign func(p *tracker.Profile, v int)
	next   Step
	prompt string
}

var profileNumericSteps = map[Step]numericStep{
	StepAwaitingWeight: {
		bounds: tracker.WeightBounds,
		assign: func(p *tracker.Profile, v int) { p.Weight = v },
		next:   StepAwaitingHeight,
		prompt: promptHeight,
	},
	StepAwaitingHeight: {
		bounds: tracker.HeightBounds,
		assign: func(p *tracker.Profile, v int) { p.Height = v },
		next:   StepAwaitingSex,
		prompt: promptSex,
	},
	StepAwaitingAge: {
		bounds: tracker.AgeBounds,
		assign: func(p *tracker.Profile, v int) { p.Age = v },
		next:   StepAwaitingActivity,
		prompt: promptActivity,
	},
	StepAwaitingActivity: {
		bounds: tracker.ActivityBounds,
		assign: func(p *tracker.Profile, v int) { p.DailyActivityMinutes = v },
		next:   StepAwaitingCalorieOverride,
		prompt: promptCalorieOverride,
	},
	StepAwaitingCalorieOverride: {
		bounds: tracker.CalorieOverrideBounds,
		assign: func(p *tracker.Profile, v int) { p.CalorieOverride = v },
		next:   StepAwaitingCity,
		prompt: promptCity,
	},
}

// ProfileWizard collects the profile one field per message and creates the
// user's record once the city is known.
type ProfileWizard struct {
	sessions *Sessions
	store    *tracker.Store
	weather  tracker.WeatherProvider
}

func NewProfileWizard(sessions *Sessions, store *tracker.Store, weather tracker.WeatherProvider) *ProfileWizard {
	return &ProfileWizard{
		sessions: sessions,
		store:    store,
		weather:  weather,
	}
}

func (w *ProfileWizard) Start(userID int64) (Response, error) {
	if w.store.Exists(userID) {
		return Response{}, ErrProfileExists
	}

	sess := w.sessions.Start(userID, KindProfile, StepAwaitingWeight)
	log.Debugf("wizard: profile session %s started for user %d", sess.ID, userID)

	return Response{Text: promptWeight, Step: sess.Step}, nil
}

// Handle feeds one user reply into the pending profile session.
func (w *ProfileWizard) Handle(ctx context.Context, userID int64, text string) (Response, error) {
	sess, ok := w.sessions.Get(userID)
	if !ok || sess.Kind != KindProfile {
		return Response{}, ErrNoSession
	}

	if numeric, ok := profileNumericSteps[sess.Step]; ok {
		parsed := tracker.ParseBounded(text, numeric.bounds)
		if !parsed.OK() {
			return Response{Text: parsed.Message(), Step: sess.Step, Rejected: true}, nil
		}
		numeric.assign(&sess.Profile, parsed.Value)
		return advance(w.sessions, sess, numeric.next, numeric.prompt)
	}

	switch sess.Step {
	case StepAwaitingSex:
		sex, ok := tracker.ParseSex(text)
		if !ok {
			return Response{Text: rejectSex, Step: sess.Step, Rejected: true}, nil
		}
		sess.Profile.Sex = sex
		return advance(w.sessions, sess, StepAwaitingAge, promptAge)
	case StepAwaitingCity:
		if strings.TrimSpace(text) == "" {
			return Response{Text: rejectCity, Step: sess.Step, Rejected: true}, nil
		}
		sess.Profile.City = text
		return w.complete(ctx, sess)
	default:
		return Response{}, fmt.Errorf("profile session %s in unexpected step %s", sess.ID, sess.Step)
	}
}

func (w *ProfileWizard) complete(ctx context.Context, sess Session) (Response, error) {
	goals := tracker.CalculateRequirements(ctx, w.weather, sess.Profile)
	if sess.Profile.CalorieOverride > 0 {
		goals.Calories = sess.Profile.CalorieOverride
	}

	// the sweeper may have dropped the session while the weather was fetched
	if !w.sessions.Finish(sess.UserID) {
		return Response{}, ErrSessionExpired
	}

	rec, err := w.store.Create(sess.UserID, sess.Profile, goals)
	if err != nil {
		if errors.Is(err, tracker.ErrAlreadyExists) {
			return Response{}, ErrProfileExists
		}
		return Response{}, fmt.Errorf("create profile: %w", err)
	}

	log.Debugf("wizard: profile completed for user %d: %s", sess.UserID, rec.Goals)

	return Response{
		Text: fmt.Sprintf(
			"Profile saved. Your daily goals:\n"+
				"Water: %d ml\n"+
				"Calories: %d kcal\n"+
				"Fat: %d g\n"+
				"Protein: %d g\n"+
				"Carbs: %d g",
			rec.Goals.Water, rec.Goals.Calories, rec.Goals.Fat, rec.Goals.Protein, rec.Goals.Carbs,
		),
		Step: StepComplete,
		Done: true,
	}, nil
}
