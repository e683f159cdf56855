package wizard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/nutribot/internal/tracker"
	"github.com/2beens/nutribot/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testWeather struct {
	temperature float64
	err         error
}

func (w *testWeather) MaxTemperatureToday(context.Context, string) (float64, error) {
	return w.temperature, w.err
}

func newProfileWizard(weather tracker.WeatherProvider) (*wizard.ProfileWizard, *wizard.Sessions, *tracker.Store) {
	sessions := wizard.NewSessions(time.Hour)
	store := tracker.NewStore()
	return wizard.NewProfileWizard(sessions, store, weather), sessions, store
}

func feed(t *testing.T, pw *wizard.ProfileWizard, userID int64, replies ...string) wizard.Response {
	t.Helper()
	var resp wizard.Response
	for _, reply := range replies {
		var err error
		resp, err = pw.Handle(context.Background(), userID, reply)
		require.NoError(t, err, reply)
	}
	return resp
}

func TestProfileWizard_RoundTrip(t *testing.T) {
	pw, sessions, store := newProfileWizard(&testWeather{err: errors.New("unknown city")})

	resp, err := pw.Start(1)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepAwaitingWeight, resp.Step)
	assert.Contains(t, resp.Text, "weight")

	steps := []struct {
		reply string
		step  wizard.Step
	}{
		{reply: "70", step: wizard.StepAwaitingHeight},
		{reply: "175", step: wizard.StepAwaitingSex},
		{reply: "Male", step: wizard.StepAwaitingAge},
		{reply: "30", step: wizard.StepAwaitingActivity},
		{reply: "60", step: wizard.StepAwaitingCalorieOverride},
		{reply: "0", step: wizard.StepAwaitingCity},
	}
	for _, s := range steps {
		resp = feed(t, pw, 1, s.reply)
		assert.Equal(t, s.step, resp.Step, s.reply)
		assert.False(t, resp.Rejected)
		assert.False(t, resp.Done)
	}

	resp = feed(t, pw, 1, "X")
	assert.True(t, resp.Done)
	assert.Equal(t, wizard.StepComplete, resp.Step)
	assert.Contains(t, resp.Text, "Water: 3100 ml")
	assert.Contains(t, resp.Text, "Calories: 1650 kcal")
	assert.Contains(t, resp.Text, "Fat: 36 g")
	assert.Contains(t, resp.Text, "Protein: 123 g")
	assert.Contains(t, resp.Text, "Carbs: 206 g")

	_, ok := sessions.Get(1)
	assert.False(t, ok)

	rec, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, tracker.Profile{
		Weight:               70,
		Height:               175,
		Sex:                  tracker.SexMale,
		Age:                  30,
		DailyActivityMinutes: 60,
		City:                 "X",
	}, rec.Profile)
	assert.Equal(t, tracker.Goals{Water: 3100, Calories: 1650, Fat: 36, Protein: 123, Carbs: 206}, rec.Goals)
}

func TestProfileWizard_StartWithExistingProfile(t *testing.T) {
	pw, sessions, store := newProfileWizard(nil)
	_, err := store.Create(1, tracker.Profile{}, tracker.Goals{})
	require.NoError(t, err)

	_, err = pw.Start(1)
	assert.ErrorIs(t, err, wizard.ErrProfileExists)
	assert.Zero(t, sessions.Count())
}

func TestProfileWizard_HandleWithoutSession(t *testing.T) {
	pw, _, _ := newProfileWizard(nil)
	_, err := pw.Handle(context.Background(), 1, "70")
	assert.ErrorIs(t, err, wizard.ErrNoSession)
}

func TestProfileWizard_RejectionKeepsState(t *testing.T) {
	// replies that lead to each numeric step, followed by a valid reply for it
	prefixes := map[wizard.Step][]string{
		wizard.StepAwaitingWeight:          {},
		wizard.StepAwaitingHeight:          {"70"},
		wizard.StepAwaitingAge:             {"70", "175", "male"},
		wizard.StepAwaitingActivity:        {"70", "175", "male", "30"},
		wizard.StepAwaitingCalorieOverride: {"70", "175", "male", "30", "60"},
	}

	for step, prefix := range prefixes {
		t.Run(step.String(), func(t *testing.T) {
			pw, sessions, store := newProfileWizard(nil)
			_, err := pw.Start(1)
			require.NoError(t, err)
			feed(t, pw, 1, prefix...)

			before, ok := sessions.Get(1)
			require.True(t, ok)
			require.Equal(t, step, before.Step)

			for _, bad := range []string{"abc", "1.5", "", "99999"} {
				resp := feed(t, pw, 1, bad)
				assert.True(t, resp.Rejected, bad)
				assert.Equal(t, step, resp.Step)

				after, ok := sessions.Get(1)
				require.True(t, ok)
				assert.Equal(t, before.Step, after.Step)
				assert.Equal(t, before.Profile, after.Profile)
			}
			assert.False(t, store.Exists(1))
		})
	}
}

func TestProfileWizard_RejectionMessages(t *testing.T) {
	pw, _, _ := newProfileWizard(nil)
	_, err := pw.Start(1)
	require.NoError(t, err)

	resp := feed(t, pw, 1, "heavy")
	assert.Equal(t, "Invalid input. The value must be a number. Please try again", resp.Text)

	resp = feed(t, pw, 1, "250")
	assert.Equal(t, "Invalid weight value. Value 250 is out of range [15, 200]", resp.Text)

	resp = feed(t, pw, 1, "200")
	assert.False(t, resp.Rejected)
	assert.Equal(t, wizard.StepAwaitingHeight, resp.Step)
}

func TestProfileWizard_Sex(t *testing.T) {
	pw, sessions, _ := newProfileWizard(nil)
	_, err := pw.Start(1)
	require.NoError(t, err)
	feed(t, pw, 1, "60", "165")

	for _, bad := range []string{"f", "woman", "", "female male"} {
		resp := feed(t, pw, 1, bad)
		assert.True(t, resp.Rejected, bad)
		assert.Equal(t, wizard.StepAwaitingSex, resp.Step)
	}

	resp := feed(t, pw, 1, "  FEMALE ")
	assert.Equal(t, wizard.StepAwaitingAge, resp.Step)

	sess, ok := sessions.Get(1)
	require.True(t, ok)
	assert.Equal(t, tracker.SexFemale, sess.Profile.Sex)
}

func TestProfileWizard_BlankCity(t *testing.T) {
	pw, _, store := newProfileWizard(nil)
	_, err := pw.Start(1)
	require.NoError(t, err)
	resp := feed(t, pw, 1, "60", "165", "female", "25", "0", "0")
	require.Equal(t, wizard.StepAwaitingCity, resp.Step)

	resp = feed(t, pw, 1, "   ")
	assert.True(t, resp.Rejected)
	assert.Equal(t, wizard.StepAwaitingCity, resp.Step)
	assert.False(t, store.Exists(1))

	resp = feed(t, pw, 1, "Novi Sad")
	assert.True(t, resp.Done)
	rec, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Novi Sad", rec.Profile.City)
}

func TestProfileWizard_CityStoredVerbatim(t *testing.T) {
	pw, _, store := newProfileWizard(nil)
	_, err := pw.Start(1)
	require.NoError(t, err)

	resp := feed(t, pw, 1, "60", "165", "female", "25", "0", "0", "  New York ")
	require.True(t, resp.Done)

	rec, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "  New York ", rec.Profile.City)
}

// sweepingWeather lets the session sweeper run while the temperature is fetched.
type sweepingWeather struct {
	sessions *wizard.Sessions
}

func (w *sweepingWeather) MaxTemperatureToday(context.Context, string) (float64, error) {
	time.Sleep(5 * time.Millisecond)
	w.sessions.ScanAndClean()
	return 20, nil
}

func TestProfileWizard_SessionExpiresBeforeCompletion(t *testing.T) {
	sessions := wizard.NewSessions(time.Millisecond)
	store := tracker.NewStore()
	pw := wizard.NewProfileWizard(sessions, store, &sweepingWeather{sessions: sessions})

	_, err := pw.Start(1)
	require.NoError(t, err)
	feed(t, pw, 1, "70", "175", "male", "30", "60", "0")

	_, err = pw.Handle(context.Background(), 1, "Athens")
	assert.ErrorIs(t, err, wizard.ErrSessionExpired)
	assert.False(t, store.Exists(1))
	assert.Zero(t, sessions.Count())
}

func TestProfileWizard_CalorieOverride(t *testing.T) {
	pw, _, store := newProfileWizard(&testWeather{temperature: 31})
	_, err := pw.Start(1)
	require.NoError(t, err)

	resp := feed(t, pw, 1, "70", "175", "male", "30", "60", "2000", "Athens")
	assert.True(t, resp.Done)
	assert.Contains(t, resp.Text, "Calories: 2000 kcal")

	rec, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 2000, rec.Goals.Calories)
	assert.Equal(t, 2000, rec.Profile.CalorieOverride)
	// macros stay derived from the computed calorie goal
	assert.Equal(t, 36, rec.Goals.Fat)
	assert.Equal(t, 123, rec.Goals.Protein)
	assert.Equal(t, 206, rec.Goals.Carbs)
	assert.Equal(t, 3100+750, rec.Goals.Water)
}

func TestProfileWizard_RestartReplacesSession(t *testing.T) {
	pw, sessions, _ := newProfileWizard(nil)
	_, err := pw.Start(1)
	require.NoError(t, err)
	feed(t, pw, 1, "70", "175")

	first, ok := sessions.Get(1)
	require.True(t, ok)

	resp, err := pw.Start(1)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepAwaitingWeight, resp.Step)

	second, ok := sessions.Get(1)
	require.True(t, ok)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, tracker.Profile{}, second.Profile)
	assert.Equal(t, 1, sessions.Count())
}
