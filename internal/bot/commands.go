package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/nutribot/internal/telemetry/metrics"
	"github.com/2beens/nutribot/internal/telemetry/tracing"
	"github.com/2beens/nutribot/internal/tracker"
	"github.com/2beens/nutribot/internal/wizard"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	commandText     = "text"
	commandCallback = "callback"
	commandUnknown  = "unknown"

	workoutCallbackPrefix = "workout:"
	workoutChoicesPerRow  = 3
)

// Message is an incoming chat message, independent of the chat platform.
type Message struct {
	UserID    int64
	FirstName string
	Text      string
}

type Choice struct {
	Label string
	Data  string
}

// Reply is one outgoing message: text, optionally with choice buttons, or a photo.
type Reply struct {
	Text      string
	Choices   [][]Choice
	PhotoPath string
}

var knownCommands = map[string]bool{
	"start":          true,
	"help":           true,
	"set_profile":    true,
	"delete_profile": true,
	"log_water":      true,
	"log_food":       true,
	"log_workout":    true,
	"check_progress": true,
	"cancel":         true,
}

func textReply(text string) []Reply {
	return []Reply{{Text: text}}
}

func textReplyf(format string, args ...any) []Reply {
	return textReply(fmt.Sprintf(format, args...))
}

// Commands maps chat input to wizard steps and tracker operations. All work
// for one user id is serialized.
type Commands struct {
	store          *tracker.Store
	sessions       *wizard.Sessions
	profileWizard  *wizard.ProfileWizard
	workoutWizard  *wizard.WorkoutWizard
	nutrition      nutritionProvider
	reporter       progressReporter
	locks          *tracker.KeyedMutex
	metricsManager *metrics.Manager
}

type CommandsParams struct {
	Store          *tracker.Store
	Sessions       *wizard.Sessions
	Weather        tracker.WeatherProvider
	Nutrition      nutritionProvider
	Reporter       progressReporter
	MetricsManager *metrics.Manager
}

func NewCommands(params CommandsParams) *Commands {
	return &Commands{
		store:          params.Store,
		sessions:       params.Sessions,
		profileWizard:  wizard.NewProfileWizard(params.Sessions, params.Store, params.Weather),
		workoutWizard:  wizard.NewWorkoutWizard(params.Sessions, params.Store),
		nutrition:      params.Nutrition,
		reporter:       params.Reporter,
		locks:          tracker.NewKeyedMutex(),
		metricsManager: params.MetricsManager,
	}
}

// ParseCommand splits "/cmd@botname args" into its command name and arguments.
// ok is false for plain text.
func ParseCommand(text string) (command, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	command, args, _ = strings.Cut(text[1:], " ")
	command, _, _ = strings.Cut(command, "@")

	return strings.ToLower(command), strings.TrimSpace(args), true
}

func (c *Commands) Handle(ctx context.Context, msg Message) []Reply {
	command, args, isCommand := ParseCommand(msg.Text)
	switch {
	case !isCommand:
		command = commandText
	case !knownCommands[command]:
		command = commandUnknown
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "commands.handle")
	defer span.End()
	span.SetAttributes(
		attribute.String("command", command),
		attribute.Int64("user.id", msg.UserID),
	)

	unlock := c.locks.Lock(msg.UserID)
	defer unlock()

	defer c.observe(command, time.Now())

	switch command {
	case commandText:
		return c.handleText(ctx, msg.UserID, msg.Text)
	case "start":
		return c.start(msg.FirstName)
	case "help":
		return textReply(helpText)
	case "set_profile":
		return c.setProfile(msg.UserID)
	case "delete_profile":
		return c.deleteProfile(msg.UserID)
	case "log_water":
		return c.logWater(msg.UserID, args)
	case "log_food":
		return c.logFood(ctx, msg.UserID, args)
	case "log_workout":
		return c.logWorkout(msg.UserID)
	case "check_progress":
		return c.checkProgress(ctx, msg.UserID)
	case "cancel":
		return c.cancel(msg.UserID)
	default:
		log.Debugf("bot: unknown command from user %d: %q", msg.UserID, msg.Text)
		return textReply(msgUnknownCommand)
	}
}

// HandleCallback handles a pressed choice button.
func (c *Commands) HandleCallback(ctx context.Context, userID int64, data string) []Reply {
	_, span := tracing.GlobalTracer.Start(ctx, "commands.handleCallback")
	defer span.End()
	span.SetAttributes(
		attribute.String("callback.data", data),
		attribute.Int64("user.id", userID),
	)

	unlock := c.locks.Lock(userID)
	defer unlock()

	defer c.observe(commandCallback, time.Now())

	workoutType, ok := strings.CutPrefix(data, workoutCallbackPrefix)
	if !ok {
		log.Warnf("bot: unexpected callback data from user %d: %q", userID, data)
		return textReply(msgUnknownCommand)
	}

	sess, ok := c.sessions.Get(userID)
	if !ok || sess.Kind != wizard.KindWorkout || sess.Step != wizard.StepAwaitingWorkoutType {
		return textReply(msgWorkoutExpired)
	}

	resp, err := c.workoutWizard.Handle(userID, workoutType)
	return c.wizardReply(userID, wizard.KindWorkout, resp, err)
}

func (c *Commands) observe(command string, begin time.Time) {
	if c.metricsManager == nil {
		return
	}
	c.metricsManager.CounterCommands.WithLabelValues(command).Inc()
	c.metricsManager.HistogramCommandDuration.WithLabelValues(command).Observe(time.Since(begin).Seconds())
}

func (c *Commands) countCollaboratorFailure(collaborator string) {
	if c.metricsManager != nil {
		c.metricsManager.CounterCollaboratorFailures.WithLabelValues(collaborator).Inc()
	}
}

func (c *Commands) start(firstName string) []Reply {
	greeting := "Hello!"
	if firstName != "" {
		greeting = fmt.Sprintf("Hello, %s!", firstName)
	}
	return textReplyf("%s I help you track water, calories and workouts.\n\n%s", greeting, helpText)
}

func (c *Commands) setProfile(userID int64) []Reply {
	resp, err := c.profileWizard.Start(userID)
	if err != nil {
		return c.wizardReply(userID, wizard.KindProfile, resp, err)
	}
	return textReply(resp.Text)
}

func (c *Commands) deleteProfile(userID int64) []Reply {
	if c.sessions.Finish(userID) {
		log.Debugf("bot: pending session of user %d discarded with the profile", userID)
	}

	if err := c.store.Delete(userID); err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			return textReply(msgProfileNotFound)
		}
		log.Errorf("bot: delete profile of user %d: %s", userID, err)
		return textReply(msgSomethingWrong)
	}

	log.Infof("bot: profile deleted for user %d", userID)

	return textReply(msgProfileDeleted)
}

func (c *Commands) logWater(userID int64, args string) []Reply {
	if !c.store.Exists(userID) {
		return textReply(msgNoProfile)
	}

	parsed := tracker.ParseBounded(args, tracker.WaterAmountBounds)
	switch parsed.Outcome {
	case tracker.ParseMalformed:
		return textReply(msgLogWaterUsage)
	case tracker.ParseOutOfRange:
		return textReply(parsed.Message())
	}

	rec, err := c.store.Accumulate(userID, tracker.FieldLoggedWater, parsed.Value)
	if err != nil {
		return c.storeErrorReply(userID, err)
	}

	remaining := rec.WaterTarget() - rec.Totals.LoggedWater
	if remaining > 0 {
		return textReplyf(msgWaterLogged, parsed.Value, remaining)
	}
	return textReplyf(msgWaterGoalReached, parsed.Value)
}

func (c *Commands) logFood(ctx context.Context, userID int64, args string) []Reply {
	if !c.store.Exists(userID) {
		return textReply(msgNoProfile)
	}

	fields := strings.Fields(args)
	if len(fields) < 2 {
		return textReply(msgLogFoodUsage)
	}
	food := strings.Join(fields[:len(fields)-1], " ")

	parsed := tracker.ParseBounded(fields[len(fields)-1], tracker.FoodGramsBounds)
	switch parsed.Outcome {
	case tracker.ParseMalformed:
		return textReply(msgLogFoodUsage)
	case tracker.ParseOutOfRange:
		return textReply(parsed.Message())
	}

	facts, err := c.nutrition.Lookup(ctx, food)
	if err != nil {
		log.Warnf("bot: nutrition lookup for %q failed: %s", food, err)
		c.countCollaboratorFailure("nutrition")
		return textReplyf(msgNoNutritionData, food)
	}

	portion := facts.Portion(parsed.Value)
	rec, err := c.store.Update(userID, func(rec *tracker.Record) error {
		rec.Totals.LoggedCalories += portion.Calories
		rec.Totals.LoggedFat += portion.Fat
		rec.Totals.LoggedProtein += portion.Protein
		rec.Totals.LoggedCarbs += portion.Carbs
		return nil
	})
	if err != nil {
		return c.storeErrorReply(userID, err)
	}

	text := fmt.Sprintf(msgFoodLogged, food, parsed.Value, portion.Calories, portion.Fat, portion.Protein, portion.Carbs)
	if remaining := rec.CalorieTarget() - rec.Totals.LoggedCalories; remaining > 0 {
		text += "\n" + fmt.Sprintf(msgCaloriesLeft, remaining)
	} else {
		text += "\n" + msgCalorieGoal
	}

	return textReply(text)
}

func (c *Commands) logWorkout(userID int64) []Reply {
	resp, err := c.workoutWizard.Start(userID)
	if err != nil {
		return c.wizardReply(userID, wizard.KindWorkout, resp, err)
	}
	return []Reply{{Text: resp.Text, Choices: workoutChoices()}}
}

func (c *Commands) checkProgress(ctx context.Context, userID int64) []Reply {
	rec, err := c.store.Get(userID)
	if err != nil {
		return c.storeErrorReply(userID, err)
	}

	report := c.reporter.Report(ctx, rec)
	replies := []Reply{{Text: report.Text()}}
	if report.ChartPath != "" {
		replies = append(replies, Reply{PhotoPath: report.ChartPath})
	}

	return replies
}

func (c *Commands) cancel(userID int64) []Reply {
	if c.sessions.Finish(userID) {
		return textReply(msgCancelled)
	}
	return textReply(msgNothingToCancel)
}

func (c *Commands) handleText(ctx context.Context, userID int64, text string) []Reply {
	sess, ok := c.sessions.Get(userID)
	if !ok {
		return textReply(msgNoDialogue)
	}

	switch sess.Kind {
	case wizard.KindProfile:
		resp, err := c.profileWizard.Handle(ctx, userID, text)
		return c.wizardReply(userID, sess.Kind, resp, err)
	case wizard.KindWorkout:
		resp, err := c.workoutWizard.Handle(userID, text)
		return c.wizardReply(userID, sess.Kind, resp, err)
	default:
		log.Errorf("bot: user %d has a session of unknown kind %q", userID, sess.Kind)
		c.sessions.Finish(userID)
		return textReply(msgSomethingWrong)
	}
}

func (c *Commands) wizardReply(userID int64, kind wizard.Kind, resp wizard.Response, err error) []Reply {
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrProfileExists):
			return textReply(msgProfileExists)
		case errors.Is(err, tracker.ErrNotFound):
			return textReply(msgNoProfile)
		case errors.Is(err, wizard.ErrNoSession):
			return textReply(msgNoDialogue)
		case errors.Is(err, wizard.ErrSessionExpired):
			return textReply(msgDialogueExpired)
		default:
			log.Errorf("bot: %s wizard of user %d: %s", kind, userID, err)
			return textReply(msgSomethingWrong)
		}
	}

	if c.metricsManager != nil {
		if resp.Rejected {
			c.metricsManager.CounterValidationRejections.WithLabelValues(resp.Step.String()).Inc()
		}
		if resp.Done {
			c.metricsManager.CounterWizardsCompleted.WithLabelValues(kind.String()).Inc()
		}
	}

	reply := Reply{Text: resp.Text}
	if resp.Step == wizard.StepAwaitingWorkoutType {
		reply.Choices = workoutChoices()
	}

	return []Reply{reply}
}

func (c *Commands) storeErrorReply(userID int64, err error) []Reply {
	if errors.Is(err, tracker.ErrNotFound) {
		return textReply(msgNoProfile)
	}
	log.Errorf("bot: store operation for user %d: %s", userID, err)
	return textReply(msgSomethingWrong)
}

func workoutChoices() [][]Choice {
	var rows [][]Choice
	for i := 0; i < len(tracker.WorkoutTypes); i += workoutChoicesPerRow {
		end := min(i+workoutChoicesPerRow, len(tracker.WorkoutTypes))
		row := make([]Choice, 0, end-i)
		for _, wt := range tracker.WorkoutTypes[i:end] {
			row = append(row, Choice{
				Label: wt.String(),
				Data:  workoutCallbackPrefix + wt.String(),
			})
		}
		rows = append(rows, row)
	}
	return rows
}
