package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/nutribot/internal/telemetry/metrics"
	"github.com/2beens/nutribot/internal/tracker"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=progress_test

// ChartRenderer draws the progress chart of a record and returns the path
// of the produced image.
type ChartRenderer interface {
	RenderProgressChart(ctx context.Context, userID int64, rec tracker.Record) (string, error)
}

// Balance compares a logged amount against its target.
type Balance struct {
	Logged int
	Target int
}

func (b Balance) Remaining() int {
	return b.Target - b.Logged
}

// Label is "remaining" while there is something left to reach, "overage" otherwise.
func (b Balance) Label() string {
	if b.Remaining() > 0 {
		return "remaining"
	}
	return "overage"
}

func (b Balance) Magnitude() int {
	r := b.Remaining()
	if r < 0 {
		return -r
	}
	return r
}

type Report struct {
	UserID int64

	WaterGoal int
	// Water target includes the extra water earned by training.
	Water Balance

	CalorieGoal    int
	BurnedCalories int
	// Calories target includes the burned calories.
	Calories Balance

	Activity Balance
	Fat      Balance
	Protein  Balance
	Carbs    Balance

	// ChartPath is empty when the chart could not be rendered.
	ChartPath string
}

func NewReport(rec tracker.Record) Report {
	return Report{
		UserID:         rec.UserID,
		WaterGoal:      rec.Goals.Water,
		Water:          Balance{Logged: rec.Totals.LoggedWater, Target: rec.WaterTarget()},
		CalorieGoal:    rec.Goals.Calories,
		BurnedCalories: rec.Totals.BurnedCalories,
		Calories:       Balance{Logged: rec.Totals.LoggedCalories, Target: rec.CalorieTarget()},
		Activity:       Balance{Logged: rec.Totals.TrainedMinutes, Target: rec.Profile.DailyActivityMinutes},
		Fat:            Balance{Logged: rec.Totals.LoggedFat, Target: rec.Goals.Fat},
		Protein:        Balance{Logged: rec.Totals.LoggedProtein, Target: rec.Goals.Protein},
		Carbs:          Balance{Logged: rec.Totals.LoggedCarbs, Target: rec.Goals.Carbs},
	}
}

func (r Report) Text() string {
	var sb strings.Builder

	sb.WriteString("Progress:\n\n")

	sb.WriteString("Water:\n")
	fmt.Fprintf(&sb, "- Drank: %d ml of %d ml\n", r.Water.Logged, r.WaterGoal)
	fmt.Fprintf(&sb, "- Balance: %d ml of %d ml\n", r.Water.Logged, r.Water.Target)
	fmt.Fprintf(&sb, "- %s: %d ml\n\n", capitalize(r.Water.Label()), r.Water.Magnitude())

	sb.WriteString("Calories:\n")
	fmt.Fprintf(&sb, "- Consumed: %d kcal of %d kcal\n", r.Calories.Logged, r.CalorieGoal)
	fmt.Fprintf(&sb, "- Burned: %d kcal\n", r.BurnedCalories)
	fmt.Fprintf(&sb, "- Balance: %d kcal of %d kcal\n", r.Calories.Logged, r.Calories.Target)
	fmt.Fprintf(&sb, "- %s: %d kcal\n\n", capitalize(r.Calories.Label()), r.Calories.Magnitude())

	sb.WriteString("Activity:\n")
	fmt.Fprintf(&sb, "- %d min of %d min\n\n", r.Activity.Logged, r.Activity.Target)

	sb.WriteString("Macros:\n")
	fmt.Fprintf(&sb, "- Protein: %d g of %d g\n", r.Protein.Logged, r.Protein.Target)
	fmt.Fprintf(&sb, "- Fat: %d g of %d g\n", r.Fat.Logged, r.Fat.Target)
	fmt.Fprintf(&sb, "- Carbs: %d g of %d g", r.Carbs.Logged, r.Carbs.Target)

	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Reporter builds progress reports and asks the chart renderer for the chart.
type Reporter struct {
	charts         ChartRenderer
	metricsManager *metrics.Manager
}

func NewReporter(charts ChartRenderer, metricsManager *metrics.Manager) *Reporter {
	return &Reporter{
		charts:         charts,
		metricsManager: metricsManager,
	}
}

// Report never fails: a chart error only leaves ChartPath empty.
func (r *Reporter) Report(ctx context.Context, rec tracker.Record) Report {
	report := NewReport(rec)
	if r.charts == nil {
		return report
	}

	chartPath, err := r.charts.RenderProgressChart(ctx, rec.UserID, rec)
	if err != nil {
		log.Errorf("progress: render chart for user %d: %s", rec.UserID, err)
		if r.metricsManager != nil {
			r.metricsManager.CounterCollaboratorFailures.WithLabelValues("chart").Inc()
		}
		return report
	}
	report.ChartPath = chartPath

	return report
}
