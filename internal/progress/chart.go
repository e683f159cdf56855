package progress

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/2beens/nutribot/internal/telemetry/tracing"
	"github.com/2beens/nutribot/internal/tracker"

	log "github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultPieWidth  = 500
	defaultPieHeight = 500
	gridColumns      = 3
	gridRows         = 2
)

var (
	colorRemaining = drawing.Color{R: 204, G: 204, B: 204, A: 255}
	colorWater     = drawing.Color{R: 242, G: 179, B: 69, A: 255}
	colorCalories  = drawing.Color{R: 219, G: 102, B: 79, A: 255}
	colorActivity  = drawing.Color{R: 115, G: 214, B: 133, A: 255}
)

type indicator struct {
	title  string
	target int
	actual int
	color  drawing.Color
}

// PieChartRenderer draws a 2x3 grid of target vs actual pies and saves it
// as <dir>/<userID>_progress.png, overwriting the previous chart.
type PieChartRenderer struct {
	dir       string
	pieWidth  int
	pieHeight int
}

func NewPieChartRenderer(dir string) *PieChartRenderer {
	return &PieChartRenderer{
		dir:       dir,
		pieWidth:  defaultPieWidth,
		pieHeight: defaultPieHeight,
	}
}

func (r *PieChartRenderer) ChartPath(userID int64) string {
	return filepath.Join(r.dir, fmt.Sprintf("%d_progress.png", userID))
}

func (r *PieChartRenderer) RenderProgressChart(ctx context.Context, userID int64, rec tracker.Record) (chartPath string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "pieChartRenderer.renderProgressChart")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, fmt.Sprintf("rendered progress chart: %s", chartPath))
		}
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))

	if err := ctx.Err(); err != nil {
		return "", err
	}

	// row by row: water, calories, activity / fat, protein, carbs
	indicators := []indicator{
		{title: "Water, ml", target: rec.WaterTarget(), actual: rec.Totals.LoggedWater, color: colorWater},
		{title: "Calories, kcal", target: rec.CalorieTarget(), actual: rec.Totals.LoggedCalories, color: colorCalories},
		{title: "Activity, min", target: rec.Profile.DailyActivityMinutes, actual: rec.Totals.TrainedMinutes, color: colorActivity},
		{title: "Fat, g", target: rec.Goals.Fat, actual: rec.Totals.LoggedFat, color: colorWater},
		{title: "Protein, g", target: rec.Goals.Protein, actual: rec.Totals.LoggedProtein, color: colorCalories},
		{title: "Carbs, g", target: rec.Goals.Carbs, actual: rec.Totals.LoggedCarbs, color: colorActivity},
	}

	grid := image.NewRGBA(image.Rect(0, 0, gridColumns*r.pieWidth, gridRows*r.pieHeight))
	draw.Draw(grid, grid.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	for i, ind := range indicators {
		pie, err := r.renderPie(ind)
		if err != nil {
			return "", fmt.Errorf("render %s pie: %w", ind.title, err)
		}
		col, row := i%gridColumns, i/gridColumns
		cell := image.Rect(col*r.pieWidth, row*r.pieHeight, (col+1)*r.pieWidth, (row+1)*r.pieHeight)
		draw.Draw(grid, cell, pie, pie.Bounds().Min, draw.Over)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create charts dir: %w", err)
	}

	chartPath = r.ChartPath(userID)
	f, err := os.Create(chartPath)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Errorf("close chart file %s: %s", chartPath, closeErr)
		}
	}()

	if err := png.Encode(f, grid); err != nil {
		return "", fmt.Errorf("encode chart png: %w", err)
	}

	log.Debugf("progress: chart for user %d saved to %s", userID, chartPath)

	return chartPath, nil
}

func (r *PieChartRenderer) renderPie(ind indicator) (image.Image, error) {
	pie := chart.PieChart{
		Title:  ind.title,
		Width:  r.pieWidth,
		Height: r.pieHeight,
		Values: pieValues(ind.target, ind.actual, ind.color),
	}

	buf := &bytes.Buffer{}
	if err := pie.Render(chart.PNG, buf); err != nil {
		return nil, err
	}

	return png.Decode(buf)
}

// pieValues splits target vs actual into slices: a single "done" slice once
// the target is reached, a single "left" slice when nothing was logged yet,
// otherwise left + done.
func pieValues(target, actual int, doneColor drawing.Color) []chart.Value {
	switch {
	case target <= 0 && actual <= 0:
		return []chart.Value{{
			Value: 1,
			Label: "no target",
			Style: chart.Style{FillColor: colorRemaining},
		}}
	case actual >= target:
		return []chart.Value{{
			Value: float64(actual),
			Label: fmt.Sprintf("done %d", actual),
			Style: chart.Style{FillColor: doneColor},
		}}
	case actual <= 0:
		return []chart.Value{{
			Value: float64(target),
			Label: fmt.Sprintf("left %d", target),
			Style: chart.Style{FillColor: colorRemaining},
		}}
	default:
		return []chart.Value{
			{
				Value: float64(target - actual),
				Label: fmt.Sprintf("left %d", target-actual),
				Style: chart.Style{FillColor: colorRemaining},
			},
			{
				Value: float64(actual),
				Label: fmt.Sprintf("done %d", actual),
				Style: chart.Style{FillColor: doneColor},
			},
		}
	}
}
