package tracker

import (
	"fmt"
	"strconv"
	"strings"
)

type ParseOutcome int

const (
	ParseValid ParseOutcome = iota
	ParseMalformed
	ParseOutOfRange
)

func (o ParseOutcome) String() string {
	switch o {
	case ParseValid:
		return "valid"
	case ParseMalformed:
		return "malformed"
	case ParseOutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}

// Bounds is an inclusive integer range with a human-readable name,
// used in the out of range message.
type Bounds struct {
	Name string
	Min  int
	Max  int
}

var (
	WeightBounds          = Bounds{Name: "weight", Min: 15, Max: 200}
	HeightBounds          = Bounds{Name: "height", Min: 140, Max: 250}
	AgeBounds             = Bounds{Name: "age", Min: 18, Max: 120}
	ActivityBounds        = Bounds{Name: "activity time", Min: 0, Max: 3600}
	CalorieOverrideBounds = Bounds{Name: "calorie goal", Min: 0, Max: 10000}
	WorkoutDurationBounds = Bounds{Name: "workout duration", Min: 0, Max: 3600}
	WaterAmountBounds     = Bounds{Name: "water amount", Min: 0, Max: 10000}
	FoodGramsBounds       = Bounds{Name: "food amount", Min: 0, Max: 10000}
)

func (b Bounds) Contains(v int) bool {
	return v >= b.Min && v <= b.Max
}

// ParsedInt is the tagged result of parsing a bounded integer reply.
// Value is only meaningful when Outcome is not ParseMalformed.
type ParsedInt struct {
	Outcome ParseOutcome
	Value   int
	Bounds  Bounds
}

func (p ParsedInt) OK() bool {
	return p.Outcome == ParseValid
}

// Message returns the re-prompt text for a rejected value, empty for valid ones.
func (p ParsedInt) Message() string {
	switch p.Outcome {
	case ParseMalformed:
		return "Invalid input. The value must be a number. Please try again"
	case ParseOutOfRange:
		return fmt.Sprintf(
			"Invalid %s value. Value %d is out of range [%d, %d]",
			p.Bounds.Name, p.Value, p.Bounds.Min, p.Bounds.Max,
		)
	default:
		return ""
	}
}

func ParseBounded(text string, bounds Bounds) ParsedInt {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return ParsedInt{Outcome: ParseMalformed, Bounds: bounds}
	}
	if !bounds.Contains(v) {
		return ParsedInt{Outcome: ParseOutOfRange, Value: v, Bounds: bounds}
	}
	return ParsedInt{Outcome: ParseValid, Value: v, Bounds: bounds}
}
