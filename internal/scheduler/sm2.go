// Package scheduler computes review intervals with SM-2 and the adjustments
// applied on top of it (confidence, pre-exam mode and response time).
package scheduler

import "math"

const (
	DefaultEaseFactor    = 2.5
	MinEaseFactor        = 1.3
	DefaultPreExamFactor = 0.6
	MinPreExamFactor     = 0.4
	MaxPreExamFactor     = 0.8

	fastAnswerSeconds = 5
	slowAnswerSeconds = 30
)

// State is the scheduling state carried by a review.
type State struct {
	EaseFactor   float64
	IntervalDays int
	Repetition   int
}

// InitialState is the state of a freshly registered review.
func InitialState() State {
	return State{EaseFactor: DefaultEaseFactor, IntervalDays: 1}
}

// SM2 applies one review of the given quality (0-5).
func SM2(quality int, s State) State {
	next := State{Repetition: s.Repetition}
	if quality < 3 {
		next.Repetition = 0
		next.IntervalDays = 1
	} else {
		switch s.Repetition {
		case 0:
			next.IntervalDays = 1
		case 1:
			next.IntervalDays = 6
		default:
			next.IntervalDays = max(1, roundDays(float64(s.IntervalDays)*s.EaseFactor))
		}
		next.Repetition++
	}

	miss := float64(5 - quality)
	next.EaseFactor = math.Max(MinEaseFactor, s.EaseFactor+(0.1-miss*(0.08+miss*0.02)))
	return next
}

// Adjustments are the inputs that stretch or shrink the SM-2 interval.
type Adjustments struct {
	Confidence    int
	PreExam       bool
	PreExamFactor float64
	// ResponseTime in seconds; nil when the answer was not timed.
	ResponseTime *int
}

var confidenceFactors = map[int]float64{
	1: 0.5,
	2: 0.75,
	3: 1.0,
	4: 1.15,
	5: 1.3,
}

// ConfidenceFactor maps a confidence level (1-5) to an interval multiplier.
// Unknown levels are neutral.
func ConfidenceFactor(level int) float64 {
	if f, ok := confidenceFactors[level]; ok {
		return f
	}
	return 1.0
}

// ClampPreExamFactor keeps the pre-exam multiplier within 0.4 and 0.8.
func ClampPreExamFactor(f float64) float64 {
	if math.IsNaN(f) {
		return DefaultPreExamFactor
	}
	return math.Max(MinPreExamFactor, math.Min(MaxPreExamFactor, f))
}

// NextInterval applies adj to an SM-2 interval. Every step keeps at least
// one day.
func NextInterval(days int, adj Adjustments) int {
	days = scale(days, ConfidenceFactor(adj.Confidence))

	if adj.PreExam {
		days = scale(days, ClampPreExamFactor(adj.PreExamFactor))
	}

	if adj.ResponseTime != nil {
		switch t := *adj.ResponseTime; {
		case t <= fastAnswerSeconds:
			days = scale(days, 1.10)
		case t >= slowAnswerSeconds:
			days = scale(days, 0.90)
		}
	}
	return days
}

// Schedule runs SM2 and then the adjustments. The returned interval is the
// adjusted one, which is also what the next review carries forward.
func Schedule(quality int, s State, adj Adjustments) State {
	next := SM2(quality, s)
	next.IntervalDays = NextInterval(next.IntervalDays, adj)
	return next
}

func scale(days int, factor float64) int {
	return max(1, roundDays(float64(days)*factor))
}

// roundDays rounds half to even.
func roundDays(v float64) int {
	return int(math.RoundToEven(v))
}
