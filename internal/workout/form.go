package workout

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// MaxRest is the longest rest period a set can start.
const MaxRest = time.Hour

// ValidKilos reports whether kilos is a finite, non-negative weight.
func ValidKilos(kilos float64) bool {
	return kilos >= 0 && !math.IsNaN(kilos) && !math.IsInf(kilos, 0)
}

// RestFromSeconds converts a rest period given in whole seconds.
// 0 stays 0, which callers read as the default rest.
func RestFromSeconds(seconds int) (time.Duration, error) {
	if seconds < 0 {
		return 0, &ValidationError{Field: "rest", Reason: "rest must be positive"}
	}
	if seconds > int(MaxRest/time.Second) {
		return 0, &ValidationError{Field: "rest", Reason: fmt.Sprintf("rest must be at most %d seconds", int(MaxRest/time.Second))}
	}
	return time.Duration(seconds) * time.Second, nil
}

// Selection is the quick-select state: the exercise and weight currently
// highlighted in the button grid.
type Selection struct {
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
}

// SelectExercise returns the selection with the exercise set and the weight
// reset to the first suggestion for it (0 without suggestions).
func SelectExercise(sel Selection, menu Menu, exercise string) Selection {
	sel.Exercise = strings.TrimSpace(exercise)
	sel.Weight = menu.FirstWeight(sel.Exercise)
	return sel
}

// SelectWeight returns the selection with the weight set to exactly kilos.
func SelectWeight(sel Selection, kilos float64) Selection {
	sel.Weight = kilos
	return sel
}

// SetInput is the raw form submission.
type SetInput struct {
	Exercise string
	Weight   float64
	Reps     int
	RPE      int
	Failure  bool
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// Controller validates form submissions into log entries. It does no I/O,
// persistence and coach forwarding are left to the caller.
type Controller struct {
	menu Menu
	// Now can be replaced in tests
	Now func() time.Time
}

func NewController(menu Menu) *Controller {
	return &Controller{
		menu: menu,
		Now:  time.Now,
	}
}

func (c *Controller) Menu() Menu {
	return c.menu
}

func (c *Controller) SelectExercise(sel Selection, exercise string) Selection {
	return SelectExercise(sel, c.menu, exercise)
}

func (c *Controller) SelectWeight(sel Selection, kilos float64) Selection {
	return SelectWeight(sel, kilos)
}

// Submit validates the input and returns the entry stamped with the current time.
func (c *Controller) Submit(input SetInput) (LogEntry, error) {
	exercise := strings.TrimSpace(input.Exercise)
	if exercise == "" {
		return LogEntry{}, &ValidationError{Field: "exercise", Reason: "exercise name empty"}
	}
	if !ValidKilos(input.Weight) {
		return LogEntry{}, &ValidationError{Field: "weight", Reason: "weight must be a non-negative number"}
	}
	if input.Reps < 0 {
		return LogEntry{}, &ValidationError{Field: "reps", Reason: "reps must be non-negative"}
	}
	if input.RPE < MinRPE || input.RPE > MaxRPE {
		return LogEntry{}, &ValidationError{Field: "rpe", Reason: fmt.Sprintf("rpe must be between %d and %d", MinRPE, MaxRPE)}
	}

	return LogEntry{
		Timestamp: c.Now(),
		Exercise:  exercise,
		Weight:    input.Weight,
		Reps:      input.Reps,
		RPE:       input.RPE,
		Failure:   input.Failure,
	}, nil
}
