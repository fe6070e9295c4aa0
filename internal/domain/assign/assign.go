package assign

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/okian/secretsanta/internal/domain/model"
)

// Result is a completed draw.
type Result struct {
	Cycle    model.Cycle
	Attempts int // orderings drawn, including the accepted one
}

// Engine draws secret santa cycles by rejection sampling over random ring orders.
type Engine struct {
	shuffle     Shuffler
	maxAttempts int
}

// New creates an Engine. By default it uses the auto-seeded global source
// and retries without bound.
func New(opts ...Option) *Engine {
	e := &Engine{
		shuffle: rand.Shuffle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assign validates the input and draws a single cycle covering every
// participant in which no santa gives to an excluded recipient.
//
// Configuration problems are reported as *model.ConfigError before any draw.
// Validation only rules out santas with no candidate at all; constraint sets
// that are unsatisfiable as a whole keep the loop running until ctx is done
// or the attempt limit (if any) is reached.
func (e *Engine) Assign(ctx context.Context, participants []model.Participant, exclusions model.Exclusions) (Result, error) {
	forbidden, err := Validate(participants, exclusions)
	if err != nil {
		return Result{}, err
	}

	order := slices.Clone(participants)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("assignment interrupted after %d attempts: %w", attempt-1, err)
		}
		if e.maxAttempts > 0 && attempt > e.maxAttempts {
			return Result{}, model.NewConfigError(model.ErrAttemptsExhausted, "",
				"no valid assignment found in %d attempts; the exclusion list may be unsatisfiable.", e.maxAttempts)
		}

		e.shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		if ringAllowed(order, forbidden) {
			return Result{Cycle: model.NewCycle(order), Attempts: attempt}, nil
		}
	}
}

// ringAllowed checks every consecutive pair of the ring, including last -> first.
func ringAllowed(order []model.Participant, forbidden map[string]map[string]struct{}) bool {
	n := len(order)
	for k := range n {
		santa, recipient := order[k].Key(), order[(k+1)%n].Key()
		if _, bad := forbidden[santa][recipient]; bad {
			return false
		}
	}
	return true
}
