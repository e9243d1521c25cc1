// Package agents holds baseline bandit agents used by the evaluation
// harness. Agents only see what interaction permits: the active context,
// its feature slice, and realized rewards.
package agents

import "golang.org/x/exp/rand"

type Agent interface {
	Name() string
	// SelectAction picks an action for the active context. features is
	// the [numActions][dim] slice for that context.
	SelectAction(context int, features [][]float64) int
	// Observe feeds back the realized reward for a past selection.
	Observe(context, action int, reward float64, features [][]float64)
}

// Random ignores everything it observes and picks uniformly.
type Random struct {
	numActions int
	rng        *rand.Rand
}

func NewRandom(numActions int, seed uint64) *Random {
	return &Random{
		numActions: numActions,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (a *Random) Name() string { return "random" }

func (a *Random) SelectAction(context int, features [][]float64) int {
	return a.rng.Intn(a.numActions)
}

func (a *Random) Observe(context, action int, reward float64, features [][]float64) {}
