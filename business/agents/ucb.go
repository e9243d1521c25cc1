package agents

import (
	"math"

	"golang.org/x/exp/rand"
)

// UCB runs UCB1 independently per context: empirical mean plus an
// exploration bonus that shrinks as an arm accumulates pulls.
type UCB struct {
	c      float64
	counts [][]float64
	sums   [][]float64
	totals []float64
	rng    *rand.Rand
}

func NewUCB(numContexts, numActions int, c float64, seed uint64) *UCB {
	counts := make([][]float64, numContexts)
	sums := make([][]float64, numContexts)
	for s := range counts {
		counts[s] = make([]float64, numActions)
		sums[s] = make([]float64, numActions)
	}

	return &UCB{
		c:      c,
		counts: counts,
		sums:   sums,
		totals: make([]float64, numContexts),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (a *UCB) Name() string { return "ucb" }

func (a *UCB) SelectAction(context int, features [][]float64) int {
	numActions := len(a.counts[context])

	// try every arm once before trusting the bonus term
	untried := make([]int, 0, numActions)
	for action := 0; action < numActions; action++ {
		if a.counts[context][action] == 0 {
			untried = append(untried, action)
		}
	}
	if len(untried) > 0 {
		return untried[a.rng.Intn(len(untried))]
	}

	best := 0
	bestScore := math.Inf(-1)
	for action := 0; action < numActions; action++ {
		mean := a.sums[context][action] / a.counts[context][action]
		bonus := a.c * math.Sqrt(2*math.Log(a.totals[context])/a.counts[context][action])
		if score := mean + bonus; score > bestScore {
			best = action
			bestScore = score
		}
	}
	return best
}

func (a *UCB) Observe(context, action int, reward float64, features [][]float64) {
	a.counts[context][action]++
	a.sums[context][action] += reward
	a.totals[context]++
}
