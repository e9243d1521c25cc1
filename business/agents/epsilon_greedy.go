package agents

import "golang.org/x/exp/rand"

// EpsilonGreedy keeps per-(context,action) empirical means and explores
// uniformly with probability epsilon. Untried arms are always preferred
// over tried ones.
type EpsilonGreedy struct {
	epsilon float64
	counts  [][]float64
	sums    [][]float64
	rng     *rand.Rand
}

func NewEpsilonGreedy(numContexts, numActions int, epsilon float64, seed uint64) *EpsilonGreedy {
	counts := make([][]float64, numContexts)
	sums := make([][]float64, numContexts)
	for s := range counts {
		counts[s] = make([]float64, numActions)
		sums[s] = make([]float64, numActions)
	}

	return &EpsilonGreedy{
		epsilon: epsilon,
		counts:  counts,
		sums:    sums,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (a *EpsilonGreedy) Name() string { return "epsilon-greedy" }

func (a *EpsilonGreedy) SelectAction(context int, features [][]float64) int {
	numActions := len(a.counts[context])

	if a.rng.Float64() < a.epsilon {
		return a.rng.Intn(numActions)
	}

	best := 0
	bestMean := a.mean(context, 0)
	for action := 1; action < numActions; action++ {
		if m := a.mean(context, action); m > bestMean {
			best = action
			bestMean = m
		}
	}
	return best
}

func (a *EpsilonGreedy) Observe(context, action int, reward float64, features [][]float64) {
	a.counts[context][action]++
	a.sums[context][action] += reward
}

// mean returns the empirical mean, treating untried arms as better than
// anything already tried.
func (a *EpsilonGreedy) mean(context, action int) float64 {
	if a.counts[context][action] == 0 {
		return 2 // rewards are in [0,1]
	}
	return a.sums[context][action] / a.counts[context][action]
}
