package env

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// rewardModel is the hidden logistic reward surface. Everything here is
// drawn exactly once at construction and never mutated afterwards.
type rewardModel struct {
	theta    []float64     // shared parameter vector, N(0, sigma_p^2 I)
	features [][][]float64 // [context][action][dim], unit L2 norm per (s,a)
	rewards  [][]float64   // sigmoid(features[s][a] . theta)
	value    []float64     // max_a rewards[s][a]
	regrets  [][]float64   // value[s] - rewards[s][a]
}

// newRewardModel draws the model from rng. Draw order is fixed (theta,
// then features context-major, then nothing else) so that two models
// built from identically seeded sources are bit-identical.
func newRewardModel(cfg Config, rng *rand.Rand) *rewardModel {
	prior := distuv.Normal{Mu: 0, Sigma: cfg.SigmaP, Src: rng}
	theta := make([]float64, cfg.Dim)
	for i := range theta {
		theta[i] = prior.Rand()
	}

	stdNormal := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}

	features := make([][][]float64, cfg.NumContexts)
	rewards := make([][]float64, cfg.NumContexts)
	value := make([]float64, cfg.NumContexts)
	regrets := make([][]float64, cfg.NumContexts)

	for s := 0; s < cfg.NumContexts; s++ {
		features[s] = make([][]float64, cfg.NumActions)
		rewards[s] = make([]float64, cfg.NumActions)
		regrets[s] = make([]float64, cfg.NumActions)

		for a := 0; a < cfg.NumActions; a++ {
			row := make([]float64, cfg.Dim)
			for d := 0; d < cfg.Dim; d++ {
				row[d] = stdNormal.Rand()
			}

			norm := floats.Norm(row, 2)
			floats.Scale(1.0/norm, row)

			features[s][a] = row
			rewards[s][a] = sigmoid(floats.Dot(row, theta))
		}

		best := rewards[s][0]
		for a := 1; a < cfg.NumActions; a++ {
			if rewards[s][a] > best {
				best = rewards[s][a]
			}
		}
		value[s] = best

		for a := 0; a < cfg.NumActions; a++ {
			regrets[s][a] = best - rewards[s][a]
		}
	}

	return &rewardModel{
		theta:    theta,
		features: features,
		rewards:  rewards,
		value:    value,
		regrets:  regrets,
	}
}
