package agents

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Thompson shares the LinUCB sufficient statistics but scores actions
// with a sampled parameter vector: theta_i ~ N(thetaHat_i, (A^-1)_ii),
// a diagonal approximation of the posterior.
type Thompson struct {
	model *linModel
	rng   *rand.Rand
}

func NewThompson(dim int, seed uint64) *Thompson {
	return &Thompson{
		model: newLinModel(dim, 1.0),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (a *Thompson) Name() string { return "thompson" }

func (a *Thompson) SelectAction(context int, features [][]float64) int {
	aInv, thetaHat := a.model.posterior()

	sample := mat.NewVecDense(a.model.dim, nil)
	for i := 0; i < a.model.dim; i++ {
		variance := aInv.At(i, i)
		if variance < 0 {
			variance = 0
		}
		sample.SetVec(i, thetaHat.AtVec(i)+a.rng.NormFloat64()*math.Sqrt(variance))
	}

	best := 0
	bestScore := math.Inf(-1)
	for action, x := range features {
		xv := mat.NewVecDense(a.model.dim, x)
		if score := mat.Dot(sample, xv); score > bestScore {
			best = action
			bestScore = score
		}
	}
	return best
}

func (a *Thompson) Observe(context, action int, reward float64, features [][]float64) {
	a.model.update(features[action], reward)
}
