package agents

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// linModel holds ridge-regularized sufficient statistics for a linear
// reward model shared across contexts: A = lambda*I + sum x x^T and
// b = sum r x.
type linModel struct {
	dim int
	a   *mat.Dense
	b   *mat.VecDense
}

func newLinModel(dim int, lambda float64) *linModel {
	a := mat.NewDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		a.Set(i, i, lambda)
	}
	return &linModel{
		dim: dim,
		a:   a,
		b:   mat.NewVecDense(dim, nil),
	}
}

// posterior returns A^-1 and the ridge estimate theta = A^-1 b.
func (m *linModel) posterior() (*mat.Dense, *mat.VecDense) {
	aInv := mat.NewDense(m.dim, m.dim, nil)
	if err := aInv.Inverse(m.a); err != nil {
		// ridge init keeps A positive definite; a singular A means the
		// statistics were corrupted, so start over
		fresh := newLinModel(m.dim, 1.0)
		m.a, m.b = fresh.a, fresh.b
		_ = aInv.Inverse(m.a)
	}

	theta := mat.NewVecDense(m.dim, nil)
	theta.MulVec(aInv, m.b)
	return aInv, theta
}

// update folds one observation into the statistics: A += x x^T, b += r x.
func (m *linModel) update(x []float64, reward float64) {
	xv := mat.NewVecDense(m.dim, x)

	outer := mat.NewDense(m.dim, m.dim, nil)
	outer.Outer(1.0, xv, xv)
	m.a.Add(m.a, outer)

	m.b.AddScaledVec(m.b, reward, xv)
}

// LinUCB scores each action by theta.x + alpha*sqrt(x^T A^-1 x) using one
// linear model shared across contexts.
type LinUCB struct {
	alpha float64
	model *linModel
}

func NewLinUCB(dim int, alpha float64) *LinUCB {
	return &LinUCB{
		alpha: alpha,
		model: newLinModel(dim, 1.0),
	}
}

func (a *LinUCB) Name() string { return "linucb" }

func (a *LinUCB) SelectAction(context int, features [][]float64) int {
	aInv, theta := a.model.posterior()

	best := 0
	bestScore := math.Inf(-1)
	for action, x := range features {
		xv := mat.NewVecDense(a.model.dim, x)

		mean := mat.Dot(theta, xv)
		tmp := mat.NewVecDense(a.model.dim, nil)
		tmp.MulVec(aInv, xv)
		uncertainty := math.Sqrt(mat.Dot(xv, tmp))

		if score := mean + a.alpha*uncertainty; score > bestScore {
			best = action
			bestScore = score
		}
	}
	return best
}

func (a *LinUCB) Observe(context, action int, reward float64, features [][]float64) {
	a.model.update(features[action], reward)
}
