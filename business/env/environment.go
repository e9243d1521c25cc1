// Package env implements a contextual logistic bandit environment with a
// hidden, seeded reward model, so agents can be evaluated against exact
// ground truth.
package env

import (
	"fmt"

	"golang.org/x/exp/rand"
)

type Config struct {
	NumActions  int     `json:"num_actions"`
	NumContexts int     `json:"num_contexts"`
	Dim         int     `json:"dim"`
	Seed        uint64  `json:"seed"`
	SigmaP      float64 `json:"sigma_p"` // prior stddev for theta, 0 means 1
}

func (c Config) validate() error {
	if c.NumActions <= 0 {
		return fmt.Errorf("num_actions must be positive, got %d: %w", c.NumActions, ErrInvalidConfig)
	}
	if c.NumContexts <= 0 {
		return fmt.Errorf("num_contexts must be positive, got %d: %w", c.NumContexts, ErrInvalidConfig)
	}
	if c.Dim <= 0 {
		return fmt.Errorf("dim must be positive, got %d: %w", c.Dim, ErrInvalidConfig)
	}
	if c.SigmaP <= 0 {
		return fmt.Errorf("sigma_p must be positive, got %v: %w", c.SigmaP, ErrInvalidConfig)
	}
	return nil
}

// Observation is the step output pair. Both fields satisfy the bounds of
// the observation spec.
type Observation struct {
	Reward  int `json:"reward"`
	Context int `json:"context"`
}

// Environment owns a seeded reward model plus the active/previous context
// pair. One instance is single-threaded; Step performs an unsynchronized
// read-modify-write of the session state.
type Environment struct {
	cfg   Config
	rng   *rand.Rand
	model *rewardModel

	context     int
	prevContext int
	stepped     bool

	obsSpec BoundedSpec
	actSpec DiscreteSpec
}

// New validates cfg, then draws the reward model and the initial context
// from a generator owned by this instance. Identical configs produce
// identical environments. A zero SigmaP defaults to 1.
func New(cfg Config) (*Environment, error) {
	if cfg.SigmaP == 0 {
		cfg.SigmaP = 1
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	e := &Environment{
		cfg:   cfg,
		rng:   rng,
		model: newRewardModel(cfg, rng),
		obsSpec: BoundedSpec{
			Shape:   []int{2},
			Minimum: 0,
			Maximum: cfg.NumContexts,
			Name:    "observation spec",
		},
		actSpec: DiscreteSpec{
			NumValues: cfg.NumActions,
			Name:      "action spec",
		},
	}
	e.context = rng.Intn(cfg.NumContexts)

	return e, nil
}

// Step runs one round: a Bernoulli reward is drawn for action under the
// active context, then a fresh context is sampled uniformly, independent
// of history and of the action taken. An out-of-range action fails before
// any state is touched.
func (e *Environment) Step(action int) (Observation, error) {
	if !e.actSpec.Contains(action) {
		return Observation{}, fmt.Errorf("action %d outside [0, %d): %w",
			action, e.cfg.NumActions, ErrInvalidAction)
	}

	p := e.model.rewards[e.context][action]
	reward := 0
	if e.rng.Float64() < p {
		reward = 1
	}

	e.prevContext = e.context
	e.stepped = true
	e.context = e.rng.Intn(e.cfg.NumContexts)

	return Observation{Reward: reward, Context: e.context}, nil
}

// ExpectedReward returns the ground-truth success probability of action
// under the context that was active during the most recent step.
func (e *Environment) ExpectedReward(action int) (float64, error) {
	if !e.stepped {
		return 0, fmt.Errorf("expected reward queried before first step: %w", ErrNoStep)
	}
	if !e.actSpec.Contains(action) {
		return 0, fmt.Errorf("action %d outside [0, %d): %w",
			action, e.cfg.NumActions, ErrInvalidAction)
	}
	return e.model.rewards[e.prevContext][action], nil
}

// OptimalExpectedReward returns the best achievable expected reward under
// the previous context. Together with ExpectedReward it lets a harness
// compute instantaneous regret without the environment exposing it online.
func (e *Environment) OptimalExpectedReward() (float64, error) {
	if !e.stepped {
		return 0, fmt.Errorf("optimal expected reward queried before first step: %w", ErrNoStep)
	}
	return e.model.value[e.prevContext], nil
}

// OutputMeans returns the full reward-probability surface. Evaluation and
// diagnostics only; an online agent must never see this.
func (e *Environment) OutputMeans() [][]float64 {
	return copyMatrix(e.model.rewards)
}

// OutputRegrets returns the full regret surface. Evaluation and
// diagnostics only.
func (e *Environment) OutputRegrets() [][]float64 {
	return copyMatrix(e.model.regrets)
}

// Features returns the [NumActions][Dim] feature slice for any valid
// context index, not necessarily the active one.
func (e *Environment) Features(contextIndex int) ([][]float64, error) {
	if contextIndex < 0 || contextIndex >= e.cfg.NumContexts {
		return nil, fmt.Errorf("context %d outside [0, %d): %w",
			contextIndex, e.cfg.NumContexts, ErrInvalidContext)
	}
	return copyMatrix(e.model.features[contextIndex]), nil
}

// CurrentContext returns the context an action taken now would be scored
// against.
func (e *Environment) CurrentContext() int {
	return e.context
}

// PreviousContext returns the context the last observed reward was drawn
// from. Meaningful only after the first step.
func (e *Environment) PreviousContext() int {
	return e.prevContext
}

func (e *Environment) ObservationSpec() BoundedSpec {
	return e.obsSpec
}

func (e *Environment) ActionSpec() DiscreteSpec {
	return e.actSpec
}

func (e *Environment) Config() Config {
	return e.cfg
}

// Close releases nothing; it exists so the environment can participate in
// scoped acquisition alongside environments that do own resources.
func (e *Environment) Close() error {
	return nil
}
