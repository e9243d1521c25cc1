// Package eval runs agents against bandit environments, accounting regret
// exactly against the hidden reward surface.
package eval

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"banditLab/business/agents"
	"banditLab/business/env"
	"banditLab/pkg/loggers"
)

// featureRow lets a step record's feature vector be flattened by the
// logging normalizer.
type featureRow []float64

func (f featureRow) FloatSlice() []float64 { return f }

// Result summarizes a completed run. RegretCurve holds the cumulative
// regret after each step.
type Result struct {
	RunID            uuid.UUID `json:"run_id"`
	Agent            string    `json:"agent"`
	Steps            int       `json:"steps"`
	TotalReward      float64   `json:"total_reward"`
	CumulativeRegret float64   `json:"cumulative_regret"`
	RegretCurve      []float64 `json:"regret_curve,omitempty"`
}

// StepOutcome is one interaction round as seen by the harness.
type StepOutcome struct {
	StepIndex int
	Context   int
	Action    int
	Reward    int
	Regret    float64
}

// Runner drives one agent through one environment for a fixed number of
// steps. The caller keeps ownership of the environment.
type Runner struct {
	env    *env.Environment
	agent  agents.Agent
	logger loggers.Logger
}

func NewRunner(e *env.Environment, agent agents.Agent, logger loggers.Logger) *Runner {
	if logger == nil {
		logger = loggers.NoOp{}
	}
	return &Runner{env: e, agent: agent, logger: logger}
}

// Run executes steps rounds. Each round it fetches the active context's
// features, lets the agent act, steps the environment, and charges the
// agent the exact instantaneous regret for the round. One normalized
// record per step goes to the logger.
func (r *Runner) Run(ctx context.Context, steps int) (Result, []StepOutcome, error) {
	if steps <= 0 {
		return Result{}, nil, fmt.Errorf("steps must be positive, got %d", steps)
	}

	result := Result{
		RunID:       uuid.New(),
		Agent:       r.agent.Name(),
		Steps:       steps,
		RegretCurve: make([]float64, 0, steps),
	}
	outcomes := make([]StepOutcome, 0, steps)

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, nil, fmt.Errorf("run cancelled at step %d: %w", i, err)
		}

		active := r.env.CurrentContext()
		feats, err := r.env.Features(active)
		if err != nil {
			return Result{}, nil, fmt.Errorf("features for context %d: %w", active, err)
		}

		action := r.agent.SelectAction(active, feats)

		obs, err := r.env.Step(action)
		if err != nil {
			return Result{}, nil, fmt.Errorf("agent %s chose an invalid action %d: %w",
				r.agent.Name(), action, err)
		}

		expected, err := r.env.ExpectedReward(action)
		if err != nil {
			return Result{}, nil, fmt.Errorf("expected reward: %w", err)
		}
		optimal, err := r.env.OptimalExpectedReward()
		if err != nil {
			return Result{}, nil, fmt.Errorf("optimal expected reward: %w", err)
		}

		regret := optimal - expected
		result.TotalReward += float64(obs.Reward)
		result.CumulativeRegret += regret
		result.RegretCurve = append(result.RegretCurve, result.CumulativeRegret)

		outcomes = append(outcomes, StepOutcome{
			StepIndex: i,
			Context:   active,
			Action:    action,
			Reward:    obs.Reward,
			Regret:    regret,
		})

		r.agent.Observe(active, action, float64(obs.Reward), feats)

		record := loggers.Normalize(loggers.Data{
			"step":              i,
			"context":           active,
			"action":            action,
			"reward":            obs.Reward,
			"regret":            regret,
			"cumulative_regret": result.CumulativeRegret,
			"features":          featureRow(feats[action]),
		})
		if err := r.logger.Write(record.(loggers.Data)); err != nil {
			return Result{}, nil, fmt.Errorf("write step record: %w", err)
		}

		stepsTotal.WithLabelValues(r.agent.Name()).Inc()
	}

	return result, outcomes, nil
}
