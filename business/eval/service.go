package eval

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"banditLab/business/agents"
	"banditLab/business/env"
	"banditLab/domain"
	"banditLab/pkg/logger"
	"banditLab/pkg/loggers"
)

type RunRepository interface {
	SaveRun(ctx context.Context, run *domain.ExperimentRun) error
	SaveSteps(ctx context.Context, steps []domain.StepRecord) error
	GetRun(ctx context.Context, id uuid.UUID) (domain.ExperimentRun, bool, error)
	GetSteps(ctx context.Context, runID uuid.UUID) ([]domain.StepRecord, error)
	ListRuns(ctx context.Context, limit int) ([]domain.ExperimentRun, error)
}

// LoggerFactory builds a per-run step logger from a run label.
type LoggerFactory func(label string) loggers.Logger

// Service owns the full experiment flow: build a fresh environment and
// agent, run them, persist the results. A nil repo skips persistence, a
// nil factory skips step logging.
type Service struct {
	repo    RunRepository
	factory LoggerFactory
}

func NewService(repo RunRepository, factory LoggerFactory) *Service {
	if factory == nil {
		factory = func(string) loggers.Logger { return loggers.NoOp{} }
	}
	return &Service{repo: repo, factory: factory}
}

func (s *Service) RunExperiment(
	ctx context.Context,
	cfg env.Config,
	agentName string,
	steps int,
) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context error: %w", err)
	}

	environment, err := env.New(cfg)
	if err != nil {
		return Result{}, fmt.Errorf("create environment: %w", err)
	}
	defer environment.Close()

	// offset the agent seed so agent and environment never share a stream
	agent, err := agents.New(agentName, environment.Config(), cfg.Seed+1)
	if err != nil {
		return Result{}, err
	}

	stepLogger := s.factory(agentName)
	defer stepLogger.Close()

	started := time.Now()
	result, outcomes, err := NewRunner(environment, agent, stepLogger).Run(ctx, steps)
	if err != nil {
		runsTotal.WithLabelValues(agentName, "error").Inc()
		return Result{}, fmt.Errorf("run experiment: %w", err)
	}
	runsTotal.WithLabelValues(agentName, "ok").Inc()

	logger.Info("experiment_complete",
		"run_id", result.RunID,
		"agent", result.Agent,
		"steps", result.Steps,
		"total_reward", result.TotalReward,
		"cumulative_regret", result.CumulativeRegret,
		"duration", time.Since(started).String(),
	)

	if s.repo == nil {
		return result, nil
	}

	envCfg := environment.Config()
	run := domain.ExperimentRun{
		ID:               result.RunID,
		AgentName:        result.Agent,
		NumActions:       envCfg.NumActions,
		NumContexts:      envCfg.NumContexts,
		Dim:              envCfg.Dim,
		Seed:             envCfg.Seed,
		SigmaP:           envCfg.SigmaP,
		Steps:            result.Steps,
		TotalReward:      result.TotalReward,
		CumulativeRegret: result.CumulativeRegret,
		Diagnostics: datatypes.JSONMap{
			"mean_regret_per_step": result.CumulativeRegret / float64(result.Steps),
			"duration_ms":          time.Since(started).Milliseconds(),
		},
	}
	if err := s.repo.SaveRun(ctx, &run); err != nil {
		return Result{}, fmt.Errorf("save run: %w", err)
	}

	records := make([]domain.StepRecord, len(outcomes))
	for i, o := range outcomes {
		records[i] = domain.StepRecord{
			RunID:     result.RunID,
			StepIndex: o.StepIndex,
			Context:   o.Context,
			Action:    o.Action,
			Reward:    o.Reward,
			Regret:    o.Regret,
		}
	}
	if err := s.repo.SaveSteps(ctx, records); err != nil {
		return Result{}, fmt.Errorf("save step records: %w", err)
	}

	return result, nil
}

func (s *Service) GetRun(ctx context.Context, id uuid.UUID) (domain.ExperimentRun, bool, error) {
	if s.repo == nil {
		return domain.ExperimentRun{}, false, nil
	}
	return s.repo.GetRun(ctx, id)
}

func (s *Service) GetSteps(ctx context.Context, runID uuid.UUID) ([]domain.StepRecord, error) {
	if s.repo == nil {
		return []domain.StepRecord{}, nil
	}
	return s.repo.GetSteps(ctx, runID)
}

func (s *Service) ListRuns(ctx context.Context, limit int) ([]domain.ExperimentRun, error) {
	if s.repo == nil {
		return []domain.ExperimentRun{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRuns(ctx, limit)
}
