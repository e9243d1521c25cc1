package postgres

import (
	"banditLab/business/eval"
	"banditLab/domain"
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExperimentRepository struct {
	DB *gorm.DB
}

var _ eval.RunRepository = (*ExperimentRepository)(nil)

func NewExperimentRepository(db *gorm.DB) *ExperimentRepository {
	return &ExperimentRepository{DB: db}
}

func (r *ExperimentRepository) SaveRun(ctx context.Context, run *domain.ExperimentRun) error {
	if err := r.DB.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to save experiment run: %w", err)
	}
	return nil
}

func (r *ExperimentRepository) SaveSteps(ctx context.Context, steps []domain.StepRecord) error {
	if len(steps) == 0 {
		return nil
	}

	if err := r.DB.WithContext(ctx).CreateInBatches(steps, 500).Error; err != nil {
		return fmt.Errorf("failed to save step records: %w", err)
	}
	return nil
}

func (r *ExperimentRepository) GetRun(ctx context.Context, id uuid.UUID) (domain.ExperimentRun, bool, error) {
	var run domain.ExperimentRun

	err := r.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&run).Error
	if err == gorm.ErrRecordNotFound {
		return domain.ExperimentRun{}, false, nil
	}
	if err != nil {
		return domain.ExperimentRun{}, false, fmt.Errorf("failed to load experiment run: %w", err)
	}

	return run, true, nil
}

func (r *ExperimentRepository) ListRuns(ctx context.Context, limit int) ([]domain.ExperimentRun, error) {
	var runs []domain.ExperimentRun

	err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list experiment runs: %w", err)
	}

	return runs, nil
}

// GetSteps returns the step trace for a run in step order.
func (r *ExperimentRepository) GetSteps(ctx context.Context, runID uuid.UUID) ([]domain.StepRecord, error) {
	var steps []domain.StepRecord

	err := r.DB.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("step_index ASC").
		Find(&steps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load step records: %w", err)
	}

	return steps, nil
}
