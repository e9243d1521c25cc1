package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ExperimentRun is the persisted summary of one agent-vs-environment run.
// Environment state itself is never persisted, only what came out of it.
type ExperimentRun struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AgentName string    `gorm:"column:agent_name;not null" json:"agent_name"`

	NumActions  int     `gorm:"column:num_actions;not null" json:"num_actions"`
	NumContexts int     `gorm:"column:num_contexts;not null" json:"num_contexts"`
	Dim         int     `gorm:"column:dim;not null" json:"dim"`
	Seed        uint64  `gorm:"column:seed;not null" json:"seed"`
	SigmaP      float64 `gorm:"column:sigma_p;not null" json:"sigma_p"`

	Steps            int     `gorm:"column:steps;not null" json:"steps"`
	TotalReward      float64 `gorm:"column:total_reward;not null" json:"total_reward"`
	CumulativeRegret float64 `gorm:"column:cumulative_regret;not null" json:"cumulative_regret"`

	Diagnostics datatypes.JSONMap `gorm:"column:diagnostics;type:jsonb" json:"diagnostics"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// StepRecord is one interaction round inside a run.
type StepRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RunID     uuid.UUID `gorm:"column:run_id;type:uuid;index;not null" json:"run_id"`
	StepIndex int       `gorm:"column:step_index;not null" json:"step_index"`
	Context   int       `gorm:"column:context;not null" json:"context"`
	Action    int       `gorm:"column:action;not null" json:"action"`
	Reward    int       `gorm:"column:reward;not null" json:"reward"`
	Regret    float64   `gorm:"column:regret;not null" json:"regret"`
}
