package rest

import (
	"banditLab/business/agents"
	"banditLab/business/env"
	"banditLab/business/eval"
	"banditLab/domain"
	"context"
	"errors"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type (
	ExperimentHandler struct {
		validate          *validator.Validate
		experimentService ExperimentService
		defaultSteps      int
		defaultSigmaP     float64
	}

	ExperimentService interface {
		RunExperiment(ctx context.Context, cfg env.Config, agentName string, steps int) (eval.Result, error)
		GetRun(ctx context.Context, id uuid.UUID) (domain.ExperimentRun, bool, error)
		GetSteps(ctx context.Context, runID uuid.UUID) ([]domain.StepRecord, error)
		ListRuns(ctx context.Context, limit int) ([]domain.ExperimentRun, error)
	}

	RunExperimentRequest struct {
		NumActions  int     `json:"num_actions" validate:"required,min=1"`
		NumContexts int     `json:"num_contexts" validate:"required,min=1"`
		Dim         int     `json:"dim" validate:"required,min=1"`
		Seed        uint64  `json:"seed"`
		SigmaP      float64 `json:"sigma_p" validate:"omitempty,gt=0"`
		Agent       string  `json:"agent" validate:"required"`
		Steps       int     `json:"steps" validate:"omitempty,min=1"`
	}
)

func NewExperimentHandler(svc ExperimentService, defaultSteps int, defaultSigmaP float64) *ExperimentHandler {
	return &ExperimentHandler{
		validate:          validator.New(),
		experimentService: svc,
		defaultSteps:      defaultSteps,
		defaultSigmaP:     defaultSigmaP,
	}
}

func (h *ExperimentHandler) Run(c echo.Context) error {
	var req RunExperimentRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if req.Steps <= 0 {
		req.Steps = h.defaultSteps
	}
	if req.SigmaP == 0 {
		req.SigmaP = h.defaultSigmaP
	}

	cfg := env.Config{
		NumActions:  req.NumActions,
		NumContexts: req.NumContexts,
		Dim:         req.Dim,
		Seed:        req.Seed,
		SigmaP:      req.SigmaP,
	}

	result, err := h.experimentService.RunExperiment(c.Request().Context(), cfg, req.Agent, req.Steps)
	if err != nil {
		switch {
		case errors.Is(err, env.ErrInvalidConfig), errors.Is(err, agents.ErrUnknownAgent):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
		}
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(result))
}

func (h *ExperimentHandler) List(c echo.Context) error {
	limit, ok := intQuery(c, "limit")
	if !ok {
		limit = 0
	}

	runs, err := h.experimentService.ListRuns(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(runs))
}

func (h *ExperimentHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid run id"})
	}

	run, found, err := h.experimentService.GetRun(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if !found {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "run not found"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(run))
}

// Steps returns the persisted per-step trace of a run.
func (h *ExperimentHandler) Steps(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid run id"})
	}

	_, found, err := h.experimentService.GetRun(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if !found {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "run not found"})
	}

	steps, err := h.experimentService.GetSteps(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(steps))
}
