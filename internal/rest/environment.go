package rest

import (
	"banditLab/business/env"
	"banditLab/business/session"
	"errors"
	"net/http"
	"strconv"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type (
	EnvironmentHandler struct {
		validate      *validator.Validate
		sessions      SessionRegistry
		defaultSigmaP float64
	}

	SessionRegistry interface {
		Create(cfg env.Config) (session.Info, error)
		Step(id uuid.UUID, action int) (env.Observation, error)
		With(id uuid.UUID, fn func(*env.Environment) error) error
		Get(id uuid.UUID) (session.Info, error)
		Close(id uuid.UUID) error
	}

	CreateEnvironmentRequest struct {
		NumActions  int     `json:"num_actions" validate:"required,min=1"`
		NumContexts int     `json:"num_contexts" validate:"required,min=1"`
		Dim         int     `json:"dim" validate:"required,min=1"`
		Seed        uint64  `json:"seed"`
		SigmaP      float64 `json:"sigma_p" validate:"omitempty,gt=0"`
	}

	StepRequest struct {
		Action *int `json:"action" validate:"required"`
	}

	StepResponse struct {
		Reward  int `json:"reward"`
		Context int `json:"context"`
		Steps   int `json:"steps"`
	}

	SpecsResponse struct {
		Observation env.BoundedSpec  `json:"observation"`
		Action      env.DiscreteSpec `json:"action"`
	}

	ExpectedRewardResponse struct {
		Context        int     `json:"context"`
		Action         int     `json:"action"`
		ExpectedReward float64 `json:"expected_reward"`
	}

	OptimalRewardResponse struct {
		Context       int     `json:"context"`
		OptimalReward float64 `json:"optimal_reward"`
	}
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func NewEnvironmentHandler(sessions SessionRegistry, defaultSigmaP float64) *EnvironmentHandler {
	return &EnvironmentHandler{
		validate:      validator.New(),
		sessions:      sessions,
		defaultSigmaP: defaultSigmaP,
	}
}

func (h *EnvironmentHandler) Create(c echo.Context) error {
	var req CreateEnvironmentRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if req.SigmaP == 0 {
		req.SigmaP = h.defaultSigmaP
	}

	info, err := h.sessions.Create(env.Config{
		NumActions:  req.NumActions,
		NumContexts: req.NumContexts,
		Dim:         req.Dim,
		Seed:        req.Seed,
		SigmaP:      req.SigmaP,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(info))
}

func (h *EnvironmentHandler) Step(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid session id"})
	}

	var req StepRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	obs, err := h.sessions.Step(id, *req.Action)
	if err != nil {
		return h.mapError(c, err)
	}

	info, err := h.sessions.Get(id)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(StepResponse{
		Reward:  obs.Reward,
		Context: obs.Context,
		Steps:   info.Steps,
	}))
}

func (h *EnvironmentHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid session id"})
	}

	info, err := h.sessions.Get(id)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(info))
}

func (h *EnvironmentHandler) Means(c echo.Context) error {
	return h.surface(c, func(e *env.Environment) any {
		return e.OutputMeans()
	})
}

func (h *EnvironmentHandler) Regrets(c echo.Context) error {
	return h.surface(c, func(e *env.Environment) any {
		return e.OutputRegrets()
	})
}

// surface serves a full reward-surface table under the session lock.
func (h *EnvironmentHandler) surface(c echo.Context, fetch func(*env.Environment) any) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid session id"})
	}

	var table any
	err = h.sessions.With(id, func(e *env.Environment) error {
		table = fetch(e)
		return nil
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(table))
}

func (h *EnvironmentHandler) Features(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid session id"})
	}

	contextIndex, ok := intQuery(c, "context")
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing or invalid context query parameter"})
	}

	var rows [][]float64
	err = h.sessions.With(id, func(e *env.Environment) error {
		var ferr error
		rows, ferr = e.Features(contextIndex)
		return ferr
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rows))
}

func (h *EnvironmentHandler) Specs(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid session id"})
	}

	var specs SpecsResponse
	err = h.sessions.With(id, func(e *env.Environment) error {
		specs = SpecsResponse{
			Observation: e.ObservationSpec(),
			Action:      e.ActionSpec(),
		}
		return nil
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(specs))
}

// ExpectedReward reports the mean reward of an action for the previous
// context, matching what the last observed reward was drawn from. It is
// unavailable before the first step.
func (h *EnvironmentHandler) ExpectedReward(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid session id"})
	}

	action, ok := intQuery(c, "action")
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing or invalid action query parameter"})
	}

	var resp ExpectedRewardResponse
	err = h.sessions.With(id, func(e *env.Environment) error {
		reward, rerr := e.ExpectedReward(action)
		if rerr != nil {
			return rerr
		}
		resp = ExpectedRewardResponse{
			Context:        e.PreviousContext(),
			Action:         action,
			ExpectedReward: reward,
		}
		return nil
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
}

func (h *EnvironmentHandler) OptimalExpectedReward(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid session id"})
	}

	var resp OptimalRewardResponse
	err = h.sessions.With(id, func(e *env.Environment) error {
		reward, rerr := e.OptimalExpectedReward()
		if rerr != nil {
			return rerr
		}
		resp = OptimalRewardResponse{
			Context:       e.PreviousContext(),
			OptimalReward: reward,
		}
		return nil
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
}

func (h *EnvironmentHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid session id"})
	}

	if err := h.sessions.Close(id); err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("session closed"))
}

func (h *EnvironmentHandler) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	case errors.Is(err, session.ErrFull):
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: err.Error()})
	case errors.Is(err, env.ErrInvalidConfig),
		errors.Is(err, env.ErrInvalidAction),
		errors.Is(err, env.ErrInvalidContext):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	case errors.Is(err, env.ErrNoStep):
		return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
}

func intQuery(c echo.Context, name string) (int, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return value, true
}
