package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"banditLab/business/env"
	"banditLab/business/eval"
	"banditLab/domain"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type fakeExperimentService struct {
	lastCfg   env.Config
	lastSteps int
	runs      map[uuid.UUID]domain.ExperimentRun
	steps     map[uuid.UUID][]domain.StepRecord
}

func newFakeExperimentService() *fakeExperimentService {
	return &fakeExperimentService{
		runs:  make(map[uuid.UUID]domain.ExperimentRun),
		steps: make(map[uuid.UUID][]domain.StepRecord),
	}
}

func (f *fakeExperimentService) RunExperiment(ctx context.Context, cfg env.Config, agentName string, steps int) (eval.Result, error) {
	f.lastCfg = cfg
	f.lastSteps = steps
	return eval.Result{RunID: uuid.New(), Agent: agentName, Steps: steps}, nil
}

func (f *fakeExperimentService) GetRun(ctx context.Context, id uuid.UUID) (domain.ExperimentRun, bool, error) {
	run, ok := f.runs[id]
	return run, ok, nil
}

func (f *fakeExperimentService) GetSteps(ctx context.Context, runID uuid.UUID) ([]domain.StepRecord, error) {
	return f.steps[runID], nil
}

func (f *fakeExperimentService) ListRuns(ctx context.Context, limit int) ([]domain.ExperimentRun, error) {
	out := make([]domain.ExperimentRun, 0, len(f.runs))
	for _, run := range f.runs {
		out = append(out, run)
	}
	return out, nil
}

func TestRunAppliesServerDefaults(t *testing.T) {
	svc := newFakeExperimentService()
	h := NewExperimentHandler(svc, 250, 2.0)

	e := echo.New()
	body := `{"num_actions":3,"num_contexts":2,"dim":4,"agent":"random"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/experiments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Run(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if svc.lastSteps != 250 {
		t.Errorf("steps = %d, want server default 250", svc.lastSteps)
	}
	if svc.lastCfg.SigmaP != 2.0 {
		t.Errorf("sigma_p = %v, want server default 2.0", svc.lastCfg.SigmaP)
	}
}

func getSteps(t *testing.T, h *ExperimentHandler, id string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/experiments/"+id+"/steps", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	if err := h.Steps(c); err != nil {
		t.Fatalf("Steps: %v", err)
	}
	return rec
}

func TestStepsReturnsPersistedTrace(t *testing.T) {
	svc := newFakeExperimentService()
	h := NewExperimentHandler(svc, 250, 2.0)

	runID := uuid.New()
	svc.runs[runID] = domain.ExperimentRun{ID: runID, AgentName: "greedy"}
	svc.steps[runID] = []domain.StepRecord{
		{RunID: runID, StepIndex: 0, Context: 1, Action: 2, Reward: 1, Regret: 0.1},
		{RunID: runID, StepIndex: 1, Context: 0, Action: 0, Reward: 0, Regret: 0.4},
	}

	rec := getSteps(t, h, runID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var payload any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	trace, ok := findKey(payload, "step_index")
	if !ok {
		t.Fatalf("response carries no step records: %s", rec.Body.String())
	}
	if trace != float64(0) {
		t.Errorf("first step_index = %v, want 0", trace)
	}
}

func TestStepsErrors(t *testing.T) {
	svc := newFakeExperimentService()
	h := NewExperimentHandler(svc, 250, 2.0)

	rec := getSteps(t, h, "not-a-uuid")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", rec.Code)
	}

	rec = getSteps(t, h, uuid.New().String())
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown run: status = %d, want 404", rec.Code)
	}
}
