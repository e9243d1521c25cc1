package rest

import (
	"banditLab/business/session"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

var uuidPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

func newTestHandler() *EnvironmentHandler {
	manager := session.NewManager(4, time.Hour)
	return NewEnvironmentHandler(manager, 1.0)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body, sessionID string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	if sessionID != "" {
		c.SetParamNames("id")
		c.SetParamValues(sessionID)
	}

	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	return rec
}

// lookup digs through the response envelope for the first value stored
// under the given key, at any nesting depth.
func lookup(t *testing.T, rec *httptest.ResponseRecorder, key string) any {
	t.Helper()

	var payload any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}

	value, found := findKey(payload, key)
	if !found {
		t.Fatalf("response has no %q field: %s", key, rec.Body.String())
	}

	return value
}

func findKey(node any, key string) (any, bool) {
	switch v := node.(type) {
	case map[string]any:
		if value, ok := v[key]; ok {
			return value, true
		}
		for _, child := range v {
			if value, ok := findKey(child, key); ok {
				return value, true
			}
		}
	case []any:
		for _, child := range v {
			if value, ok := findKey(child, key); ok {
				return value, true
			}
		}
	}
	return nil, false
}

func createSession(t *testing.T, h *EnvironmentHandler) string {
	t.Helper()

	rec := doJSON(t, h.Create, http.MethodPost, "/api/v1/environments",
		`{"num_actions":3,"num_contexts":4,"dim":5,"seed":7}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}

	id := uuidPattern.FindString(rec.Body.String())
	if id == "" {
		t.Fatalf("create response carries no session id: %s", rec.Body.String())
	}

	return id
}

func TestCreateValidation(t *testing.T) {
	h := newTestHandler()

	cases := []string{
		`{"num_contexts":4,"dim":5}`,
		`{"num_actions":0,"num_contexts":4,"dim":5}`,
		`{"num_actions":3,"num_contexts":4,"dim":5,"sigma_p":-1}`,
	}
	for _, body := range cases {
		rec := doJSON(t, h.Create, http.MethodPost, "/api/v1/environments", body, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: got status %d, want 400", body, rec.Code)
		}
	}
}

func TestStepFlow(t *testing.T) {
	h := newTestHandler()
	id := createSession(t, h)

	// reading expected reward before any step is a state conflict
	rec := doJSON(t, h.ExpectedReward, http.MethodGet,
		"/api/v1/environments/"+id+"/expected-reward?action=0", "", id)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected-reward before step: got %d, want 409", rec.Code)
	}

	rec = doJSON(t, h.Step, http.MethodPost,
		"/api/v1/environments/"+id+"/step", `{"action":1}`, id)
	if rec.Code != http.StatusOK {
		t.Fatalf("step returned %d: %s", rec.Code, rec.Body.String())
	}

	reward := lookup(t, rec, "reward").(float64)
	if reward != 0 && reward != 1 {
		t.Errorf("reward = %v, want 0 or 1", reward)
	}
	if steps := lookup(t, rec, "steps").(float64); steps != 1 {
		t.Errorf("steps = %v, want 1", steps)
	}

	rec = doJSON(t, h.ExpectedReward, http.MethodGet,
		"/api/v1/environments/"+id+"/expected-reward?action=1", "", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected-reward after step: got %d: %s", rec.Code, rec.Body.String())
	}
	expected := lookup(t, rec, "expected_reward").(float64)
	if expected <= 0 || expected >= 1 {
		t.Errorf("expected reward %v outside (0, 1)", expected)
	}

	rec = doJSON(t, h.OptimalExpectedReward, http.MethodGet,
		"/api/v1/environments/"+id+"/optimal-reward", "", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("optimal-reward returned %d", rec.Code)
	}
	optimal := lookup(t, rec, "optimal_reward").(float64)
	if optimal < expected {
		t.Errorf("optimal reward %v below expected reward %v", optimal, expected)
	}
}

func TestStepRejectsInvalidAction(t *testing.T) {
	h := newTestHandler()
	id := createSession(t, h)

	for _, body := range []string{`{"action":3}`, `{"action":-1}`, `{}`} {
		rec := doJSON(t, h.Step, http.MethodPost,
			"/api/v1/environments/"+id+"/step", body, id)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: got status %d, want 400", body, rec.Code)
		}
	}
}

func TestSurfaceEndpoints(t *testing.T) {
	h := newTestHandler()
	id := createSession(t, h)

	rec := doJSON(t, h.Means, http.MethodGet,
		"/api/v1/environments/"+id+"/means", "", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("means returned %d", rec.Code)
	}

	rec = doJSON(t, h.Regrets, http.MethodGet,
		"/api/v1/environments/"+id+"/regrets", "", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("regrets returned %d", rec.Code)
	}

	rec = doJSON(t, h.Features, http.MethodGet,
		"/api/v1/environments/"+id+"/features?context=2", "", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("features returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h.Features, http.MethodGet,
		"/api/v1/environments/"+id+"/features?context=99", "", id)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out-of-range context: got %d, want 400", rec.Code)
	}

	rec = doJSON(t, h.Features, http.MethodGet,
		"/api/v1/environments/"+id+"/features", "", id)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing context: got %d, want 400", rec.Code)
	}

	rec = doJSON(t, h.Specs, http.MethodGet,
		"/api/v1/environments/"+id+"/specs", "", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("specs returned %d", rec.Code)
	}
	if n := lookup(t, rec, "num_values").(float64); n != 3 {
		t.Errorf("action spec num_values = %v, want 3", n)
	}
	shape := lookup(t, rec, "shape").([]any)
	if len(shape) != 1 || shape[0].(float64) != 2 {
		t.Errorf("observation shape = %v, want [2]", shape)
	}
}

func TestDeleteAndUnknownSession(t *testing.T) {
	h := newTestHandler()
	id := createSession(t, h)

	rec := doJSON(t, h.Delete, http.MethodDelete,
		"/api/v1/environments/"+id, "", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete returned %d", rec.Code)
	}

	rec = doJSON(t, h.Get, http.MethodGet,
		"/api/v1/environments/"+id, "", id)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", rec.Code)
	}

	rec = doJSON(t, h.Get, http.MethodGet,
		"/api/v1/environments/not-a-uuid", "", "not-a-uuid")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed id: got %d, want 400", rec.Code)
	}
}

func TestSessionCapacity(t *testing.T) {
	h := newTestHandler()

	for i := 0; i < 4; i++ {
		createSession(t, h)
	}

	rec := doJSON(t, h.Create, http.MethodPost, "/api/v1/environments",
		`{"num_actions":3,"num_contexts":4,"dim":5}`, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("create at capacity: got %d, want 503", rec.Code)
	}
}

func TestStepCountsAccumulate(t *testing.T) {
	h := newTestHandler()
	id := createSession(t, h)

	for i := 0; i < 5; i++ {
		rec := doJSON(t, h.Step, http.MethodPost,
			"/api/v1/environments/"+id+"/step", `{"action":0}`, id)
		if rec.Code != http.StatusOK {
			t.Fatalf("step %d returned %d", i, rec.Code)
		}

		ctxVal := lookup(t, rec, "context").(float64)
		if ctxVal < 0 || ctxVal > 3 {
			t.Errorf("step %d: context %v out of range", i, ctxVal)
		}
		if steps := lookup(t, rec, "steps").(float64); steps != float64(i+1) {
			t.Errorf("step %d: steps = %v, want %d", i, steps, i+1)
		}
	}
}

func TestCreateAppliesServerSigmaPDefault(t *testing.T) {
	manager := session.NewManager(4, time.Hour)
	h := NewEnvironmentHandler(manager, 2.5)

	rec := doJSON(t, h.Create, http.MethodPost, "/api/v1/environments",
		`{"num_actions":3,"num_contexts":4,"dim":5}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
	if got := lookup(t, rec, "sigma_p").(float64); got != 2.5 {
		t.Errorf("sigma_p = %v, want server default 2.5", got)
	}

	// an explicit sigma_p wins over the server default
	rec = doJSON(t, h.Create, http.MethodPost, "/api/v1/environments",
		`{"num_actions":3,"num_contexts":4,"dim":5,"sigma_p":0.5}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
	if got := lookup(t, rec, "sigma_p").(float64); got != 0.5 {
		t.Errorf("sigma_p = %v, want 0.5", got)
	}
}
