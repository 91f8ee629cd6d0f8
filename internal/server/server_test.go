package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/golfsim/internal/storage"
	"github.com/san-kum/golfsim/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := storage.New(t.TempDir())
	require.NoError(t, st.Init())
	collector, err := telemetry.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	return New(st, collector, zap.NewNop())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestSimulateAndFetch(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodPost, "/simulate", `{"preset":"driver"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	resp := decode[SimulateResponse](t, rr)
	assert.True(t, resp.Landed)
	assert.Equal(t, 6, resp.Steps)
	assert.Len(t, resp.Trajectory, 7)
	assert.InDelta(t, 149.3, resp.Carry, 0.05)
	assert.True(t, strings.HasPrefix(resp.ID, "driver_"), resp.ID)
	assert.Contains(t, resp.Metrics, "apex")

	rr = do(t, s, http.MethodGet, "/runs/"+resp.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	meta := decode[storage.RunMetadata](t, rr)
	assert.Equal(t, 418.0, meta.Launch.Spin)
	assert.Equal(t, resp.Carry, meta.Carry)

	rr = do(t, s, http.MethodGet, "/runs/"+resp.ID+"/trajectory", "")
	require.Equal(t, http.StatusOK, rr.Code)
	export := decode[storage.ExportData](t, rr)
	assert.Len(t, export.Points, 7)
	assert.Equal(t, resp.Trajectory.Last(), export.Trajectory.Last())

	rr = do(t, s, http.MethodGet, "/runs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]storage.RunMetadata](t, rr), 1)
}

func TestSimulateLaunchOverride(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodPost, "/simulate", `{"label":"steep","launch":{"launch_angle":35}}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decode[SimulateResponse](t, rr)
	assert.Equal(t, 7, resp.Steps)
	assert.InDelta(t, 156.15, resp.Carry, 0.05)
	assert.True(t, strings.HasPrefix(resp.ID, "steep_"))
}

func TestSimulateDidNotLand(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodPost, "/simulate", `{"max_steps":2}`)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[SimulateResponse](t, rr)
	assert.False(t, resp.Landed)
	assert.Equal(t, 2, resp.Steps)
	assert.NotEmpty(t, resp.Error)
}

func TestSimulateBadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"malformed", `{"preset":`, ""},
		{"unknown field", `{"club":"driver"}`, ""},
		{"unknown preset", `{"preset":"putter"}`, ""},
		{"bad label", `{"label":"../x"}`, ""},
		{"negative speed", `{"launch":{"initial_speed":-1}}`, "initial_speed"},
		{"decay above one", `{"launch":{"spin_decay_rate":1.5}}`, "spin_decay"},
		{"negative max steps", `{"max_steps":-3}`, "max_steps"},
		{"max steps above cap", `{"max_steps":2000000000}`, "max_steps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, http.MethodPost, "/simulate", tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			resp := decode[errorResponse](t, rr)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.field, resp.Field)
		})
	}
}

func TestSimulateMaxStepsAtCap(t *testing.T) {
	s := newTestServer(t)

	body := fmt.Sprintf(`{"preset":"driver","max_steps":%d}`, MaxSteps)
	rr := do(t, s, http.MethodPost, "/simulate", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 6, decode[SimulateResponse](t, rr).Steps)

	body = fmt.Sprintf(`{"preset":"driver","max_steps":%d}`, MaxSteps+1)
	rr = do(t, s, http.MethodPost, "/simulate", body)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "max_steps", decode[errorResponse](t, rr).Field)
}

func TestRunNotFound(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/runs/missing_1234", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/runs/missing_1234/trajectory", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodGet, "/simulate", "").Code)
}

func TestWithoutStore(t *testing.T) {
	s := New(nil, nil, nil)

	rr := do(t, s, http.MethodPost, "/simulate", `{"preset":"wedge"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[SimulateResponse](t, rr)
	assert.Empty(t, resp.ID)
	assert.Equal(t, 7, resp.Steps)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/runs", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/metrics", "").Code)
}

func TestPresetsAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodGet, "/presets", "")
	require.Equal(t, http.StatusOK, rr.Code)
	presets := decode[map[string]map[string]any](t, rr)
	require.Contains(t, presets, "driver")
	assert.Equal(t, 418.0, presets["driver"]["initial_spin_rate"])

	do(t, s, http.MethodPost, "/simulate", `{"preset":"low"}`)
	do(t, s, http.MethodPost, "/simulate", `{"max_steps":1}`)

	rr = do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `golfsim_runs_total{outcome="landed"} 1`)
	assert.Contains(t, body, `golfsim_runs_total{outcome="did_not_land"} 1`)
}
