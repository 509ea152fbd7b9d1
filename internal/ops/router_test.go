package ops

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"churnscope/domain/core"
	"churnscope/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatus struct {
	state dataset.State
	err   error
}

func (f fakeStatus) State() dataset.State { return f.state }
func (f fakeStatus) Err() error           { return f.err }

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthz(t *testing.T) {
	w := serve(NewRouter(fakeStatus{state: dataset.StateLoading}, Config{}), "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name   string
		status fakeStatus
		code   int
		state  string
	}{
		{"unloaded", fakeStatus{state: dataset.StateUnloaded}, http.StatusServiceUnavailable, "unloaded"},
		{"loading", fakeStatus{state: dataset.StateLoading}, http.StatusServiceUnavailable, "loading"},
		{"loaded", fakeStatus{state: dataset.StateLoaded}, http.StatusOK, "loaded"},
		{"failed", fakeStatus{state: dataset.StateFailed, err: core.NewMissingColumnsError([]string{"Churn"})}, http.StatusServiceUnavailable, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(NewRouter(tt.status, Config{}), "/readyz")

			assert.Equal(t, tt.code, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.state, body["state"])
			if tt.status.err != nil {
				assert.Equal(t, "SCHEMA_MISMATCH", body["code"])
			}
		})
	}
}

func TestProfilerMountedOnlyWhenEnabled(t *testing.T) {
	status := fakeStatus{state: dataset.StateLoaded}

	assert.Equal(t, http.StatusNotFound, serve(NewRouter(status, Config{}), "/debug/pprof/").Code)
	assert.Equal(t, http.StatusOK, serve(NewRouter(status, Config{Profiling: true}), "/debug/pprof/").Code)
}
