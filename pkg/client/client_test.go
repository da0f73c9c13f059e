package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raykavin/tutor/pkg/core"
	"github.com/raykavin/tutor/pkg/logger"
	"github.com/raykavin/tutor/pkg/logger/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) logger.Logger {
	t.Helper()
	log, err := zerolog.New(zerolog.Config{Level: "error", JSON: true, Output: io.Discard})
	require.NoError(t, err)
	return log
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL+"/", newTestLogger(t), WithRetries(3), WithBackoff(time.Millisecond, 5*time.Millisecond))
}

type recorded struct {
	sync.Mutex
	samples map[string][]float64
	logs    []string
}

func (r *recorded) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/metrics/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := req.PathValue("name")
		if name == "unknown" {
			http.Error(w, "unknown metric", http.StatusNotFound)
			return
		}

		var body struct {
			Value float64 `json:"value"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		r.Lock()
		r.samples[name] = append(r.samples[name], body.Value)
		r.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/logs", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		r.Lock()
		r.logs = append(r.logs, body.Message)
		r.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/backups", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(core.BackupSummary{ID: 7, Epoch: 2})
	})
	mux.HandleFunc("GET /api/config", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"config": map[string]any{"lr": 0.1}})
	})
	return mux
}

func TestClient_Meter(t *testing.T) {
	server := &recorded{samples: map[string][]float64{}}
	client := newTestClient(t, server.handler())

	require.NoError(t, client.Meter(context.Background(), "loss", 0.5))
	require.NoError(t, client.Meter(context.Background(), "loss", 0.25))
	assert.Equal(t, []float64{0.5, 0.25}, server.samples["loss"])

	err := client.Meter(context.Background(), "unknown", 1)
	require.ErrorIs(t, err, core.ErrUnknownMetric)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.Log(context.Background(), "hello"))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUp(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := client.Log(context.Background(), "hello")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))

	err := client.Log(context.Background(), "")
	require.ErrorIs(t, err, core.ErrInvalidValue)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_BackupAndConfig(t *testing.T) {
	server := &recorded{samples: map[string][]float64{}}
	client := newTestClient(t, server.handler())

	summary, err := client.Backup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), summary.ID)

	config, err := client.Config(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.1, config["lr"])
}

func TestClient_Replay(t *testing.T) {
	server := &recorded{samples: map[string][]float64{}}
	client := newTestClient(t, server.handler())

	backup := core.Backup{
		ID:    3,
		Epoch: 5,
		Metrics: map[string]core.Series[float64]{
			"loss":     {0.9, 0.7, 0.4},
			"accuracy": {0.1, 0.6},
			"skipped":  {1},
		},
	}

	err := client.Replay(context.Background(), backup,
		WithProgressOutput(io.Discard),
		WithMetrics("loss", "accuracy"),
	)
	require.NoError(t, err)

	assert.Equal(t, []float64{0.9, 0.7, 0.4}, server.samples["loss"])
	assert.Equal(t, []float64{0.1, 0.6}, server.samples["accuracy"])
	assert.NotContains(t, server.samples, "skipped")
	assert.Equal(t, []string{"replayed backup 3 (epoch 5)"}, server.logs)
}
