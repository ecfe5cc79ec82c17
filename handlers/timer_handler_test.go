package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onetoc/onetoc-backend/timer"
)

func newTimerTestServer(t *testing.T) (*httptest.Server, *clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	keeper := timer.NewKeeper(timer.NewMemoryStore(), clock, logger)
	handler := NewTimerHandler(keeper)

	router := chi.NewRouter()
	router.Route("/api/match/{matchID}/timer", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.Post("/toggle", handler.Toggle)
		r.Post("/reset", handler.Reset)
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, clock
}

func timerResponse(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestTimerHandler_FreshMatchStartsAtZero(t *testing.T) {
	server, _ := newTimerTestServer(t)

	resp, err := http.Get(server.URL + "/api/match/1/timer")
	require.NoError(t, err)

	body := timerResponse(t, resp)
	assert.Equal(t, float64(0), body["time"])
	assert.Equal(t, false, body["isRunning"])
	assert.Equal(t, "00:00", body["formatted"])
}

func TestTimerHandler_ToggleRunAndRead(t *testing.T) {
	server, clock := newTimerTestServer(t)

	resp, err := http.Post(server.URL+"/api/match/1/timer/toggle", "application/json", nil)
	require.NoError(t, err)
	body := timerResponse(t, resp)
	assert.Equal(t, true, body["isRunning"])

	clock.Advance(63 * time.Second)

	resp, err = http.Get(server.URL + "/api/match/1/timer")
	require.NoError(t, err)
	body = timerResponse(t, resp)
	assert.Equal(t, float64(63), body["time"])
	assert.Equal(t, true, body["isRunning"])
	assert.Equal(t, "01:03", body["formatted"])
}

func TestTimerHandler_ResetClearsState(t *testing.T) {
	server, clock := newTimerTestServer(t)

	_, err := http.Post(server.URL+"/api/match/1/timer/toggle", "application/json", nil)
	require.NoError(t, err)
	clock.Advance(30 * time.Second)

	resp, err := http.Post(server.URL+"/api/match/1/timer/reset", "application/json", nil)
	require.NoError(t, err)
	body := timerResponse(t, resp)
	assert.Equal(t, float64(0), body["time"])
	assert.Equal(t, false, body["isRunning"])
}

func TestTimerHandler_MatchesAreIndependent(t *testing.T) {
	server, clock := newTimerTestServer(t)

	_, err := http.Post(server.URL+"/api/match/1/timer/toggle", "application/json", nil)
	require.NoError(t, err)
	clock.Advance(10 * time.Second)

	resp, err := http.Get(server.URL + "/api/match/2/timer")
	require.NoError(t, err)
	body := timerResponse(t, resp)
	assert.Equal(t, float64(0), body["time"])
	assert.Equal(t, false, body["isRunning"])
}

func TestTimerHandler_BadMatchID(t *testing.T) {
	server, _ := newTimerTestServer(t)

	resp, err := http.Get(server.URL + "/api/match/abc/timer")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
