package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-clock/internal/attendance"
	"github.com/kozaktomas/face-clock/internal/attendance/mock"
	"github.com/kozaktomas/face-clock/internal/embedding"
)

const (
	testDim       = 8
	testTolerance = 0.6
)

// newTestEngine creates an engine backed by the in-memory store.
func newTestEngine(t *testing.T) (*attendance.Engine, *mock.Store) {
	t.Helper()
	matcher := embedding.NewMatcher(testDim)
	store := mock.NewStore(matcher, testTolerance)
	return attendance.NewEngine(store, store, matcher, testTolerance), store
}

// testEmbedding builds a deterministic embedding far from other seeds.
func testEmbedding(seed int) []float64 {
	v := make([]float64, testDim)
	v[seed%testDim] = 2.0 * float64(seed/testDim+1)
	v[(seed+1)%testDim] = float64(seed)
	return v
}

// jsonRequest creates a request with a JSON-encoded body.
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// requestWithChiParams creates a request with chi URL parameters.
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type.
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code.
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}
