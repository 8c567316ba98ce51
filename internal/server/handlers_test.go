package server

import (
	"bytes"
	"encoding/json"
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/epipolar/internal/epipolar"
	"github.com/MeKo-Tech/epipolar/internal/testutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(Config{
		CORSOrigin: "*",
		MaxBodyMB:  1,
		Method:     "8point",
		SelectBest: true,
		Version:    "test",
	})
	require.NoError(t, err)
	return srv
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func pairSlices(pts []epipolar.Point) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func TestNewServer(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		srv, err := NewServer(Config{})
		require.NoError(t, err)
		assert.Equal(t, epipolar.MethodEightPoint, srv.method)
		assert.Equal(t, int64(10), srv.maxBodyMB)
	})

	t.Run("invalid method", func(t *testing.T) {
		_, err := NewServer(Config{Method: "ransac"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid estimation method")
	})
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.NotEmpty(t, resp.Time)
}

func TestHealthHandlerMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	srv.healthHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestEstimateHandler(t *testing.T) {
	srv := newTestServer(t)
	rng := rand.New(rand.NewSource(7))
	f := testutil.RandomFundamental(rng)
	pts1, pts2 := testutil.Correspondences(f, 12, rng)

	rec := postJSON(t, srv.estimateHandler, "/estimate", EstimateRequest{
		Points1: pairSlices(pts1),
		Points2: pairSlices(pts2),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, epipolar.MethodEightPoint, resp.Method)
	require.Len(t, resp.Fundamental, 3)
	assert.Equal(t, 1, resp.Candidates)
	assert.Less(t, resp.MeanError, 1e-6)
}

func TestEstimateHandlerSevenPoint(t *testing.T) {
	srv := newTestServer(t)
	rng := rand.New(rand.NewSource(11))
	f := testutil.RandomFundamental(rng)
	pts1, pts2 := testutil.Correspondences(f, 7, rng)

	rec := postJSON(t, srv.estimateHandler, "/estimate", EstimateRequest{
		Points1: pairSlices(pts1),
		Points2: pairSlices(pts2),
		Method:  "7point",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, epipolar.MethodSevenPoint, resp.Method)
	assert.GreaterOrEqual(t, resp.Candidates, 1)
	assert.LessOrEqual(t, resp.Candidates, 3)
}

func TestEstimateHandlerErrors(t *testing.T) {
	srv := newTestServer(t)

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/estimate", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		srv.estimateHandler(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty points", func(t *testing.T) {
		rec := postJSON(t, srv.estimateHandler, "/estimate", EstimateRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("size mismatch", func(t *testing.T) {
		rec := postJSON(t, srv.estimateHandler, "/estimate", EstimateRequest{
			Points1: [][2]float64{{0, 0}, {1, 1}},
			Points2: [][2]float64{{0, 0}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid method", func(t *testing.T) {
		rec := postJSON(t, srv.estimateHandler, "/estimate", EstimateRequest{
			Points1: [][2]float64{{0, 0}},
			Points2: [][2]float64{{0, 0}},
			Method:  "lmeds",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too few points for estimator", func(t *testing.T) {
		rec := postJSON(t, srv.estimateHandler, "/estimate", EstimateRequest{
			Points1: [][2]float64{{0, 0}, {1, 1}, {2, 0}},
			Points2: [][2]float64{{0, 1}, {1, 2}, {2, 1}},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp EstimateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "estimation failed")
	})

	t.Run("get not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/estimate", nil)
		rec := httptest.NewRecorder()
		srv.estimateHandler(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestEpilinesHandler(t *testing.T) {
	srv := newTestServer(t)
	rng := rand.New(rand.NewSource(13))
	f := testutil.RandomFundamental(rng)
	pts1, _ := testutil.Correspondences(f, 5, rng)

	rec := postJSON(t, srv.epilinesHandler, "/epilines", EpilinesRequest{
		Points:      pairSlices(pts1),
		Fundamental: matrixRows(f),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp EpilinesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Lines, len(pts1))
	for _, l := range resp.Lines {
		norm := math.Hypot(l[0], l[1])
		assert.InDelta(t, 1.0, norm, 1e-9)
	}
}

func TestEpilinesHandlerErrors(t *testing.T) {
	srv := newTestServer(t)

	t.Run("no points", func(t *testing.T) {
		rec := postJSON(t, srv.epilinesHandler, "/epilines", EpilinesRequest{
			Fundamental: [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad matrix shape", func(t *testing.T) {
		rec := postJSON(t, srv.epilinesHandler, "/epilines", EpilinesRequest{
			Points:      [][2]float64{{1, 2}},
			Fundamental: [][]float64{{1, 0}, {0, 1}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSetupRoutes(t *testing.T) {
	srv := newTestServer(t)
	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	t.Run("health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/estimate", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
