package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pejman93/echopulse/internal/classify"
	"github.com/pejman93/echopulse/internal/combine"
	"github.com/pejman93/echopulse/internal/config"
	"github.com/pejman93/echopulse/internal/domain"
	"github.com/pejman93/echopulse/internal/speaker"
	"github.com/pejman93/echopulse/internal/websocket"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:              "test",
		Port:                "0",
		LogLevel:            "error",
		LogFormat:           "text",
		CombinationStrategy: "weighted_average",
		PrimaryWeight:       0.6,
		CalibrationMin:      0.1,
		CalibrationMax:      5.0,
		RateLimitRPS:        1000,
		RateLimitBurst:      1000,
		MaxFeedConnections:  10,
	}
}

type failingPinger struct{ err error }

func (p failingPinger) Ping(context.Context) error { return p.err }

func newTestServer(t *testing.T, cfg *config.Config, redisPing Pinger) *Server {
	t.Helper()

	clock := clockwork.NewFakeClock()
	store := speaker.NewInMemoryStore(speaker.Bounds{Min: cfg.CalibrationMin, Max: cfg.CalibrationMax})
	classifier := classify.New(store, clock)
	combiner := combine.New(clock, cfg.PrimaryWeight)
	hub := websocket.NewHub(cfg.MaxFeedConnections)
	t.Cleanup(func() { hub.Stop() })

	srv, err := NewServer(cfg, classifier, combiner, store, hub, redisPing, clock)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestHandleClassify(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/classify",
		`{"text": "I will achieve my goals and build a better future", "score": 0.6, "speaker_id": "alice"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.ClassificationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.Hope, result.Category)
	assert.Equal(t, "alice", result.SpeakerID)
	assert.Equal(t, 0.6, result.Score)
	assert.NotEmpty(t, result.Explanation)
}

func TestHandleClassify_InvalidScore(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/classify", `{"text": "hello there", "score": 1.5}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "score")
}

func TestHandleClassify_ShortText(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/classify", `{"text": "a", "score": 0.9}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.ClassificationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.ReflectiveNeutral, result.Category)
	assert.Equal(t, 0.1, result.Confidence)
}

func TestHandleCombine(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/combine", `{
		"transformer": {"category": "hope", "score": 0.5, "confidence": 0.9},
		"llm": {"category": "sorrow", "score": -0.5, "confidence": 0.6}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.CombinationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.Hope, result.Category)
	assert.Equal(t, "weighted_average", result.Strategy)
	require.NotNil(t, result.Transformer)
	require.NotNil(t, result.LLM)
}

func TestHandleCombine_ExplicitStrategy(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/combine", `{
		"transformer": {"category": "hope", "score": 0.5, "confidence": 0.6},
		"llm": {"category": "sorrow", "score": -0.5, "confidence": 0.9},
		"strategy": "highest_confidence"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.CombinationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.Sorrow, result.Category)
	assert.Equal(t, "highest_confidence", result.Strategy)
}

func TestHandleCombine_NoSources(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/combine", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCombine_UnknownStrategy(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/combine", `{
		"transformer": {"category": "hope", "score": 0.5, "confidence": 0.9},
		"strategy": "coin_flip"
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCombine_InvalidSourceCategory(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/combine", `{
		"transformer": {"category": "euphoria", "score": 0.5, "confidence": 0.9}
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "category")
}

func TestHandleFeedback(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/feedback",
		`{"speaker_id": "alice", "category": "hope", "accuracy": 1.0}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SpeakerID string  `json:"speaker_id"`
		Category  string  `json:"category"`
		Factor    float64 `json:"calibration_factor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.SpeakerID)
	assert.Equal(t, "hope", resp.Category)
	assert.InDelta(t, 1.5, resp.Factor, 1e-9)
}

func TestHandleFeedback_InvalidAccuracy(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/feedback",
		`{"speaker_id": "alice", "category": "hope", "accuracy": 1.4}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleFeedback_UnknownCategory(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/feedback",
		`{"speaker_id": "alice", "category": "euphoria", "accuracy": 0.8}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSpeakerArc(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	// Classifications with a context window populate the arc.
	for n := 0; n < 2; n++ {
		rec := doJSON(t, srv, http.MethodPost, "/api/classify",
			`{"text": "I am so sad about everything", "score": -0.6, "speaker_id": "alice", "context_window": ["earlier"]}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/speakers/alice/arc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SpeakerID string                   `json:"speaker_id"`
		Arc       []domain.EmotionCategory `json:"arc"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.SpeakerID)
	assert.Len(t, resp.Arc, 2)
}

func TestHandleSpeakerArc_Unknown(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/speakers/nobody/arc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 1
	cfg.RateLimitBurst = 2
	srv := newTestServer(t, cfg, nil)

	body := `{"text": "thinking about things", "score": 0.0}`
	for i := 0; i < 2; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/api/classify", body)
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/classify", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Health probes are exempt.
	rec = doJSON(t, srv, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCorrelationIDHeader(t *testing.T) {
	srv := newTestServer(t, testConfig(), nil)

	rec := doJSON(t, srv, http.MethodGet, "/health/live", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Correlation-ID", "abc12345")
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	assert.Equal(t, "abc12345", rec.Header().Get("X-Correlation-ID"))
}

func TestNewServer_InvalidDefaultStrategy(t *testing.T) {
	cfg := testConfig()
	cfg.CombinationStrategy = "coin_flip"

	clock := clockwork.NewFakeClock()
	store := speaker.NewInMemoryStore(speaker.DefaultBounds())
	hub := websocket.NewHub(10)
	t.Cleanup(func() { hub.Stop() })

	_, err := NewServer(cfg, classify.New(store, clock), combine.New(clock, 0.6), store, hub, nil, clock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMBINATION_STRATEGY")
}
