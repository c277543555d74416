// internal/api/handler_test.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage-service/internal/common/cache"
	"triage-service/internal/common/config"
	"triage-service/internal/common/logger"
	"triage-service/internal/llm"
	"triage-service/internal/triage/answer"
	"triage-service/internal/triage/taxonomy"
)

const validRouterJSON = `{
	"domain": "plumbing",
	"decision_type": "diagnose",
	"risk_level": "medium",
	"posture": ["explainer", "risk_manager"],
	"assumptions": [],
	"must_include": [],
	"clarifying_questions": [],
	"tooling": {"needs_local_resources": false, "needs_citations": false}
}`

func completeAnswer() string {
	var b strings.Builder
	for _, section := range answer.RequiredSections {
		b.WriteString(section + "\ncontent\n")
	}
	return b.String()
}

// stubFactory hands out fixed clients per purpose.
type stubFactory struct {
	router llm.Client
	answer llm.Client
	err    error
	calls  int
}

func (s *stubFactory) Client(_ string, purpose llm.Purpose) (llm.Client, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if purpose == llm.PurposeAnswer {
		return s.answer, nil
	}
	return s.router, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080},
		Providers: config.ProvidersConfig{
			Default: llm.ProviderVendorA,
			OpenAI:  config.ProviderConfig{APIKey: "sk-test"},
		},
		Cache: config.CacheConfig{
			DefaultTTL:    time.Minute,
			SweepInterval: time.Minute,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, factory ClientFactory) *httptest.Server {
	t.Helper()
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	t.Cleanup(func() { c.Close() })
	h := NewHandler(cfg, factory, c, logger.NewTestLogger(t))
	srv := httptest.NewServer(NewServer(h))
	t.Cleanup(srv.Close)
	return srv
}

func postTriage(t *testing.T, srv *httptest.Server, body string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/triage", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestTriage_EmptyMessageRejectedBeforeProviderCall(t *testing.T) {
	factory := &stubFactory{}
	srv := newTestServer(t, testConfig(), factory)

	for _, body := range []string{`{}`, `{"message": ""}`, `{"message": "   "}`} {
		resp, raw := postTriage(t, srv, body, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", body)

		var e ErrorResponse
		require.NoError(t, json.Unmarshal(raw, &e))
		assert.NotEmpty(t, e.RequestID)
		assert.Contains(t, e.Message, "message")
	}

	assert.Zero(t, factory.calls, "no provider client should be constructed for rejected input")
}

func TestTriage_UnknownProviderOrMode(t *testing.T) {
	srv := newTestServer(t, testConfig(), &stubFactory{})

	resp, _ := postTriage(t, srv, `{"message": "help", "provider": "vendor-c"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postTriage(t, srv, `{"message": "help", "mode": "landlord"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTriage_HappyPath(t *testing.T) {
	factory := &stubFactory{
		router: llm.NewMockText(validRouterJSON),
		answer: llm.NewMockText(completeAnswer()),
	}
	srv := newTestServer(t, testConfig(), factory)

	resp, raw := postTriage(t, srv, `{"message": "my sink is leaking"}`, map[string]string{
		"X-Request-ID": "req-123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", raw)

	var tr TriageResponse
	require.NoError(t, json.Unmarshal(raw, &tr))

	assert.Equal(t, "req-123", tr.RequestID)
	assert.Equal(t, taxonomy.DomainPlumbing, tr.Router.Domain)
	assert.Equal(t, 0, tr.Metadata.RouterRetries)
	assert.Equal(t, 60, tr.Metadata.TotalUsage.TotalTokens)
	assert.Contains(t, tr.AnswerMarkdown, "## Immediate Actions")
	assert.GreaterOrEqual(t, tr.Metadata.TotalLatencyMs, tr.Metadata.RouterLatencyMs)
}

func TestTriage_RouterFailureStillSucceedsWithDefault(t *testing.T) {
	factory := &stubFactory{
		router: llm.NewMockClient([]*llm.Response{nil}, []error{errors.New("provider down")}),
		answer: llm.NewMockText(completeAnswer()),
	}
	srv := newTestServer(t, testConfig(), factory)

	resp, raw := postTriage(t, srv, `{"message": "mystery noise in the walls"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tr TriageResponse
	require.NoError(t, json.Unmarshal(raw, &tr))
	assert.Equal(t, 2, tr.Metadata.RouterRetries)
	assert.Equal(t, taxonomy.DomainGeneral, tr.Router.Domain)
	assert.Equal(t, taxonomy.RiskMedium, tr.Router.RiskLevel)
}

func TestTriage_AnswerFailureIsServerError(t *testing.T) {
	factory := &stubFactory{
		router: llm.NewMockText(validRouterJSON),
		answer: llm.NewMockClient([]*llm.Response{nil}, []error{errors.New("rate limit: secret internal detail")}),
	}
	srv := newTestServer(t, testConfig(), factory)

	resp, raw := postTriage(t, srv, `{"message": "my sink is leaking"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var e ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.Equal(t, "internal_error", e.Error)
	assert.NotEmpty(t, e.RequestID)
	assert.NotContains(t, string(raw), "secret internal detail")
}

func TestTriage_CacheServesSecondRequest(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = true
	factory := &stubFactory{
		router: llm.NewMockText(validRouterJSON),
		answer: llm.NewMockText(completeAnswer()),
	}
	srv := newTestServer(t, cfg, factory)

	_, _ = postTriage(t, srv, `{"message": "my sink is leaking"}`, nil)
	callsAfterFirst := factory.calls

	resp, raw := postTriage(t, srv, `{"message": "my sink is leaking"}`, map[string]string{
		"X-Request-ID": "req-cached",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tr TriageResponse
	require.NoError(t, json.Unmarshal(raw, &tr))
	assert.True(t, tr.Metadata.Cached)
	assert.Equal(t, "req-cached", tr.RequestID, "cached responses carry the current correlation id")
	assert.Equal(t, callsAfterFirst, factory.calls, "no provider calls on a cache hit")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testConfig(), &stubFactory{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var h HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, "ok", h.Status)
	assert.True(t, h.Config.Valid)
	assert.NotEmpty(t, h.Timestamp)
}

func TestHealth_NoCredentialConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Providers.OpenAI.APIKey = ""
	srv := newTestServer(t, cfg, &stubFactory{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var h HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, "ok", h.Status)
	assert.False(t, h.Config.Valid)
	assert.Contains(t, h.Config.Errors, "no provider credential configured")
}
