// Common test helpers
package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/config"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/services/relay"
	"github.com/meghashyamc/docsearch/services/search"
	"github.com/meghashyamc/docsearch/ui"
	"github.com/meghashyamc/docsearch/validation"
	"github.com/stretchr/testify/require"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

type testCase struct {
	name                string
	requestHeaders      map[string]string
	requestBody         string
	queryParams         map[string]string
	upstreamStatus      int
	upstreamContentType string
	upstreamBody        string
	expectedStatus      int
	expectedContentType string
	expectedBody        string
}

// testUpstream stands in for the search backend and remembers what it was sent.
type testUpstream struct {
	server      *httptest.Server
	mu          sync.Mutex
	status      int
	contentType string
	body        string
	received    [][]byte
}

func newTestUpstream(t *testing.T) *testUpstream {
	upstream := &testUpstream{status: http.StatusOK, contentType: "application/json", body: `{"results":[]}`}
	upstream.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestBody, _ := io.ReadAll(r.Body)

		upstream.mu.Lock()
		defer upstream.mu.Unlock()
		upstream.received = append(upstream.received, requestBody)
		w.Header().Set("Content-Type", upstream.contentType)
		w.WriteHeader(upstream.status)
		_, _ = w.Write([]byte(upstream.body))
	}))
	t.Cleanup(upstream.server.Close)

	return upstream
}

func (u *testUpstream) respondWith(status int, contentType string, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
	u.contentType = contentType
	u.body = body
}

func (u *testUpstream) requests() [][]byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([][]byte(nil), u.received...)
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) (*gin.Engine, *testUpstream) {

	t.Setenv("ENV", "test")

	upstream := newTestUpstream(t)
	t.Setenv("BACKEND_URL", upstream.server.URL)

	cfg, err := config.Load("")
	assert.NoError(err, "could not load config")

	testLogger := newTestLogger()

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")
	renderer, err := ui.NewRenderer()
	assert.NoError(err, "could not create renderer")

	relayService := relay.New(testLogger, cfg.GetBackendURL(), upstream.server.Client())
	searchService := search.New(testLogger, relayService, cfg.GetResultLimit())

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupProxy(router, testLogger, relayService)
	SetupPage(router, testLogger, NewDefaultSessionStore(searchService), renderer, validator)

	return router, upstream
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBody string, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		values := url.Values{}
		for key, value := range queryParams {
			values.Set(key, value)
		}
		endpoint = endpoint + "?" + values.Encode()
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", requestBody)

	var req *http.Request
	if len(requestBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBufferString(requestBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}
