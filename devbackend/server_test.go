package devbackend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/db/searchdb"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/services/relay"
	"github.com/meghashyamc/docsearch/services/search"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func setupTestBackend(t *testing.T, assert *require.Assertions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	testLogger := newTestLogger()

	passages, err := LoadCorpus("")
	assert.NoError(err)

	db, err := searchdb.New(testLogger)
	assert.NoError(err)
	assert.NoError(db.BuildIndex(passages))
	t.Cleanup(func() { db.Close() })

	return NewRouter(testLogger, db)
}

func TestLoadSampleCorpus(t *testing.T) {
	assert := require.New(t)

	passages, err := LoadCorpus("")
	assert.NoError(err)
	assert.Len(passages, 4)
	assert.Equal("p0001", passages[0].ID)
	assert.Equal("Fire Safety Guidance", passages[0].Title)
	assert.Equal(3, *passages[0].PageNumber)
	assert.Nil(passages[3].PageNumber)
}

func TestLoadCorpusFromFile(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	content := "passages:\n  - id: custom\n    title: Drainage\n    page_number: 1\n    text: Gullies need trapping.\n  - title: Untagged\n    text: second\n"
	assert.NoError(os.WriteFile(path, []byte(content), 0644))

	passages, err := LoadCorpus(path)
	assert.NoError(err)
	assert.Len(passages, 2)
	assert.Equal("custom", passages[0].ID)
	assert.Equal("p0002", passages[1].ID)
}

func TestLoadCorpusErrors(t *testing.T) {
	assert := require.New(t)

	_, err := LoadCorpus(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(err)

	_, err = parseCorpus([]byte("passages: [unterminated"))
	assert.Error(err)
}

var devSearchTestCases = []struct {
	name           string
	body           string
	expectedStatus int
}{
	{name: "Match", body: `{"query":"smoke alarms","limit":10}`, expectedStatus: http.StatusOK},
	{name: "NoLimit", body: `{"query":"fire"}`, expectedStatus: http.StatusOK},
	{name: "BlankQuery", body: `{"query":"   ","limit":10}`, expectedStatus: http.StatusBadRequest},
	{name: "NotJSON", body: `query=fire`, expectedStatus: http.StatusUnprocessableEntity},
}

func TestHandleSearch(t *testing.T) {
	for _, testCase := range devSearchTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			router := setupTestBackend(t, assert)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(testCase.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(testCase.expectedStatus, w.Code, fmt.Sprintf("response gotten was %s", w.Body.String()))
		})
	}
}

func TestHandleSearchResponseShape(t *testing.T) {
	assert := require.New(t)
	router := setupTestBackend(t, assert)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"ventilation","limit":5}`))
	router.ServeHTTP(w, req)
	assert.Equal(http.StatusOK, w.Code)

	var response map[string][]map[string]any
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(response["results"], 1)

	result := response["results"][0]
	assert.Equal("Ventilation Guidance", result["title"])
	assert.Contains(result, "score")
	assert.Contains(result, "text")
	assert.NotContains(result, "page_number", "passages without a page should omit it")
}

func TestRelayAgainstDevBackend(t *testing.T) {
	assert := require.New(t)
	server := httptest.NewServer(setupTestBackend(t, assert))
	defer server.Close()

	testLogger := newTestLogger()
	relayService := relay.New(testLogger, server.URL, server.Client())
	searchService := search.New(testLogger, relayService, 10)

	results, err := searchService.Search(context.Background(), "  smoke alarms ")
	assert.NoError(err)
	assert.NotEmpty(results)
	assert.Equal("Fire Safety Guidance", *results[0].Title)
	assert.Equal(7, *results[0].PageNumber)

	_, err = searchService.Search(context.Background(), "")
	assert.ErrorIs(err, search.ErrBlankQuery)

	reply, err := relayService.Forward(context.Background(), []byte(`{"query":" "}`))
	assert.NoError(err)
	assert.Equal(http.StatusBadRequest, reply.StatusCode)
	assert.JSONEq(`{"detail":"query must not be empty"}`, string(reply.Body))
}
