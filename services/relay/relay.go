package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/metrics"
)

const (
	searchPath         = "/search"
	defaultContentType = "application/json"
	upstreamErrorBody  = "Upstream error"
)

// Reply is the upstream response as it should be written back to the caller.
type Reply struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (r *Reply) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type Service struct {
	logger     logger.Logger
	baseURL    string
	httpClient *http.Client
}

// New returns a relay to {baseURL}/search. A nil httpClient means http.DefaultClient.
func New(logger logger.Logger, baseURL string, httpClient *http.Client) *Service {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Service{
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (s *Service) URL() string {
	return s.baseURL + searchPath
}

// Forward posts body unchanged to the upstream search endpoint. Non-2xx upstream
// statuses are not errors; they come back in the Reply.
func (s *Service) Forward(ctx context.Context, body []byte) (*Reply, error) {
	start := time.Now()

	reply, err := s.forward(ctx, body)
	switch {
	case err != nil:
		metrics.RecordRelay(metrics.OutcomeProxyError, time.Since(start).Seconds())
	case !reply.OK():
		metrics.RecordRelay(metrics.OutcomeUpstreamError, time.Since(start).Seconds())
	default:
		metrics.RecordRelay(metrics.OutcomeSuccess, time.Since(start).Seconds())
	}

	return reply, err
}

func (s *Service) forward(ctx context.Context, body []byte) (*Reply, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL(), bytes.NewReader(body))
	if err != nil {
		s.logger.Error("could not build upstream request", "err", err.Error(), "url", s.URL())
		return nil, fmt.Errorf("could not build upstream request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Cache-Control", "no-store")

	response, err := s.httpClient.Do(request)
	if err != nil {
		s.logger.Warn("upstream request failed", "err", err.Error(), "url", s.URL())
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		s.logger.Warn("could not read upstream response", "err", err.Error(), "status", response.StatusCode)
		return nil, fmt.Errorf("could not read upstream response: %w", err)
	}

	contentType := response.Header.Get("Content-Type")
	if len(contentType) == 0 {
		contentType = defaultContentType
	}

	reply := &Reply{
		StatusCode:  response.StatusCode,
		ContentType: contentType,
		Body:        responseBody,
	}

	if !reply.OK() {
		s.logger.Warn("upstream returned an error status", "status", response.StatusCode)
		if len(reply.Body) == 0 {
			reply.Body = []byte(upstreamErrorBody)
		}
		return reply, nil
	}

	reply.StatusCode = http.StatusOK
	s.logger.Debug("relayed search request", "status", response.StatusCode, "bytes", len(responseBody))

	return reply, nil
}
