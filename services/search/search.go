package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/services/relay"
)

// Relayer forwards a raw JSON request to the search backend.
type Relayer interface {
	Forward(ctx context.Context, body []byte) (*relay.Reply, error)
}

type Service struct {
	logger  logger.Logger
	relayer Relayer
	limit   int
}

func New(logger logger.Logger, relayer Relayer, limit int) *Service {
	return &Service{
		logger:  logger,
		relayer: relayer,
		limit:   limit,
	}
}

// Search sends the trimmed text to the backend and returns the results in the order
// the backend ranked them.
func (s *Service) Search(ctx context.Context, text string) ([]Result, error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return nil, ErrBlankQuery
	}

	requestBody, err := json.Marshal(Query{Text: text, Limit: s.limit})
	if err != nil {
		return nil, fmt.Errorf("could not encode search request: %w", err)
	}

	reply, err := s.relayer.Forward(ctx, requestBody)
	if err != nil {
		return nil, err
	}

	if !reply.OK() {
		s.logger.Warn("search backend returned an error", "status", reply.StatusCode, "body", string(reply.Body))
		return nil, &StatusError{StatusCode: reply.StatusCode, Body: string(reply.Body)}
	}

	var response Response
	if err := json.Unmarshal(reply.Body, &response); err != nil {
		s.logger.Warn("could not decode search response", "err", err.Error())
		return nil, fmt.Errorf("could not decode search response: %w", err)
	}

	if response.Results == nil {
		response.Results = []Result{}
	}

	return response.Results, nil
}
