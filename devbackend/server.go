// Package devbackend serves a stand-in for the document search backend, backed by an
// in-memory index, so the search page can be run without the real service.
package devbackend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/db/searchdb"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/services/search"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, db searchdb.DB) {
	router.POST("/search", handleSearch(db, logger))
}

func handleSearch(db searchdb.DB, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := searchRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not decode search request", "err", err.Error())
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{Detail: "request body must be JSON with a query"})
			return
		}

		query := strings.TrimSpace(request.Query)
		if len(query) == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Detail: "query must not be empty"})
			return
		}

		limit := request.Limit
		if limit <= 0 {
			limit = defaultLimit
		}
		limit = min(limit, maxLimit)

		response, err := db.Search(query, limit)
		if err != nil {
			logger.Error("search failed", "err", err.Error())
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Detail: err.Error()})
			return
		}

		c.JSON(http.StatusOK, search.Response{Results: toResults(response.Results)})
	}
}

func toResults(hits []searchdb.Result) []search.Result {
	results := make([]search.Result, len(hits))
	for i, hit := range hits {
		results[i] = search.Result{
			Score:      hit.Score,
			PageNumber: hit.PageNumber,
		}
		if len(hit.Title) > 0 {
			title := hit.Title
			results[i].Title = &title
		}
		if len(hit.Text) > 0 {
			text := hit.Text
			results[i].Text = &text
		}
	}
	return results
}

func NewRouter(logger logger.Logger, db searchdb.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	SetupSearch(router, logger, db)
	return router
}

// Run indexes passages and serves them on addr until ctx is done.
func Run(ctx context.Context, logger logger.Logger, addr string, passages []searchdb.Passage) error {
	db, err := searchdb.New(logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.BuildIndex(passages); err != nil {
		return fmt.Errorf("could not index corpus: %w", err)
	}
	logger.Info("indexed corpus", "passages", len(passages))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: NewRouter(logger, db).Handler(),
	}

	errC := make(chan error, 1)
	go func() {
		logger.Info("starting development search backend", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
