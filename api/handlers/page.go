package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/metrics"
	"github.com/meghashyamc/docsearch/services/search"
	"github.com/meghashyamc/docsearch/ui"
	"github.com/meghashyamc/docsearch/validation"
)

type PageRequest struct {
	Query string `form:"query" validate:"valid_query,max=1000"`
}

func SetupPage(router *gin.Engine, logger logger.Logger, sessions *SessionStore, renderer *ui.Renderer, validator *validation.Validator) {
	router.GET("/", handlePage(sessions, renderer, logger, validator))
}

func handlePage(sessions *SessionStore, renderer *ui.Renderer, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := PageRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from page request", "err", err.Error())
			c.Abort()
			writePage(c, renderer, logger, http.StatusUnprocessableEntity, ui.Page{Error: "failed to read the search query"})
			return
		}

		// Blank searches render the idle page and never reach the backend.
		if len(strings.TrimSpace(request.Query)) == 0 {
			writePage(c, renderer, logger, http.StatusOK, ui.Page{})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate page request", "err", err.Error())
			c.Abort()
			writePage(c, renderer, logger, http.StatusNotAcceptable, ui.Page{Query: request.Query, Error: err.Error()})
			return
		}

		session := sessions.Session(c)
		state, err := session.Submit(c.Request.Context(), request.Query)
		if err != nil {
			logger.Warn("search from page failed", "err", err.Error(), "query", state.Query)
			metrics.RecordPageSearch(pageSearchStatus(err))
		} else {
			metrics.RecordPageSearch("ok")
		}

		writePage(c, renderer, logger, http.StatusOK, ui.NewPage(state))
	}
}

func pageSearchStatus(err error) string {
	switch {
	case errors.Is(err, search.ErrFailed):
		return "upstream_error"
	case errors.Is(err, search.ErrStale):
		return "stale"
	default:
		return "error"
	}
}

func writePage(c *gin.Context, renderer *ui.Renderer, logger logger.Logger, statusCode int, page ui.Page) {
	var buf bytes.Buffer
	if err := renderer.Render(&buf, page); err != nil {
		logger.Error("could not render search page", "err", err.Error())
		c.String(http.StatusInternalServerError, "could not render page")
		return
	}

	c.Data(statusCode, "text/html; charset=utf-8", buf.Bytes())
}
