package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/services/relay"
)

var errInvalidJSON = errors.New("request body is not valid JSON")

type Forwarder interface {
	Forward(ctx context.Context, body []byte) (*relay.Reply, error)
}

func SetupProxy(router *gin.Engine, logger logger.Logger, forwarder Forwarder) {
	router.POST("/api/search", handleProxy(forwarder, logger))
}

// handleProxy relays the request body to the search backend without looking inside it
// beyond checking that it is JSON.
func handleProxy(forwarder Forwarder, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			logger.Warn("could not read proxy request body", "err", err.Error())
			c.Abort()
			writeProxyError(c, err)
			return
		}

		if !json.Valid(body) {
			logger.Warn("proxy request body is not valid JSON", "bytes", len(body))
			c.Abort()
			writeProxyError(c, errInvalidJSON)
			return
		}

		reply, err := forwarder.Forward(c.Request.Context(), body)
		if err != nil {
			logger.Error("could not relay search request", "err", err.Error())
			c.Abort()
			writeProxyError(c, err)
			return
		}

		writeReply(c, reply)
	}
}
