package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/services/relay"
)

const proxyErrorMessage = "Proxy error"

type proxyErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func writeProxyError(c *gin.Context, err error) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusInternalServerError, proxyErrorResponse{
		Message: proxyErrorMessage,
		Error:   err.Error(),
	})
}

func writeReply(c *gin.Context, reply *relay.Reply) {
	c.Header("Cache-Control", "no-store")
	c.Data(reply.StatusCode, reply.ContentType, reply.Body)
}
