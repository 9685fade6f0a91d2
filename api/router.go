package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/api/handlers"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/services/relay"
	"github.com/meghashyamc/docsearch/services/search"
	"github.com/meghashyamc/docsearch/ui"
	"github.com/meghashyamc/docsearch/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, relayService *relay.Service, searchService *search.Service, renderer *ui.Renderer, validator *validation.Validator) {
	router.GET("/health", health())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Serve static UI files
	router.StaticFS("/ui", http.FS(ui.Files))

	handlers.SetupPage(router, logger, handlers.NewDefaultSessionStore(searchService), renderer, validator)
	handlers.SetupProxy(router, logger, relayService)

}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(_CORSMiddleware())

	return router
}
