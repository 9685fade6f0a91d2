package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/config"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/services/relay"
	"github.com/meghashyamc/docsearch/services/search"
	"github.com/meghashyamc/docsearch/ui"
	"github.com/meghashyamc/docsearch/validation"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	relay      *relay.Service
	search     *search.Service
	renderer   *ui.Renderer
	validator  *validation.Validator
	logger     logger.Logger
}

type backendSettings struct {
	BackendURL string `json:"backend_url" validate:"required,valid_backend_url"`
}

func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(cfg.GetLogLevel()),
	}
	if err := s.setupDependencies(); err != nil {
		return err
	}
	s.setupRouter()

	errC := s.setupHTTPServer()

	return s.waitForShutdown(ctx, errC)
}

func (s *server) setupDependencies() error {
	var err error
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	backendURL := s.cfg.GetBackendURL()
	if err := s.validator.Validate(backendSettings{BackendURL: backendURL}); err != nil {
		s.logger.Error("backend url is not usable", "err", err.Error(), "backend_url", backendURL)
		return fmt.Errorf("backend url %q is not usable: %w", backendURL, err)
	}

	s.renderer, err = ui.NewRenderer()
	if err != nil {
		s.logger.Error("error parsing page templates", "err", err.Error())
		return err
	}

	// The zero http.Client: no cache and no timeout beyond the transport defaults.
	s.relay = relay.New(s.logger, backendURL, &http.Client{})
	s.search = search.New(s.logger, s.relay, s.cfg.GetResultLimit())

	s.logger.Info("relaying searches", "upstream", s.relay.URL(), "result_limit", s.cfg.GetResultLimit())

	return nil

}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))

	setupRoutes(router, s.logger, s.relay, s.search, s.renderer, s.validator)

	s.router = router
}

func (s *server) setupHTTPServer() <-chan error {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- fmt.Errorf("listen: %w", err)
		}
		close(errC)
	}()

	return errC
}

func (s *server) waitForShutdown(ctx context.Context, errC <-chan error) error {

	select {
	case err := <-errC:
		if err != nil {
			s.logger.Error("http server stopped", "err", err.Error())
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("starting to shut down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down http server", "err", err)
		return err
	}
	s.logger.Info("shut down http server successfully")

	return nil
}
