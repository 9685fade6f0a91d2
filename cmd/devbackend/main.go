package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/meghashyamc/docsearch/config"
	"github.com/meghashyamc/docsearch/devbackend"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/spf13/cobra"
)

const (
	flagPort     = "port"
	flagCorpus   = "corpus"
	flagLogLevel = "log-level"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devbackend",
		Short: "Run a local stand-in for the document search backend",
		Long: `Serve POST /search over an in-memory index of guidance passages so the search
page can be developed without the real backend. Point BACKEND_URL at it:

  devbackend --port 8000 --corpus passages.yaml
  BACKEND_URL=http://localhost:8000 go run ./cmd

Flags left unset fall back to DEV_PORT, DEV_CORPUS_PATH and LOG_LEVEL, then to the
config file of the current ENV.`,
		SilenceUsage:      true,
		PersistentPreRunE: applyConfigDefaults,
		RunE:              runDevBackend,
	}

	cmd.Flags().String(flagPort, "", "Port to serve the backend on (default from config, 8000)")
	cmd.Flags().String(flagCorpus, "", "YAML file of passages (built-in sample when empty)")
	cmd.Flags().String(flagLogLevel, "", "Log level (debug, info, warn, error)")

	return cmd
}

// applyConfigDefaults fills every flag the user did not set from the environment and config file.
func applyConfigDefaults(cmd *cobra.Command, args []string) error {
	godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	defaults := map[string]string{
		flagPort:     cfg.GetDevPort(),
		flagCorpus:   cfg.GetDevCorpusPath(),
		flagLogLevel: cfg.GetLogLevel(),
	}
	for name, value := range defaults {
		if cmd.Flags().Changed(name) {
			continue
		}
		if err := cmd.Flags().Set(name, value); err != nil {
			return fmt.Errorf("failed to set --%s from config: %w", name, err)
		}
	}

	return nil
}

func runDevBackend(cmd *cobra.Command, args []string) error {
	logLevel, _ := cmd.Flags().GetString(flagLogLevel)
	port, _ := cmd.Flags().GetString(flagPort)
	corpusPath, _ := cmd.Flags().GetString(flagCorpus)
	log := logger.New(logLevel)

	passages, err := devbackend.LoadCorpus(corpusPath)
	if err != nil {
		log.Error("could not load corpus", "err", err.Error(), "path", corpusPath)
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	return devbackend.Run(ctx, log, fmt.Sprintf(":%s", port), passages)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
