package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultPort        = "8080"
	defaultBackendURL  = "https://c814b2903a2b.ngrok-free.app"
	defaultResultLimit = 10
	defaultLogLevel    = "info"
	defaultDevPort     = "8000"
)

type Config struct {
	config *viper.Viper
}

func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	viperConfig.SetDefault("server.port", defaultPort)
	viperConfig.SetDefault("backend.url", defaultBackendURL)
	viperConfig.SetDefault("search.result_limit", defaultResultLimit)
	viperConfig.SetDefault("log.level", defaultLogLevel)
	viperConfig.SetDefault("devbackend.port", defaultDevPort)

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func (c *Config) GetPort() string {
	port := c.config.GetString("PORT")
	if len(port) == 0 {
		port = c.config.GetString("server.port")
	}

	return port
}

// GetBackendURL returns the base URL of the upstream search service, without a trailing slash.
func (c *Config) GetBackendURL() string {
	backendURL := c.config.GetString("BACKEND_URL")
	if len(backendURL) == 0 {
		backendURL = c.config.GetString("backend.url")
	}

	return strings.TrimRight(backendURL, "/")
}

func (c *Config) GetResultLimit() int {
	limit := c.config.GetInt("RESULT_LIMIT")
	if limit <= 0 {
		limit = c.config.GetInt("search.result_limit")
	}
	if limit <= 0 {
		limit = defaultResultLimit
	}

	return limit
}

func (c *Config) GetLogLevel() string {
	level := c.config.GetString("LOG_LEVEL")
	if len(level) == 0 {
		level = c.config.GetString("log.level")
	}

	return level
}

func (c *Config) GetDevCorpusPath() string {
	corpusPath := c.config.GetString("DEV_CORPUS_PATH")
	if len(corpusPath) == 0 {
		corpusPath = c.config.GetString("devbackend.corpus_path")
	}

	return corpusPath
}

func (c *Config) GetDevPort() string {
	port := c.config.GetString("DEV_PORT")
	if len(port) == 0 {
		port = c.config.GetString("devbackend.port")
	}

	return port
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
