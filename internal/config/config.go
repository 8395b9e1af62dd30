// Package config loads the application configuration from environment
// variables, with optional .env autoloading.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultMongoURI       = "mongodb://localhost:27017/"
	defaultDatabaseName   = "github_data"
	defaultOwner          = "octocat"
	defaultConnectTimeout = 5 * time.Second
	defaultPerPage        = 100
)

// ErrMissingToken is returned by RequireToken when GITHUB_TOKEN is unset.
var ErrMissingToken = errors.New("GITHUB_TOKEN environment variable is required")

// Config holds everything the commands need to talk to GitHub and MongoDB.
type Config struct {
	// GitHubToken authenticates API requests. Required for collection,
	// unused by bootstrap and the read-only stats commands.
	GitHubToken string
	// GitHubBaseURL overrides the API endpoint (GitHub Enterprise, tests).
	// Empty means api.github.com.
	GitHubBaseURL string
	// Owner is the default account or organization to collect.
	Owner string

	MongoURI     string
	DatabaseName string
	// ConnectTimeout bounds server selection when opening the Mongo client.
	ConnectTimeout time.Duration
	// PerPage is the page size used for every paginated GitHub listing.
	PerPage int
}

// Load reads the configuration from the environment. A .env file in the
// working directory is merged in first, if present; real environment
// variables win over file entries.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		GitHubToken:    os.Getenv("GITHUB_TOKEN"),
		GitHubBaseURL:  os.Getenv("GITHUB_BASE_URL"),
		Owner:          getEnv("GITHUB_OWNER", defaultOwner),
		MongoURI:       getEnv("MONGODB_URI", defaultMongoURI),
		DatabaseName:   getEnv("DATABASE_NAME", defaultDatabaseName),
		ConnectTimeout: getDurationEnv("MONGODB_CONNECT_TIMEOUT", defaultConnectTimeout),
		PerPage:        defaultPerPage,
	}
}

// RequireToken validates that a GitHub token is configured.
func (c Config) RequireToken() error {
	if c.GitHubToken == "" {
		return ErrMissingToken
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
