package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/b2p/b2p-admin/internal/constants"
)

type App struct {
	// REST backend
	APIBaseURL string        `envconfig:"API_BASE_URL"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"10s"`
	// Identity provider
	FirebaseAPIKey string `envconfig:"FIREBASE_API_KEY"`
	IdentityURL    string `envconfig:"IDENTITY_URL" default:"https://identitytoolkit.googleapis.com/v1"`
	TokenURL       string `envconfig:"TOKEN_URL" default:"https://securetoken.googleapis.com/v1/token"`
	// Local state
	ConfigDir string `envconfig:"CONFIG_DIR" default:"~/.config/b2p"`
	Debug     bool   `envconfig:"DEBUG" default:"false"`
}

// Load reads envFile (when it exists) into the process environment and then
// decodes the B2P_ prefixed variables. Variables already set in the
// environment win over the file.
func Load(envFile string) (App, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return App{}, err
		}
	}

	var c App
	if err := envconfig.Process(constants.EnvPrefix, &c); err != nil {
		return App{}, err
	}

	dir, err := ExpandHome(c.ConfigDir)
	if err != nil {
		return App{}, err
	}
	c.ConfigDir = dir
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	return c, nil
}

// CachePath is the local SQLite snapshot location.
func (c App) CachePath() string {
	return filepath.Join(c.ConfigDir, constants.DefaultCacheFile)
}

// ExpandHome resolves a leading "~" against the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
