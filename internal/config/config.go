package config

import (
	"crossing-delta/internal/adapters/distance"
	"crossing-delta/internal/domain"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the command line tools.
type Config struct {
	AppEnv            string
	DataDir           string
	AddressPath       string
	RoutesPath        string
	MatrixBaseURL     string
	MatrixMode        string
	HTTPTimeout       time.Duration
	AllowPartialDelta bool
}

// LoadDotEnv reads .env when present. It reports whether a file was loaded.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	timeout, err := GetDuration("HTTP_TIMEOUT", distance.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	partial, err := GetBool("DELTA_ALLOW_PARTIAL", false)
	if err != nil {
		return nil, err
	}

	dataDir := Get("DATA_DIR", "data")
	return &Config{
		AppEnv:            Get("APP_ENV", "production"),
		DataDir:           dataDir,
		AddressPath:       Get("ADDRESS_PATH", filepath.Join(dataDir, "input-address.csv")),
		RoutesPath:        Get("ROUTES_PATH", ""),
		MatrixBaseURL:     Get("MATRIX_BASE_URL", distance.DefaultBaseURL),
		MatrixMode:        Get("MATRIX_MODE", distance.DefaultMode),
		HTTPTimeout:       timeout,
		AllowPartialDelta: partial,
	}, nil
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetBool(key string, fallback bool) (bool, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &domain.ConfigurationError{Key: key, Reason: fmt.Sprintf("invalid boolean %q", v)}
	}
	return b, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, &domain.ConfigurationError{Key: key, Reason: fmt.Sprintf("invalid duration %q", v)}
	}
	return d, nil
}

const DefaultAPIKeyFile = "google-maps-api-key.txt"

// APIKey returns the routing credential from GOOGLE_MAPS_API_KEY, or from
// the file named by GOOGLE_MAPS_API_KEY_FILE.
func APIKey() (string, error) {
	if k := Get("GOOGLE_MAPS_API_KEY", ""); k != "" {
		return k, nil
	}

	path := Get("GOOGLE_MAPS_API_KEY_FILE", DefaultAPIKeyFile)
	b, err := os.ReadFile(path)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, os.ErrNotExist) {
			reason = fmt.Sprintf("set GOOGLE_MAPS_API_KEY or create key file %q", path)
		}
		return "", &domain.ConfigurationError{Key: "GOOGLE_MAPS_API_KEY_FILE", Reason: reason}
	}

	k := strings.TrimSpace(string(b))
	if k == "" {
		return "", &domain.ConfigurationError{Key: "GOOGLE_MAPS_API_KEY_FILE", Reason: fmt.Sprintf("key file %q is empty", path)}
	}
	return k, nil
}
