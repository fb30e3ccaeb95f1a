// Package config resolves process configuration from an optional .env file
// and CARDSCAN_* environment variables.
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"card-scanner/internal/phash"
	"card-scanner/internal/recognize"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvFileVar           = "CARDSCAN_ENV"
	ItemsPathVar         = "CARDSCAN_ITEMS"
	HashesPathVar        = "CARDSCAN_HASHES"
	TemplateDirVar       = "CARDSCAN_TEMPLATES"
	IdentityThresholdVar = "CARDSCAN_IDENTITY_THRESHOLD"
	DistanceFloorVar     = "CARDSCAN_DISTANCE_FLOOR"
	WorkersVar           = "CARDSCAN_WORKERS"
	OCRFallbackVar       = "CARDSCAN_OCR"
	VerboseVar           = "CARDSCAN_VERBOSE"
)

// Config holds the settings shared by the commands. Command-line flags
// override it.
type Config struct {
	ItemsPath   string // catalog items JSON
	HashesPath  string // hash catalog JSON
	TemplateDir string // template PNG override directory, empty for built-in

	// Identity matches must score below IdentityThreshold. Per-channel
	// distances at or below DistanceFloor count as 1, so a floor of 0 only
	// lifts exact channel matches.
	IdentityThreshold uint64
	DistanceFloor     uint64

	Workers     int  // classification goroutines, 0 for one per CPU
	OCRFallback bool // read unreadable points badges with Tesseract
	Verbose     bool

	// .env file that was loaded, empty if none
	EnvPath string
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		IdentityThreshold: phash.DefaultThreshold,
		DistanceFloor:     phash.DefaultFloor,
	}
}

// Load reads configuration in priority order:
// 1) variables already in the environment
// 2) .env in the working directory, or the file named by CARDSCAN_ENV
// Existing environment variables are never overwritten by the file.
func Load() (*Config, error) {
	envPath := resolveEnvPath()
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	cfg.EnvPath = envPath
	cfg.ItemsPath = strings.TrimSpace(os.Getenv(ItemsPathVar))
	cfg.HashesPath = strings.TrimSpace(os.Getenv(HashesPathVar))
	cfg.TemplateDir = strings.TrimSpace(os.Getenv(TemplateDirVar))
	cfg.IdentityThreshold = getUint(IdentityThresholdVar, cfg.IdentityThreshold, 1)
	cfg.DistanceFloor = getUint(DistanceFloorVar, cfg.DistanceFloor, 0)
	if v := os.Getenv(WorkersVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	cfg.OCRFallback = getBool(OCRFallbackVar)
	cfg.Verbose = getBool(VerboseVar)
	return cfg, nil
}

// EngineOptions applies the configuration to the default engine options.
func (c *Config) EngineOptions() recognize.Options {
	opts := recognize.DefaultOptions().WithWorkers(c.Workers)
	opts.Classify = opts.Classify.
		WithIdentityThreshold(c.IdentityThreshold).
		WithDistanceFloor(c.DistanceFloor)
	opts.Verbose = c.Verbose
	return opts
}

// Templates returns the template directory as a file system, or nil when
// the built-in templates should be used.
func (c *Config) Templates() fs.FS {
	if c.TemplateDir == "" {
		return nil
	}
	return os.DirFS(c.TemplateDir)
}

func resolveEnvPath() string {
	if alt := os.Getenv(EnvFileVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	local := filepath.Join(wd, ".env")
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return ""
}

// getUint reads an unsigned variable, keeping def when it is unset, invalid
// or below minimum.
func getUint(key string, def, minimum uint64) uint64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n >= minimum {
			return n
		}
	}
	return def
}

func getBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
