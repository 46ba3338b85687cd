// Package config resolves where cactolog keeps its data. Values come from
// the environment, optionally seeded from .env files, and can be overridden
// by command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/julianstephens/cactolog/internal/constants"
)

const (
	EnvDB        = "CACTOLOG_DB"
	EnvDebug     = "CACTOLOG_DEBUG"
	EnvConfigDir = "CACTOLOG_CONFIG_DIR"

	envFileName = ".env"
)

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendJSON   Backend = "json"
)

type Config struct {
	DBPath    string
	ConfigDir string
	Debug     bool
	// EnvFiles lists the .env files that were read, in load order
	EnvFiles []string
}

// Load reads .env from workDir and then from the config directory, and
// resolves the configuration. Variables already set in the environment win
// over .env values.
func Load(workDir string) (Config, error) {
	var loaded []string
	if f, err := loadEnvFile(filepath.Join(workDir, envFileName)); err != nil {
		return Config{}, err
	} else if f != "" {
		loaded = append(loaded, f)
	}

	configDir, err := resolveConfigDir()
	if err != nil {
		return Config{}, err
	}
	if f, err := loadEnvFile(filepath.Join(configDir, envFileName)); err != nil {
		return Config{}, err
	} else if f != "" {
		loaded = append(loaded, f)
	}

	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg.EnvFiles = loaded
	return cfg, nil
}

// FromEnv resolves the configuration from the current environment only.
func FromEnv() (Config, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ConfigDir: configDir,
		DBPath:    filepath.Join(configDir, constants.AppName+".db"),
	}
	if db := strings.TrimSpace(os.Getenv(EnvDB)); db != "" {
		if cfg.DBPath, err = ExpandPath(db); err != nil {
			return Config{}, err
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvDebug)); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s value %q: %w", EnvDebug, v, err)
		}
		cfg.Debug = debug
	}
	return cfg, nil
}

// WithOverrides applies command-line values on top of cfg. An empty dbPath
// keeps the resolved one.
func (c Config) WithOverrides(dbPath string, debug bool) (Config, error) {
	if dbPath != "" {
		expanded, err := ExpandPath(dbPath)
		if err != nil {
			return c, err
		}
		c.DBPath = expanded
	}
	c.Debug = c.Debug || debug
	return c, nil
}

// Backend picks the storage backend from the database path: .json selects the
// JSON file store, anything else SQLite.
func (c Config) Backend() Backend {
	if strings.EqualFold(filepath.Ext(c.DBPath), ".json") {
		return BackendJSON
	}
	return BackendSQLite
}

// DataDir is the directory holding the database, its lock and its backups.
func (c Config) DataDir() string {
	return filepath.Dir(c.DBPath)
}

func (c Config) BackupDir() string {
	return filepath.Join(c.DataDir(), constants.BackupDirName)
}

func (c Config) LockPath() string {
	return filepath.Join(c.DataDir(), constants.LockfileName)
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return filepath.Clean(path), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func resolveConfigDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvConfigDir)); dir != "" {
		return ExpandPath(dir)
	}
	return ExpandPath(filepath.Dir(constants.DefaultConfigPath))
}

func loadEnvFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("failed to load %s: %w", path, err)
	}
	return path, nil
}
