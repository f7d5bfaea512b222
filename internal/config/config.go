package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Log      LogConfig
	Calendar CalendarConfig
	MCP      MCPConfig
}

type ServerConfig struct {
	Port int
	// Token, when set, is required as a bearer token by the HTTP API.
	Token string
}

type StorageConfig struct {
	DataDir string
	// ReloadSeconds is how often serve checks the database for writes made
	// by other ptm processes. Zero disables the check.
	ReloadSeconds int
}

type LogConfig struct {
	Level string
}

type CalendarConfig struct {
	MaxDots int
}

type MCPConfig struct {
	Enabled bool
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4100,
		},
		Storage: StorageConfig{
			DataDir:       defaultDataDir(),
			ReloadSeconds: 2,
		},
		Log: LogConfig{
			Level: "info",
		},
		Calendar: CalendarConfig{
			MaxDots: 3,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
	}
}

// DotEnvFile is read from the working directory before environment
// overrides are applied. Variables already set in the environment win.
const DotEnvFile = ".env"

// Load reads configuration from the platform-native backend, a .env file
// and environment variables.
//
// On macOS the backend is UserDefaults (domain: com.ptm.app).
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/ptm/config.json.
//
// Environment variables (PTM_*) override backend values on all platforms.
func Load() (Config, error) {
	loadDotEnv(DotEnvFile)
	return loadWith(newPlatformBackend())
}

func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "[WARN] could not read %s: %v. Ignoring it.\n", path, err)
	}
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port %d out of range 1-65535", c.Server.Port)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("invalid config: storage.data_dir is empty")
	}
	if c.Storage.ReloadSeconds < 0 {
		return fmt.Errorf("invalid config: storage.reload_seconds must not be negative, got %d", c.Storage.ReloadSeconds)
	}
	if c.Calendar.MaxDots < 1 {
		return fmt.Errorf("invalid config: calendar.max_dots must be at least 1, got %d", c.Calendar.MaxDots)
	}
	return nil
}
