package config

import (
	"os"
	"strconv"
	"strings"

	"marketviz/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Playback  PlaybackConfig
	Display   DisplayConfig
	Labels    LabelConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds the locations of the three input files. HistoryFile and
// CellsFile are required; BoundaryFile is optional. When RemoteBaseURL is set
// the file names are resolved against it and fetched over HTTP instead of
// read from disk.
type DataConfig struct {
	HistoryFile   string
	CellsFile     string
	BoundaryFile  string
	RemoteBaseURL string
}

// PlaybackConfig holds the initial playback parameters for new sessions.
type PlaybackConfig struct {
	AutoPlay bool
	FPS      int
	StepDays int
	Loop     bool
}

// DisplayConfig holds presentation-only options. None of these affect the
// underlying data or the playback state machine.
type DisplayConfig struct {
	PointRadius        int
	PointOpacity       float64
	ShowLegend         bool
	MapMode            string // "tiled" or "static"
	ChartsWhilePlaying bool
	SampleFraction     float64
}

// LabelConfig holds purely cosmetic numeric labels shown next to the key
// metrics. They are displayed as-is, never computed from data.
type LabelConfig struct {
	OppEntryDay  int
	TakeoverRate float64
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Data: DataConfig{
			HistoryFile:   getEnvOrDefault("HISTORY_FILE", "simulation_history.csv"),
			CellsFile:     getEnvOrDefault("CELLS_FILE", "cell_day_marketshare.csv"),
			BoundaryFile:  getEnvOrDefault("BOUNDARY_FILE", "soweto_boundary.geojson"),
			RemoteBaseURL: getEnvOrDefault("DATA_BASE_URL", ""),
		},
		Playback: PlaybackConfig{
			AutoPlay: getEnvBoolOrDefault("AUTO_PLAY", true),
			FPS:      getEnvIntOrDefault("PLAYBACK_FPS", 10),
			StepDays: getEnvIntOrDefault("PLAYBACK_STEP_DAYS", 5),
			Loop:     getEnvBoolOrDefault("PLAYBACK_LOOP", false),
		},
		Display: DisplayConfig{
			PointRadius:        getEnvIntOrDefault("POINT_RADIUS", 115),
			PointOpacity:       getEnvFloatOrDefault("POINT_OPACITY", 0.9),
			ShowLegend:         getEnvBoolOrDefault("SHOW_LEGEND", true),
			MapMode:            getEnvOrDefault("MAP_MODE", "tiled"),
			ChartsWhilePlaying: getEnvBoolOrDefault("CHARTS_WHILE_PLAYING", true),
			SampleFraction:     getEnvFloatOrDefault("SAMPLE_FRACTION", 1.0),
		},
		Labels: LabelConfig{
			OppEntryDay:  getEnvIntOrDefault("OPP_ENTRY_DAY_LABEL", 90),
			TakeoverRate: getEnvFloatOrDefault("TAKEOVER_RATE_LABEL", 0.02),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Data.HistoryFile == "" {
		return errors.ConfigInvalid("HISTORY_FILE is required")
	}
	if config.Data.CellsFile == "" {
		return errors.ConfigInvalid("CELLS_FILE is required")
	}
	if config.Playback.FPS < 1 {
		return errors.ConfigInvalid("PLAYBACK_FPS must be >= 1")
	}
	if config.Playback.StepDays < 1 {
		return errors.ConfigInvalid("PLAYBACK_STEP_DAYS must be >= 1")
	}
	if config.Display.SampleFraction <= 0 || config.Display.SampleFraction > 1 {
		return errors.ConfigInvalid("SAMPLE_FRACTION must be in (0, 1]")
	}
	switch strings.ToLower(config.Display.MapMode) {
	case "tiled", "static":
	default:
		return errors.ConfigInvalid("MAP_MODE must be 'tiled' or 'static'")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
