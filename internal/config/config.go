package config

import "time"

// Default configuration values.
const (
	defaultServiceName     = "exoscout"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8090
	defaultArchiveURL      = "https://exoplanetarchive.ipac.caltech.edu/TAP/sync"
	defaultArchiveTimeout  = 30 * time.Second
	defaultArchiveRPS      = 10
	defaultCutoutURL       = "https://mast.stsci.edu/tesscut/api/v0.1/astrocut"
	defaultCutoutTimeout   = 60 * time.Second
	defaultModelsDir       = "models"
	defaultCacheTTL        = time.Hour
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 30 * time.Second
)

// Config holds all configuration for the ExoScout service.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Cutout     CutoutConfig     `yaml:"cutout"`
	Lightcurve LightcurveConfig `yaml:"lightcurve"`
	Models     ModelsConfig     `yaml:"models"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `env:"EXOSCOUT_PORT" yaml:"port"`
	Debug           bool          `env:"APP_DEBUG"     yaml:"debug"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ArchiveConfig holds NASA Exoplanet Archive TAP endpoint configuration.
type ArchiveConfig struct {
	BaseURL string        `env:"NASA_EXOPLANET_ARCHIVE_URL" yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// RPS limits outbound TAP queries per second; Burst defaults to RPS.
	RPS   int `yaml:"rps"`
	Burst int `yaml:"burst"`
}

// CutoutConfig holds the TESSCut cutout service configuration.
type CutoutConfig struct {
	BaseURL string        `env:"TESSCUT_API_URL" yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LightcurveConfig holds the photometry mirror configuration. Lightcurve
// endpoints are disabled when BaseURL is empty.
type LightcurveConfig struct {
	BaseURL string `env:"PHOTOMETRY_API_URL" yaml:"base_url"`
}

// ModelsConfig holds trained model artifact configuration.
type ModelsConfig struct {
	Dir string `env:"MODELS_DIR" yaml:"dir"`
}

// CacheConfig holds archive-response cache configuration. When RedisAddr is
// empty an in-process store is used.
type CacheConfig struct {
	RedisAddr     string        `env:"REDIS_ADDR"     yaml:"redis_addr"`
	RedisPassword string        `env:"REDIS_PASSWORD" yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `env:"CACHE_TTL"      yaml:"ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `env:"LOG_LEVEL" yaml:"level"`
	Development bool   `yaml:"development"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	s := &cfg.Service
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = defaultShutdownTimeout
	}

	a := &cfg.Archive
	if a.BaseURL == "" {
		a.BaseURL = defaultArchiveURL
	}
	if a.Timeout == 0 {
		a.Timeout = defaultArchiveTimeout
	}
	if a.RPS == 0 {
		a.RPS = defaultArchiveRPS
	}
	if a.Burst == 0 {
		a.Burst = a.RPS
	}

	c := &cfg.Cutout
	if c.BaseURL == "" {
		c.BaseURL = defaultCutoutURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaultCutoutTimeout
	}

	if cfg.Models.Dir == "" {
		cfg.Models.Dir = defaultModelsDir
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = defaultCacheTTL
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
}
