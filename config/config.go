package config

import (
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	DefaultPlacesBaseURL           = "https://maps.googleapis.com/maps/api"
	DefaultPlacesTimeoutSeconds    = 10
	DefaultPlacesRequestsPerSecond = 10
	DefaultEnrichmentWorkers       = 4
)

type Config struct {
	GeneralVersion          string  `mapstructure:"GENERAL_VERSION"`
	Environment             string  `mapstructure:"ENVIRONMENT"`
	ServerPort              int     `mapstructure:"SERVER_PORT"`
	DatabaseDriver          string  `mapstructure:"DB_DRIVER"`
	DatabaseHost            string  `mapstructure:"DB_HOST"`
	DatabasePort            int     `mapstructure:"DB_PORT"`
	DatabaseName            string  `mapstructure:"DB_NAME"`
	DatabaseUser            string  `mapstructure:"DB_USER"`
	DatabasePassword        string  `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress    string  `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort       int     `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset      int     `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins        string  `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret               string  `mapstructure:"JWT_SECRET"`
	SchedulerEnabled        bool    `mapstructure:"SCHEDULER_ENABLED"`
	GooglePlacesAPIKey      string  `mapstructure:"GOOGLE_PLACES_API_KEY"`
	GooglePlacesBaseURL     string  `mapstructure:"GOOGLE_PLACES_BASE_URL"`
	PlacesTimeoutSeconds    int     `mapstructure:"PLACES_TIMEOUT_SECONDS"`
	PlacesRequestsPerSecond float64 `mapstructure:"PLACES_REQUESTS_PER_SECOND"`
	EnrichmentWorkers       int     `mapstructure:"ENRICHMENT_WORKERS"`
}

var ConfigInstance Config

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_DRIVER", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS", "JWT_SECRET", "SCHEDULER_ENABLED",
	"GOOGLE_PLACES_API_KEY", "GOOGLE_PLACES_BASE_URL", "PLACES_TIMEOUT_SECONDS", "PLACES_REQUESTS_PER_SECOND",
	"ENRICHMENT_WORKERS",
}

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")
	log.Info("Initializing config")

	// Enable automatic environment variable reading first
	viper.AutomaticEnv()

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	viper.SetDefault("DB_DRIVER", DriverPostgres)
	viper.SetDefault("DB_CACHE_RESET", -1)
	viper.SetDefault("GOOGLE_PLACES_BASE_URL", DefaultPlacesBaseURL)
	viper.SetDefault("PLACES_TIMEOUT_SECONDS", DefaultPlacesTimeoutSeconds)
	viper.SetDefault("PLACES_REQUESTS_PER_SECOND", DefaultPlacesRequestsPerSecond)
	viper.SetDefault("ENRICHMENT_WORKERS", DefaultEnrichmentWorkers)

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		// Load .env.local overrides if it exists
		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(&config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"serverPort", config.ServerPort,
		"placesEnabled", config.PlacesEnabled(),
		"schedulerEnabled", config.SchedulerEnabled,
	)

	ConfigInstance = config
	return config, nil
}

func GetConfig() Config {
	return ConfigInstance
}

// PlacesEnabled reports whether a places API credential is configured.
func (c Config) PlacesEnabled() bool {
	return c.GooglePlacesAPIKey != ""
}

func (c Config) PlacesTimeout() time.Duration {
	return time.Duration(c.PlacesTimeoutSeconds) * time.Second
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "test"
}

func validateConfig(config *Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	switch config.DatabaseDriver {
	case "":
		config.DatabaseDriver = DriverPostgres
	case DriverPostgres, DriverSQLite:
	default:
		return log.Error("Fatal error: unsupported database driver", "driver", config.DatabaseDriver)
	}

	if config.JWTSecret == "" && !config.IsDevelopment() {
		return log.ErrMsg("Fatal error: JWT_SECRET required outside development")
	}

	if config.GooglePlacesBaseURL == "" {
		config.GooglePlacesBaseURL = DefaultPlacesBaseURL
	}
	if config.PlacesTimeoutSeconds <= 0 {
		config.PlacesTimeoutSeconds = DefaultPlacesTimeoutSeconds
	}
	if config.PlacesRequestsPerSecond <= 0 {
		config.PlacesRequestsPerSecond = DefaultPlacesRequestsPerSecond
	}
	if config.EnrichmentWorkers <= 0 {
		config.EnrichmentWorkers = DefaultEnrichmentWorkers
	}

	if !config.PlacesEnabled() {
		log.Warn("GOOGLE_PLACES_API_KEY not configured, places lookups are disabled")
	}

	return nil
}
