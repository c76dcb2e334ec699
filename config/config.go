package config

import (
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

const (
	DEFAULT_SESSION_TTL_HOURS          = 336
	DEFAULT_ADMIN_IDLE_TIMEOUT_SECONDS = 300
	DEFAULT_LOGIN_MAX_ATTEMPTS         = 5
	DEFAULT_LOGIN_LOCKOUT_MINUTES      = 10
	DEFAULT_UPLOAD_DIR                 = "uploads"
	MIN_SESSION_SECRET_LENGTH          = 32
)

type Config struct {
	GeneralVersion          string `mapstructure:"GENERAL_VERSION"`
	Environment             string `mapstructure:"ENVIRONMENT"`
	ServerPort              int    `mapstructure:"SERVER_PORT"`
	DatabaseHost            string `mapstructure:"DB_HOST"`
	DatabasePort            int    `mapstructure:"DB_PORT"`
	DatabaseName            string `mapstructure:"DB_NAME"`
	DatabaseUser            string `mapstructure:"DB_USER"`
	DatabasePassword        string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress    string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort       int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset      int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins        string `mapstructure:"CORS_ALLOW_ORIGINS"`
	SessionSecret           string `mapstructure:"SESSION_SECRET"`
	SessionTTLHours         int    `mapstructure:"SESSION_TTL_HOURS"`
	AdminIdleTimeoutSeconds int    `mapstructure:"ADMIN_IDLE_TIMEOUT_SECONDS"`
	LoginMaxAttempts        int    `mapstructure:"LOGIN_MAX_ATTEMPTS"`
	LoginLockoutMinutes     int    `mapstructure:"LOGIN_LOCKOUT_MINUTES"`
	SchedulerEnabled        bool   `mapstructure:"SCHEDULER_ENABLED"`
	UploadDir               string `mapstructure:"UPLOAD_DIR"`
	AdminUsername           string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword           string `mapstructure:"ADMIN_PASSWORD"`
}

var ConfigInstance Config

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
		"CORS_ALLOW_ORIGINS",
		"SESSION_SECRET", "SESSION_TTL_HOURS", "ADMIN_IDLE_TIMEOUT_SECONDS",
		"LOGIN_MAX_ATTEMPTS", "LOGIN_LOCKOUT_MINUTES",
		"SCHEDULER_ENABLED", "UPLOAD_DIR", "ADMIN_USERNAME", "ADMIN_PASSWORD",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	viper.SetDefault("SESSION_TTL_HOURS", DEFAULT_SESSION_TTL_HOURS)
	viper.SetDefault("ADMIN_IDLE_TIMEOUT_SECONDS", DEFAULT_ADMIN_IDLE_TIMEOUT_SECONDS)
	viper.SetDefault("LOGIN_MAX_ATTEMPTS", DEFAULT_LOGIN_MAX_ATTEMPTS)
	viper.SetDefault("LOGIN_LOCKOUT_MINUTES", DEFAULT_LOGIN_LOCKOUT_MINUTES)
	viper.SetDefault("UPLOAD_DIR", DEFAULT_UPLOAD_DIR)
	viper.SetDefault("DB_CACHE_RESET", -1)

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

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"serverPort", config.ServerPort,
		"schedulerEnabled", config.SchedulerEnabled,
	)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return DEFAULT_SESSION_TTL_HOURS * time.Hour
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c Config) AdminIdleTimeout() time.Duration {
	if c.AdminIdleTimeoutSeconds <= 0 {
		return DEFAULT_ADMIN_IDLE_TIMEOUT_SECONDS * time.Second
	}
	return time.Duration(c.AdminIdleTimeoutSeconds) * time.Second
}

func (c Config) LoginLockout() time.Duration {
	if c.LoginLockoutMinutes <= 0 {
		return DEFAULT_LOGIN_LOCKOUT_MINUTES * time.Minute
	}
	return time.Duration(c.LoginLockoutMinutes) * time.Minute
}

func (c Config) MaxLoginAttempts() int {
	if c.LoginMaxAttempts <= 0 {
		return DEFAULT_LOGIN_MAX_ATTEMPTS
	}
	return c.LoginMaxAttempts
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.SessionSecret == "" {
		return log.ErrMsg("Fatal error: SESSION_SECRET is required")
	}

	if !config.IsDevelopment() && len(config.SessionSecret) < MIN_SESSION_SECRET_LENGTH {
		return log.Error(
			"Fatal error: SESSION_SECRET too short",
			"minLength", MIN_SESSION_SECRET_LENGTH,
		)
	}

	if (config.AdminUsername == "") != (config.AdminPassword == "") {
		return log.ErrMsg("Fatal error: ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}

	ConfigInstance = config
	return nil
}
