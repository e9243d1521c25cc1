package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Sim      SimConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type AuthConfig struct {
	JWTSecret       string
	APIKey          string
	TokenTTLMinutes int
}

// SimConfig carries server-side defaults for environment sessions and
// experiment runs. Every field can be overridden per request.
type SimConfig struct {
	DefaultSteps    int
	DefaultSigmaP   float64
	MaxSessions     int
	SessionIdleMins int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	tokenTTL, err := strconv.Atoi(getEnv("AUTH_TOKEN_TTL_MINUTES", "60"))
	if err != nil {
		return nil, errors.New("invalid token ttl")
	}

	defaultSteps, err := strconv.Atoi(getEnv("SIM_DEFAULT_STEPS", "1000"))
	if err != nil {
		return nil, errors.New("invalid default steps")
	}

	defaultSigmaP, err := strconv.ParseFloat(getEnv("SIM_DEFAULT_SIGMA_P", "1.0"), 64)
	if err != nil {
		return nil, errors.New("invalid default sigma_p")
	}

	maxSessions, err := strconv.Atoi(getEnv("SIM_MAX_SESSIONS", "256"))
	if err != nil {
		return nil, errors.New("invalid max sessions")
	}

	idleMins, err := strconv.Atoi(getEnv("SIM_SESSION_IDLE_MINUTES", "30"))
	if err != nil {
		return nil, errors.New("invalid session idle minutes")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "BanditLab API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "bandit_lab"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			APIKey:          getEnv("API_KEY", ""),
			TokenTTLMinutes: tokenTTL,
		},
		Sim: SimConfig{
			DefaultSteps:    defaultSteps,
			DefaultSigmaP:   defaultSigmaP,
			MaxSessions:     maxSessions,
			SessionIdleMins: idleMins,
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Auth.APIKey == "" {
		return nil, errors.New("missing api key")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Sim.DefaultSteps <= 0 {
		return nil, errors.New("default steps must be positive")
	}

	if cfg.Sim.DefaultSigmaP <= 0 {
		return nil, errors.New("default sigma_p must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
