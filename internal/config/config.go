package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Match    MatchConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	// DefaultCandidateLimit and MaxCandidateLimit bound the active-job scan.
	DefaultCandidateLimit = 500
	MaxCandidateLimit     = 5000

	defaultCacheTTL = 15 * time.Minute
)

type MatchConfig struct {
	WeightSkill    float64
	WeightSalary   float64
	WeightLocation float64
	WeightRemote   float64
	WeightIndustry float64

	CacheTTL       time.Duration
	CacheBackend   string
	CandidateLimit int
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads configuration from the environment, after an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = LoadDatabase()
	cfg.Redis = LoadRedis()
	cfg.Match = LoadMatch()
	cfg.Log = LoadLog()

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func LoadLog() LogConfig {
	return LogConfig{
		JSON:  optBool("LOG_JSON", false),
		Debug: optBool("LOG_DEBUG", false),
	}
}

func LoadDatabase() DatabaseConfig {
	return DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  optDefault("DB_SSL_MODE", "disable"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 0),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}
}

func LoadRedis() RedisConfig {
	return RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),
	}
}

func LoadMatch() MatchConfig {
	m := MatchConfig{
		WeightSkill:    optFloat("MATCH_WEIGHT_SKILL", 0.40),
		WeightSalary:   optFloat("MATCH_WEIGHT_SALARY", 0.20),
		WeightLocation: optFloat("MATCH_WEIGHT_LOCATION", 0.15),
		WeightRemote:   optFloat("MATCH_WEIGHT_REMOTE", 0.15),
		WeightIndustry: optFloat("MATCH_WEIGHT_INDUSTRY", 0.10),

		CacheTTL:       optDuration("MATCH_CACHE_TTL", defaultCacheTTL),
		CacheBackend:   strings.ToLower(optDefault("MATCH_CACHE_BACKEND", CacheBackendMemory)),
		CandidateLimit: optInt("MATCH_CANDIDATE_LIMIT", DefaultCandidateLimit),
	}
	if m.CacheTTL <= 0 {
		m.CacheTTL = defaultCacheTTL
	}
	if m.CandidateLimit <= 0 {
		m.CandidateLimit = DefaultCandidateLimit
	}
	if m.CandidateLimit > MaxCandidateLimit {
		m.CandidateLimit = MaxCandidateLimit
	}
	if m.CacheBackend != CacheBackendRedis {
		m.CacheBackend = CacheBackendMemory
	}
	return m
}

func opt(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func optDefault(key, def string) string {
	if v := opt(key); v != "" {
		return v
	}
	return def
}

func optInt(key string, def int) int {
	v, err := strconv.Atoi(opt(key))
	if err != nil {
		return def
	}
	return v
}

func optFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(opt(key), 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func optBool(key string, def bool) bool {
	v, err := strconv.ParseBool(opt(key))
	if err != nil {
		return def
	}
	return v
}

func optDuration(key string, def time.Duration) time.Duration {
	raw := opt(key)
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
