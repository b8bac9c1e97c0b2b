package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DefaultRateLimitMessage = "Too many requests from this IP, please try again later."
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"logLevel"`

	// CORS
	FrontendURL    string   `yaml:"frontendURL"`
	AllowedOrigins []string `yaml:"allowedOrigins"`

	// OpenRouter
	OpenRouterAPIKey  string `yaml:"openRouterAPIKey"`
	OpenRouterModel   string `yaml:"openRouterModel"`
	OpenRouterBaseURL string `yaml:"openRouterBaseURL"`

	// OpenAI
	OpenAIAPIKey  string `yaml:"openAIAPIKey"`
	OpenAIModel   string `yaml:"openAIModel"`
	OpenAIBaseURL string `yaml:"openAIBaseURL"`

	AITimeout time.Duration `yaml:"aiTimeout"`

	// Upload limits
	MaxFileSize  int64 `yaml:"maxFileSize"`
	MaxBodyBytes int64 `yaml:"maxBodyBytes"`

	// Rate limiting
	RateLimitMax      int           `yaml:"rateLimitMax"`
	RateLimitWindow   time.Duration `yaml:"rateLimitWindow"`
	RateLimitMessage  string        `yaml:"rateLimitMessage"`
	RedisAddr         string        `yaml:"redisAddr"`
	RedisPassword     string        `yaml:"redisPassword"`
	TrustedProxyCIDRs []string      `yaml:"trustedProxyCidrs"`

	// Audit ledger; empty disables it.
	AuditDBPath string `yaml:"auditDBPath"`
}

// Defaults returns the configuration used when neither a file nor the environment override a value.
func Defaults() *Config {
	return &Config{
		Port:              "3001",
		Environment:       EnvProduction,
		LogLevel:          "info",
		FrontendURL:       "http://localhost:8080",
		AllowedOrigins:    []string{"http://localhost:8081"},
		OpenRouterModel:   "x-ai/grok-4-fast:free",
		OpenRouterBaseURL: "https://openrouter.ai/api/v1",
		OpenAIModel:       "gpt-4",
		OpenAIBaseURL:     "https://api.openai.com/v1",
		AITimeout:         60 * time.Second,
		MaxFileSize:       10 << 20,
		MaxBodyBytes:      50 << 20,
		RateLimitMax:      100,
		RateLimitWindow:   15 * time.Minute,
		RateLimitMessage:  DefaultRateLimitMessage,
	}
}

// Load reads the optional YAML file named by CONFIG_FILE, then applies environment overrides.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = strings.ToLower(getEnv("APP_ENV", cfg.Environment))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitCSV(v)
	}

	cfg.OpenRouterAPIKey = getEnv("OPENROUTER_API_KEY", cfg.OpenRouterAPIKey)
	cfg.OpenRouterModel = getEnv("OPENROUTER_MODEL", cfg.OpenRouterModel)
	cfg.OpenRouterBaseURL = getEnv("OPENROUTER_BASE_URL", cfg.OpenRouterBaseURL)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.AITimeout = getEnvAsDuration("AI_TIMEOUT", cfg.AITimeout)

	cfg.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", cfg.MaxFileSize)
	cfg.MaxBodyBytes = getEnvAsInt64("MAX_BODY_BYTES", cfg.MaxBodyBytes)

	cfg.RateLimitMax = getEnvAsInt("RATE_LIMIT_MAX", cfg.RateLimitMax)
	cfg.RateLimitWindow = getEnvAsDuration("RATE_LIMIT_WINDOW", cfg.RateLimitWindow)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	if v := os.Getenv("TRUSTED_PROXY_CIDRS"); v != "" {
		cfg.TrustedProxyCIDRs = splitCSV(v)
	}

	cfg.AuditDBPath = getEnv("AUDIT_DB_PATH", cfg.AuditDBPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("config: port is required")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("config: maxFileSize must be > 0")
	}
	if c.MaxBodyBytes < c.MaxFileSize {
		return errors.New("config: maxBodyBytes must be >= maxFileSize")
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("config: rate limit max and window must be > 0")
	}
	if c.AITimeout <= 0 {
		return errors.New("config: aiTimeout must be > 0")
	}
	for _, entry := range c.TrustedProxyCIDRs {
		if strings.Contains(entry, "/") {
			if _, _, err := net.ParseCIDR(entry); err != nil {
				return fmt.Errorf("config: invalid trusted proxy %q: %w", entry, err)
			}
			continue
		}
		if net.ParseIP(entry) == nil {
			return fmt.Errorf("config: invalid trusted proxy %q", entry)
		}
	}
	return nil
}

// IsDevelopment reports whether internal error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// Origins returns the CORS allow-list: the frontend URL followed by any extra origins.
func (c *Config) Origins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins)+1)
	seen := map[string]bool{}
	for _, o := range append([]string{c.FrontendURL}, c.AllowedOrigins...) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		origins = append(origins, o)
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
