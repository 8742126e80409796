// Package config loads service configuration from environment variables.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/roadbite/roadbite/internal/llm/gemini"
)

// Config aggregates every tunable of the service.
type Config struct {
	Server ServerConfig
	Model  ModelConfig
	Orders OrdersConfig
	Redis  RedisConfig
	Engine EngineConfig
	// PersonasFile optionally points at a YAML file overriding the built-in
	// persona definitions.
	PersonasFile string
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	mdl, err := loadModelConfig()
	if err != nil {
		return nil, err
	}

	orders, err := loadOrdersConfig()
	if err != nil {
		return nil, err
	}

	engine, err := loadEngineConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:       server,
		Model:        mdl,
		Orders:       orders,
		Redis:        loadRedisConfig(),
		Engine:       engine,
		PersonasFile: strings.TrimSpace(os.Getenv("PERSONAS_FILE")),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// Model providers.
const (
	ProviderArk    = "ark"
	ProviderGemini = "gemini"
)

// ModelConfig describes the language model backend.
type ModelConfig struct {
	Provider string

	// Ark credentials.
	ArkAPIKey    string
	ArkAccessKey string
	ArkSecretKey string
	ArkModel     string
	ArkBaseURL   string
	ArkRegion    string

	// Gemini credentials.
	GeminiAPIKey string
	GeminiModel  string

	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether the selected provider has usable credentials.
func (c ModelConfig) Enabled() bool {
	switch c.Provider {
	case ProviderGemini:
		return c.GeminiAPIKey != ""
	default:
		return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
	}
}

// NewChatModel creates a model instance for the configured provider. Each
// persona engine needs its own instance because capability binding is
// per-instance state.
func (c ModelConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("model provider %q has no usable credentials", c.Provider)
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	if c.Provider == ProviderGemini {
		return gemini.NewChatModel(ctx, &gemini.Config{
			APIKey:      c.GeminiAPIKey,
			Model:       c.GeminiModel,
			Temperature: temperature,
			MaxTokens:   c.MaxTokens,
		})
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     c.ArkBaseURL,
		Region:      c.ArkRegion,
		APIKey:      c.ArkAPIKey,
		AccessKey:   c.ArkAccessKey,
		SecretKey:   c.ArkSecretKey,
		Model:       c.ArkModel,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	})
}

func loadModelConfig() (ModelConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("MODEL_PROVIDER", ProviderGemini))
	if provider != ProviderArk && provider != ProviderGemini {
		return ModelConfig{}, fmt.Errorf("invalid MODEL_PROVIDER value %q, want %q or %q", provider, ProviderArk, ProviderGemini)
	}

	temperature, err := parseOptionalFloatEnv("MODEL_TEMPERATURE")
	if err != nil {
		return ModelConfig{}, err
	}
	if temperature == nil {
		// Legacy names kept for existing deployments.
		if temperature, err = parseOptionalFloatEnv("ARK_TEMPERATURE"); err != nil {
			return ModelConfig{}, err
		}
	}
	if temperature == nil {
		if temperature, err = parseOptionalFloatEnv("GEMINI_TEMPERATURE"); err != nil {
			return ModelConfig{}, err
		}
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return ModelConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("MODEL_MAX_TOKENS")
	if err != nil {
		return ModelConfig{}, err
	}

	return ModelConfig{
		Provider:     provider,
		ArkAPIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkAccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		ArkSecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		ArkModel:     strings.TrimSpace(os.Getenv("ARK_MODEL")),
		ArkBaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		ArkRegion:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		Temperature:  temperature,
		TopP:         topP,
		MaxTokens:    maxTokens,
	}, nil
}

// OrdersConfig describes the restaurant order backend.
type OrdersConfig struct {
	BaseURL string
	Timeout time.Duration
}

func loadOrdersConfig() (OrdersConfig, error) {
	timeout, err := parseOptionalIntEnv("ORDER_API_TIMEOUT_SECONDS")
	if err != nil {
		return OrdersConfig{}, err
	}
	timeoutSeconds := 10
	if timeout != nil {
		if *timeout < 1 {
			return OrdersConfig{}, fmt.Errorf("ORDER_API_TIMEOUT_SECONDS must be positive, got %d", *timeout)
		}
		timeoutSeconds = *timeout
	}

	return OrdersConfig{
		BaseURL: getEnvOrDefault("ORDER_API_BASE_URL", "http://localhost:3001"),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// RedisConfig describes the optional session mirror. Empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
}

// Enabled reports whether a mirror address was provided.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Password: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
	}
}

// EngineConfig bounds turn execution. Zero values use engine defaults.
type EngineConfig struct {
	MaxToolRounds int
	HistoryLimit  int
}

func loadEngineConfig() (EngineConfig, error) {
	rounds, err := parseOptionalIntEnv("MAX_TOOL_ROUNDS")
	if err != nil {
		return EngineConfig{}, err
	}
	history, err := parseOptionalIntEnv("HISTORY_LIMIT")
	if err != nil {
		return EngineConfig{}, err
	}

	cfg := EngineConfig{}
	if rounds != nil {
		if *rounds < 1 {
			return EngineConfig{}, fmt.Errorf("MAX_TOOL_ROUNDS must be positive, got %d", *rounds)
		}
		cfg.MaxToolRounds = *rounds
	}
	if history != nil {
		if *history < 1 {
			return EngineConfig{}, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", *history)
		}
		cfg.HistoryLimit = *history
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
