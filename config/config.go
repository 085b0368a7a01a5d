package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// JWTConfig groups everything the token service needs. SecretKey is allowed
// to be empty at startup; token operations check it per request and fail
// with a 500 instead of crashing the process.
type JWTConfig struct {
	SecretKey       string        `mapstructure:"secretKey"`
	AccessTokenTTL  time.Duration `mapstructure:"accessTokenTTL"`
	RefreshTokenTTL time.Duration `mapstructure:"refreshTokenTTL"`
	Issuer          string        `mapstructure:"issuer"`
}

// AuthConfig holds behavioral knobs for the auth subsystem.
type AuthConfig struct {
	// MinPasswordLength enforced at registration.
	MinPasswordLength int `mapstructure:"minPasswordLength"`
	// CaseInsensitiveUsernames controls whether username takenness is checked
	// case-insensitively.
	CaseInsensitiveUsernames bool `mapstructure:"caseInsensitiveUsernames"`
}

// AIConfig configures the Gemini-backed chat assistant. An empty APIKey
// disables the assistant endpoint without affecting the rest of the API.
type AIConfig struct {
	APIKey string `mapstructure:"apiKey"`
	Model  string `mapstructure:"model"`
}

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	JWT  JWTConfig  `mapstructure:"jwt"`
	Auth AuthConfig `mapstructure:"auth"`
	AI   AIConfig   `mapstructure:"ai"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Secrets never live in the YAML; they are bound to the environment.
	v.MustBindEnv("jwt.secretKey", "JWT_SECRET_KEY")
	v.MustBindEnv("repositories.postgres.password", "POSTGRES_PASSWORD")
	v.MustBindEnv("ai.apiKey", "GOOGLE_GEMINI_API_KEY")

	// Try file-based config first, fall back to the embedded copy.
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Auth.MinPasswordLength == 0 {
		config.Auth.MinPasswordLength = 6
	}
	return config, nil
}
