// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Optimizer OptimizerConfig
	Cache     CacheConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type OptimizerConfig struct {
	// TMSRate is the $/unit/100mi rate used for the optimized scenario.
	TMSRate float64
	// MarketRate is the $/unit/100mi rate used for the customer baseline.
	MarketRate float64
	// FallbackDistanceMiles is used when an address pair cannot be resolved.
	FallbackDistanceMiles float64
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	DistanceTTLSeconds int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("OPTIMIZER_TMS_RATE", 0.15)
		viper.SetDefault("OPTIMIZER_MARKET_RATE", 0.15)
		viper.SetDefault("OPTIMIZER_FALLBACK_DISTANCE_MILES", 500.0)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DISTANCE_TTL_SECONDS", 86400)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Optimizer: OptimizerConfig{
				TMSRate:               viper.GetFloat64("OPTIMIZER_TMS_RATE"),
				MarketRate:            viper.GetFloat64("OPTIMIZER_MARKET_RATE"),
				FallbackDistanceMiles: viper.GetFloat64("OPTIMIZER_FALLBACK_DISTANCE_MILES"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				DistanceTTLSeconds: viper.GetInt("CACHE_DISTANCE_TTL_SECONDS"),
			},
		}
	})

	return instance
}
