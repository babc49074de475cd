package config

import (
	"github.com/spf13/viper"
)

// Config holds the application configuration, sourced from environment
// variables with development defaults.
type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	ServerAddr    string
	SweepSchedule string
}

// Load reads configuration from the environment.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "teamtrack")
	v.SetDefault("DB_PASSWORD", "teamtrack")
	v.SetDefault("DB_NAME", "teamtrack")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("SESSION_SECRET", "default-secret-key-change-me")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_ADDR", ":8080")
	// Daily at 08:00 local time.
	v.SetDefault("SWEEP_SCHEDULE", "0 8 * * *")

	return &Config{
		DBDriver:      v.GetString("DB_DRIVER"),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		GinMode:       v.GetString("GIN_MODE"),
		ServerAddr:    v.GetString("SERVER_ADDR"),
		SweepSchedule: v.GetString("SWEEP_SCHEDULE"),
	}
}
