package config

import "os"

type Config struct {
	ServerAddress string
	PostgresConn  string
	LogLevel      string
}

// Load reads configuration from the environment, falling back to defaults.
func Load() *Config {
	return &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", "0.0.0.0:8080"),
		PostgresConn:  getEnv("POSTGRES_CONN", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
