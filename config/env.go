package config

import "os"

// GetEnv reads an environment variable. Variables are loaded from .env
// at startup; empty string means unset.
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvOrDefault reads an environment variable with a fallback.
func GetEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
