package utils

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// SafeEnv returns the environment variable value for key, or fallback if empty.
func SafeEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// DurationEnv parses key as a Go duration ("10s", "1m"); bad values fall back.
func DurationEnv(key string, fallback time.Duration) time.Duration {
	v := SafeEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config: ignoring %s=%q: want a positive duration", key, v)
		return fallback
	}
	return d
}

// BoolEnv accepts the forms strconv.ParseBool understands.
func BoolEnv(key string, fallback bool) bool {
	v := SafeEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: ignoring %s=%q: want a boolean", key, v)
		return fallback
	}
	return b
}
