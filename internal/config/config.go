package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"locforge/internal/idspace"
)

type Config struct {
	// EncoderPath locates the native w3strings binary. Empty means
	// encode/decode invocations are unavailable (compile-only mode).
	EncoderPath string
	// IDBase is the boundary between vanilla and mod identifiers. Must
	// match the encoder's expectation.
	IDBase uint32
	// DefaultLang is used when neither the file name nor a meta
	// directive determines the language.
	DefaultLang string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		EncoderPath: getEnv("W3_ENCODER_PATH", ""),
		IDBase:      getEnvUint32("W3_ID_BASE", idspace.DefaultBase),
		DefaultLang: getEnv("W3_DEFAULT_LANG", "en"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvUint32(key string, fallback uint32) uint32 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return fallback
	}
	return uint32(n)
}
