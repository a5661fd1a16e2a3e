package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Load reads KEY=VALUE pairs from an env file into the process environment.
// Blank lines and comments are skipped by godotenv. A missing file is not
// fatal: we proceed with whatever environment variables are already set, and
// a missing credential surfaces as an auth failure at the first remote call.
func Load(path string) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("Warning: %s not found, assuming environment variables are set.", path)
	}
}

// Config carries the credentials for both remote platforms. Components take
// a Config value instead of reading the environment themselves, so tests can
// construct one directly.
type Config struct {
	PublicKey   string // Langfuse public key (basic auth username)
	SecretKey   string // Langfuse secret key (basic auth password)
	Host        string // Langfuse host, e.g. https://cloud.langfuse.com
	OpenAIKey   string
	GeminiKey   string
	DatabaseURL string
}

// FromEnv builds a Config from the process environment. No validation
// happens here; a blank credential fails at the point of use.
func FromEnv() Config {
	return Config{
		PublicKey:   os.Getenv("LANGFUSE_PUBLIC_KEY"),
		SecretKey:   os.Getenv("LANGFUSE_SECRET_KEY"),
		Host:        os.Getenv("LANGFUSE_HOST"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}
