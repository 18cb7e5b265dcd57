package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. It is constructed once at
// startup and passed explicitly to the components that need it; nothing in
// this codebase reads configuration through ambient globals.
type Config struct {
	DatabaseURL         string
	StripeSecretKey     string
	StripeWebhookSecret string
	// ClerkJWKSURL points at the Clerk instance's JSON Web Key Set, used to
	// verify session token signatures.
	ClerkJWKSURL string
	// Domain is the frontend base URL used to build checkout redirect URLs.
	Domain string
	// CORSOrigins is the raw comma-separated allow-list; see AllowedOrigins.
	CORSOrigins string
	// Server port
	HTTPPort string
}

// defaultCORSOrigins covers the production frontend plus local development.
var defaultCORSOrigins = []string{
	"https://www.ragment.in",
	"https://ragment.in",
	"http://localhost:3000",
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{}

	// Try to load .env file from current directory and parent directories
	currentDir, _ := os.Getwd()
	for currentDir != "/" {
		// Check if .env file exists in current directory
		envPath := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// Load .env file
			err = godotenv.Load(envPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load .env file: %v", err)
			}
			break
		}
		// Move up one directory
		currentDir = filepath.Dir(currentDir)
	}

	// Get required environment variables
	requiredVars := []struct {
		name     string
		envVar   string
		display  string
		required bool
	}{
		{"DatabaseURL", "DATABASE_URL", "Database URL", true},
		{"StripeSecretKey", "STRIPE_SECRET_KEY", "Stripe Secret Key", true},
		{"StripeWebhookSecret", "STRIPE_WEBHOOK_SECRET", "Stripe Webhook Secret", true},
		{"ClerkJWKSURL", "CLERK_JWKS_URL", "Clerk JWKS URL", true},
		// Optional frontend base URL for checkout redirects
		{"Domain", "DOMAIN", "Frontend Domain", false},
		// Optional CORS allow-list override
		{"CORSOrigins", "CORS_ALLOWED_ORIGINS", "CORS Allowed Origins", false},
		// Optional server port
		{"HTTPPort", "PORT", "HTTP Port", false},
	}

	for _, v := range requiredVars {
		value := os.Getenv(v.envVar)
		if v.required && value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", v.display)
		}
		configField := reflect.ValueOf(config).Elem().FieldByName(v.name)
		configField.SetString(value)
	}

	// Defaults
	if config.Domain == "" {
		config.Domain = "http://localhost:3000"
	}
	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}

	return config, nil
}

// AllowedOrigins returns the CORS allow-list: the comma-separated override if
// one was configured, otherwise the built-in production + localhost set.
func (c *Config) AllowedOrigins() []string {
	if strings.TrimSpace(c.CORSOrigins) == "" {
		return defaultCORSOrigins
	}
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
