package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedOrigins_Default(t *testing.T) {
	cfg := &Config{}
	origins := cfg.AllowedOrigins()
	assert.Equal(t, defaultCORSOrigins, origins)
}

func TestAllowedOrigins_Override(t *testing.T) {
	cfg := &Config{CORSOrigins: "https://app.example.com, http://localhost:5173 ,"}
	origins := cfg.AllowedOrigins()
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:5173"}, origins)
}
