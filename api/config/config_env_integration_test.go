package config

import (
	"os"
	"testing"
)

// TestLoadConfig_Environment_Integration ensures required env vars are present
// in the deployment environment by invoking LoadConfig(). It is skipped in
// -short mode and when no environment is configured at all.
func TestLoadConfig_Environment_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping environment config test in -short mode")
	}
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set; skipping environment config test")
	}
	if _, err := LoadConfig(); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
}
