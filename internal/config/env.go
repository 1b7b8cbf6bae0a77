package config

import (
	"os"
	"regexp"

	"github.com/joho/godotenv"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func init() {
	// A .env next to the working directory can hold the API token;
	// missing files are fine.
	_ = godotenv.Load()
}

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if env var not set
	})
}

// expandConfigEnvVars expands environment variables in config string fields.
func expandConfigEnvVars(cfg *Config) {
	cfg.Auth.Token = expandEnvVars(cfg.Auth.Token)
	cfg.OutputDir = expandEnvVars(cfg.OutputDir)
}
