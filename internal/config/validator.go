package config

import (
	"fmt"
	"os"
	"strings"
)

// RequiredPostgresEnvVars lists environment variables that must be set
// when PERSISTENCE_MODE is postgres
var RequiredPostgresEnvVars = []string{
	"DB_USER",
	"DB_PASSWORD",
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
}

// ValidateEnv checks that the variables the selected persistence mode
// needs are actually set
func ValidateEnv() error {
	if os.Getenv("PERSISTENCE_MODE") != PersistencePostgres {
		return nil
	}

	var missing []string
	for _, envVar := range RequiredPostgresEnvVars {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateEnvWithWarnings checks environment variables and returns warnings
// for non-critical issues (like using default values)
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string

	if os.Getenv("DB_PASSWORD") == "change_this_secure_password" {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}

	if os.Getenv("PERSISTENCE_MODE") == PersistencePostgres && os.Getenv("API_KEY") == "" {
		warnings = append(warnings, "API_KEY is not set - the HTTP API will accept unauthenticated requests")
	}

	return warnings, nil
}
