package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by usercheck.
const (
	EnvBaseURL       = "USERCHECK_BASE_URL"
	EnvAPIKey        = "USERCHECK_API_KEY"
	EnvAPIKeyHeader  = "USERCHECK_API_KEY_HEADER"
	EnvTimeout       = "USERCHECK_TIMEOUT"
	EnvPerformance   = "USERCHECK_PERFORMANCE"
	EnvSchemaDir     = "USERCHECK_SCHEMA_DIR"
	EnvTrustEnvProxy = "USERCHECK_TRUST_ENV_PROXY"
)

// DefaultEnvFile is loaded when present and no other file is named.
const DefaultEnvFile = ".env"

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing default file is not an
// error; a missing explicitly named file is.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("env file: %w", err)
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}

	return nil
}

// Environ returns the process environment as a map, for {{NAME}} placeholders.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}
	return env
}

// ApplyEnvironment overrides s with the USERCHECK_* variables found by lookup.
func (s *Settings) ApplyEnvironment(lookup LookupFunc) []ValidationError {
	var errors []ValidationError

	if value, ok := lookupNonEmpty(lookup, EnvBaseURL); ok {
		s.BaseURL = value
	}
	if value, ok := lookupNonEmpty(lookup, EnvAPIKey); ok {
		s.APIKey = value
	}
	if value, ok := lookupNonEmpty(lookup, EnvAPIKeyHeader); ok {
		s.APIKeyHeader = value
	}
	if value, ok := lookupNonEmpty(lookup, EnvSchemaDir); ok {
		s.SchemaDir = value
	}
	if value, ok := lookupNonEmpty(lookup, EnvTimeout); ok {
		timeout, err := parseDurationString(value)
		if err != nil {
			errors = append(errors, ValidationError{Path: EnvTimeout, Message: err.Error()})
		} else {
			s.Timeout = timeout
		}
	}
	if value, ok := lookupNonEmpty(lookup, EnvPerformance); ok {
		performance, err := strconv.ParseBool(value)
		if err != nil {
			errors = append(errors, ValidationError{Path: EnvPerformance, Message: fmt.Sprintf("invalid boolean %q", value)})
		} else {
			s.Performance = performance
		}
	}
	if value, ok := lookupNonEmpty(lookup, EnvTrustEnvProxy); ok {
		trust, err := strconv.ParseBool(value)
		if err != nil {
			errors = append(errors, ValidationError{Path: EnvTrustEnvProxy, Message: fmt.Sprintf("invalid boolean %q", value)})
		} else {
			s.TrustEnvProxy = trust
		}
	}

	return errors
}

func lookupNonEmpty(lookup LookupFunc, key string) (string, bool) {
	value, ok := lookup(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}
