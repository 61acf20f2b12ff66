package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors reports several configuration problems at once.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(messages, "; ")
}

// Validate checks the resolved settings and returns every problem found.
func Validate(s Settings) []ValidationError {
	var errors []ValidationError

	if s.BaseURL == "" {
		errors = append(errors, ValidationError{Path: "baseUrl", Message: "baseUrl is required"})
	} else if u, err := url.Parse(s.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errors = append(errors, ValidationError{Path: "baseUrl", Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", s.BaseURL)})
	}

	if s.APIKey != "" && s.APIKeyHeader == "" {
		errors = append(errors, ValidationError{Path: "apiKey.header", Message: "header name is required when an API key is set"})
	}
	if strings.ContainsAny(s.APIKeyHeader, " :\t\r\n") {
		errors = append(errors, ValidationError{Path: "apiKey.header", Message: fmt.Sprintf("invalid header name %q", s.APIKeyHeader)})
	}

	if s.Timeout <= 0 {
		errors = append(errors, ValidationError{Path: "timeout", Message: "timeout must be positive"})
	}
	if s.LatencyBudget < 0 {
		errors = append(errors, ValidationError{Path: "latencyBudget", Message: "latency budget cannot be negative"})
	}
	if s.BurstSize < 1 {
		errors = append(errors, ValidationError{Path: "burstSize", Message: "burst size must be at least 1"})
	} else if s.BurstSize > 100 {
		errors = append(errors, ValidationError{Path: "burstSize", Message: "burst size cannot exceed 100"})
	}

	return errors
}
