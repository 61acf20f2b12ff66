package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL      = "https://reqres.in/api"
	DefaultAPIKeyHeader = "x-api-key"
	DefaultAPIKey       = "reqres-free-v1"
	DefaultTimeout      = 30 * time.Second
	DefaultBurstSize    = 10
)

// Settings is the resolved configuration of one run. It is built once and
// then only read.
type Settings struct {
	BaseURL      string
	APIKeyHeader string
	APIKey       string
	Headers      map[string]string

	// TrustEnvProxy makes the client honor HTTP(S)_PROXY. Off by default so
	// corporate proxies cannot rewrite or reject requests to the mock API.
	TrustEnvProxy bool
	// InsecureSkipVerify accepts self-signed certificates, for local mocks.
	InsecureSkipVerify bool

	Timeout time.Duration

	// LatencyBudget overrides LATENCY_BUDGET_S when non-zero.
	LatencyBudget time.Duration
	BurstSize     int
	Performance   bool

	// SchemaDir replaces the embedded Schema Documents when set.
	SchemaDir string
}

// Default returns the settings used when nothing else is configured.
func Default() Settings {
	return Settings{
		BaseURL:      DefaultBaseURL,
		APIKeyHeader: DefaultAPIKeyHeader,
		APIKey:       DefaultAPIKey,
		Headers:      map[string]string{},
		Timeout:      DefaultTimeout,
		BurstSize:    DefaultBurstSize,
	}
}

// File is the on-disk form of Settings. Every field is optional; zero values
// leave the current setting untouched.
type File struct {
	BaseURL       string            `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
	APIKey        APIKeyFile        `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	Headers       map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	TrustEnvProxy *bool             `json:"trustEnvProxy,omitempty" yaml:"trustEnvProxy,omitempty"`
	Timeout       string            `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	LatencyBudget float64           `json:"latencyBudget,omitempty" yaml:"latencyBudget,omitempty"`
	BurstSize     int               `json:"burstSize,omitempty" yaml:"burstSize,omitempty"`
	Performance   *bool             `json:"performance,omitempty" yaml:"performance,omitempty"`
	SchemaDir     string            `json:"schemaDir,omitempty" yaml:"schemaDir,omitempty"`
}

// APIKeyFile configures the API key header.
type APIKeyFile struct {
	Header string `json:"header,omitempty" yaml:"header,omitempty"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
}

// LoadFile reads a settings file. The format is chosen by extension:
// .json is JSON, anything else is YAML.
func LoadFile(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return ParseFile(data, path)
}

// ParseFile parses settings file data; path only selects the format.
func ParseFile(data []byte, path string) (*File, error) {
	var file File

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	return &file, nil
}

// Apply merges file into s. String values may reference environment
// variables as {{NAME}}.
func (s *Settings) Apply(file *File, env map[string]string) []ValidationError {
	var errors []ValidationError

	if file.BaseURL != "" {
		s.BaseURL = ProcessEnvironment(file.BaseURL, env)
	}
	if file.APIKey.Header != "" {
		s.APIKeyHeader = ProcessEnvironment(file.APIKey.Header, env)
	}
	if file.APIKey.Value != "" {
		s.APIKey = ProcessEnvironment(file.APIKey.Value, env)
	}
	if len(file.Headers) > 0 {
		s.Headers = MergeHeaders(s.Headers, ProcessEnvironmentInMap(file.Headers, env))
	}
	if file.TrustEnvProxy != nil {
		s.TrustEnvProxy = *file.TrustEnvProxy
	}
	if file.Timeout != "" {
		timeout, err := parseDurationString(file.Timeout)
		if err != nil {
			errors = append(errors, ValidationError{Path: "timeout", Message: err.Error()})
		} else {
			s.Timeout = timeout
		}
	}
	if file.LatencyBudget != 0 {
		s.LatencyBudget = secondsToDuration(file.LatencyBudget)
	}
	if file.BurstSize != 0 {
		s.BurstSize = file.BurstSize
	}
	if file.Performance != nil {
		s.Performance = *file.Performance
	}
	if file.SchemaDir != "" {
		s.SchemaDir = ProcessEnvironment(file.SchemaDir, env)
	}

	return errors
}

// parseDurationString accepts Go durations ("500ms", "1m") and bare seconds ("30", "2.5").
func parseDurationString(duration string) (time.Duration, error) {
	if d, err := time.ParseDuration(duration); err == nil {
		return d, nil
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(duration), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", duration)
	}

	return secondsToDuration(seconds), nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// ProcessEnvironment replaces {{NAME}} placeholders with values from env
func ProcessEnvironment(input string, env map[string]string) string {
	result := input
	for key, value := range env {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// ProcessEnvironmentInMap processes placeholders in every value of input
func ProcessEnvironmentInMap(input map[string]string, env map[string]string) map[string]string {
	result := make(map[string]string, len(input))
	for key, value := range input {
		result[key] = ProcessEnvironment(value, env)
	}
	return result
}

// MergeHeaders merges two header sets, with the second taking precedence
func MergeHeaders(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range override {
		result[key] = value
	}
	return result
}
