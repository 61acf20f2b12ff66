package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wesleyorama2/usercheck/internal/config"
	"github.com/wesleyorama2/usercheck/internal/http"
)

// addFixtureFlags registers the flags that shape the HTTP client.
func addFixtureFlags(flags *pflag.FlagSet) {
	flags.String("base-url", config.DefaultBaseURL, "API base URL")
	flags.String("api-key", config.DefaultAPIKey, "API key sent with every request")
	flags.String("api-key-header", config.DefaultAPIKeyHeader, "header carrying the API key")
	flags.DurationP("timeout", "t", config.DefaultTimeout, "Request timeout")
	flags.Bool("trust-env-proxy", false, "honor HTTP_PROXY/HTTPS_PROXY/NO_PROXY")
	flags.BoolP("insecure", "k", false, "skip TLS certificate verification")
}

// loadSettings resolves defaults, dotenv, settings file, environment and
// finally any flags the user set explicitly, then validates the result.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	settings, err := config.Resolve(config.Sources{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return settings, err
	}

	applyFlags(cmd.Flags(), &settings)

	if problems := config.Validate(settings); len(problems) > 0 {
		return settings, config.ValidationErrors(problems)
	}
	return settings, nil
}

func applyFlags(flags *pflag.FlagSet, s *config.Settings) {
	if flags.Changed("base-url") {
		s.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("api-key") {
		s.APIKey, _ = flags.GetString("api-key")
	}
	if flags.Changed("api-key-header") {
		s.APIKeyHeader, _ = flags.GetString("api-key-header")
	}
	if flags.Changed("timeout") {
		s.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("trust-env-proxy") {
		s.TrustEnvProxy, _ = flags.GetBool("trust-env-proxy")
	}
	if flags.Changed("insecure") {
		s.InsecureSkipVerify, _ = flags.GetBool("insecure")
	}
	if flags.Changed("performance") {
		s.Performance, _ = flags.GetBool("performance")
	}
	if flags.Changed("latency-budget") {
		s.LatencyBudget, _ = flags.GetDuration("latency-budget")
	}
	if flags.Changed("burst") {
		s.BurstSize, _ = flags.GetInt("burst")
	}
	if flags.Changed("schema-dir") {
		s.SchemaDir, _ = flags.GetString("schema-dir")
	}
}

// newClient builds the Request Fixture's client from settings.
func newClient(s config.Settings) *http.Client {
	options := []http.ClientOption{
		http.WithBaseURL(s.BaseURL),
		http.WithTimeout(s.Timeout),
		http.WithAPIKey(s.APIKeyHeader, s.APIKey),
		http.WithProxyFromEnvironment(s.TrustEnvProxy),
	}
	if s.InsecureSkipVerify {
		options = append(options, http.WithInsecureSkipVerify())
	}
	for key, value := range s.Headers {
		options = append(options, http.WithHeader(key, value))
	}
	return http.NewClient(options...)
}

// parseHeaders splits "Name: value" flag values.
func parseHeaders(values []string) (map[string]string, error) {
	headers := make(map[string]string, len(values))
	for _, header := range values {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", header)
		}
		headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return headers, nil
}
