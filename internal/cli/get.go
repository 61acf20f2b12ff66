package cli

import (
	"fmt"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/usercheck/internal/http"
	"github.com/wesleyorama2/usercheck/internal/output"
)

func newGetCmd() *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get URL|PATH",
		Short: "Make a GET request against the users API",
		Long: `Make a single GET request. A PATH starting with "/" is resolved against the
configured base URL, for example:

  usercheck get /users?page=2
  usercheck get /users/2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exchange(cmd, nethttp.MethodGet, args[0], false)
		},
	}
	addExchangeFlags(getCmd, false)
	return getCmd
}

func addExchangeFlags(cmd *cobra.Command, withBody bool) {
	flags := cmd.Flags()
	addFixtureFlags(flags)
	flags.StringArrayP("header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	if withBody {
		flags.StringP("data", "d", "", "Data to send in the request body")
		flags.StringP("json", "j", "", "JSON data to send in the request body")
	}
}

// exchange performs one ad-hoc request with the configured API key attached
// and prints both sides of it.
func exchange(cmd *cobra.Command, method, target string, withBody bool) error {
	headerValues, _ := cmd.Flags().GetStringArray("header")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColorFlag, _ := cmd.Flags().GetBool("no-color")

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	headers, err := parseHeaders(headerValues)
	if err != nil {
		return err
	}

	baseURL, path := resolveTarget(settings.BaseURL, target)
	settings.BaseURL = baseURL
	client := newClient(settings)

	req := http.NewRequest(method, path)
	for key, value := range headers {
		req.WithHeader(key, value)
	}

	if withBody {
		data, _ := cmd.Flags().GetString("data")
		jsonData, _ := cmd.Flags().GetString("json")
		if data != "" {
			req.WithBody(data)
		} else if jsonData != "" {
			req.WithBody(jsonData)
			if req.Headers["Content-Type"] == "" {
				req.WithHeader("Content-Type", "application/json")
			}
		}
	}

	out := cmd.OutOrStdout()
	formatter := output.NewFormatter(verbose, output.ShouldDisableColor(out, noColorFlag))

	fmt.Fprint(out, formatter.FormatRequest(req, client.BaseURL(), client.RedactedHeaders()))

	resp, err := client.Do(cmd.Context(), req)
	if err != nil {
		return err
	}

	fmt.Fprint(out, formatter.FormatResponse(resp))
	return nil
}

// resolveTarget treats a target starting with "/" as a path under the
// configured base URL and anything else as a full URL.
func resolveTarget(baseURL, target string) (string, string) {
	if strings.HasPrefix(target, "/") {
		return baseURL, target
	}
	return parseURL(target)
}

// parseURL splits a URL into base URL and path
func parseURL(fullURL string) (string, string) {
	// Add scheme if missing
	if !strings.HasPrefix(fullURL, "http://") && !strings.HasPrefix(fullURL, "https://") {
		fullURL = "http://" + fullURL
	}

	// Parse the URL
	parsedURL, err := url.Parse(fullURL)
	if err != nil {
		return fullURL, "/"
	}

	// Extract base URL and path
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)

	// Include user info in the base URL if present
	if parsedURL.User != nil {
		userInfo := parsedURL.User.String()
		baseURL = fmt.Sprintf("%s://%s@%s", parsedURL.Scheme, userInfo, parsedURL.Host)
	}

	path := parsedURL.Path
	if path == "" {
		path = "/"
	}

	// Include query parameters in the path
	if parsedURL.RawQuery != "" {
		path = path + "?" + parsedURL.RawQuery
	}

	// Include fragment in the path
	if parsedURL.Fragment != "" {
		path = path + "#" + parsedURL.Fragment
	}

	return baseURL, path
}
