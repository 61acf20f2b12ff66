package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	http "github.com/wesleyorama2/usercheck/internal/http"
)

// Formatter is responsible for formatting HTTP requests and responses in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		scheme:  SchemeFor(noColor),
	}
}

// FormatRequest formats an HTTP request for display. defaults are the
// client-level headers, shown only in verbose mode.
func (f *Formatter) FormatRequest(req *http.Request, baseURL string, defaults map[string]string) string {
	var buf strings.Builder

	fullURL := baseURL + req.Path
	if u, err := req.URL(baseURL); err == nil {
		fullURL = u.String()
	}

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n", f.scheme.Method.Sprint(req.Method), f.scheme.URL.Sprint(fullURL)))

	headers := make(map[string]string, len(defaults)+len(req.Headers))
	if f.Verbose {
		for key, value := range defaults {
			headers[key] = value
		}
	}
	for key, value := range req.Headers {
		headers[key] = value
	}
	if len(headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", f.scheme.HeaderKey.Sprint(key), headers[key]))
		}
	}

	if req.Body != nil {
		buf.WriteString("  Body: ")
		switch body := req.Body.(type) {
		case string:
			buf.WriteString(formatJSONString(body))
		case []byte:
			buf.WriteString(formatJSONString(string(body)))
		case io.Reader:
			buf.WriteString("<stream>")
		default:
			jsonBody, err := json.Marshal(body)
			if err != nil {
				buf.WriteString(fmt.Sprintf("%v", body))
			} else {
				buf.WriteString(formatJSONString(string(jsonBody)))
			}
		}
		buf.WriteString("\n")
	}

	if f.Verbose {
		buf.WriteString(fmt.Sprintf("  %s\n", f.scheme.Dim.Sprint(req.Curl(baseURL, defaults))))
	}

	return buf.String()
}

// FormatResponse formats an HTTP response for display
func (f *Formatter) FormatResponse(resp *http.Response) string {
	var buf strings.Builder

	statusColor := f.scheme.StatusError
	if resp.IsSuccess() {
		statusColor = f.scheme.StatusOK
	} else if resp.IsRedirect() {
		statusColor = f.scheme.StatusWarn
	}

	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n",
		statusColor.Sprint(resp.Status),
		resp.GetResponseTimeMillis()))

	if f.Verbose {
		buf.WriteString("  Timing:\n")
		buf.WriteString(fmt.Sprintf("    DNS Lookup:         %dms\n", resp.GetDNSLookupTimeMillis()))
		buf.WriteString(fmt.Sprintf("    TCP Connection:     %dms\n", resp.GetTCPConnectTimeMillis()))
		buf.WriteString(fmt.Sprintf("    TLS Handshake:      %dms\n", resp.GetTLSHandshakeTimeMillis()))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", resp.GetTimeToFirstByteMillis()))
		buf.WriteString(fmt.Sprintf("    Content Transfer:   %dms\n", resp.GetContentTransferTimeMillis()))
		buf.WriteString(fmt.Sprintf("    Total:              %dms\n", resp.GetTotalTimeMillis()))

		buf.WriteString("  Headers:\n")
		keys := make([]string, 0, len(resp.Headers))
		for key := range resp.Headers {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, value := range resp.Headers[key] {
				buf.WriteString(fmt.Sprintf("    %s: %s\n", f.scheme.HeaderKey.Sprint(key), value))
			}
		}
	}

	body, err := resp.GetBodyAsString()
	if err == nil && body != "" {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatError formats a request that got no response.
func (f *Formatter) FormatError(err error) string {
	return fmt.Sprintf("◀ %s %s\n", ErrorIcon(f.NoColor), f.scheme.Error.Sprint(err.Error()))
}

// Exchanges returns a function that prints every request and its outcome to
// w, suitable for observing the cases.
func (f *Formatter) Exchanges(w io.Writer, client *http.Client) func(req *http.Request, resp *http.Response, err error) {
	return func(req *http.Request, resp *http.Response, err error) {
		fmt.Fprint(w, indent(f.FormatRequest(req, client.BaseURL(), client.RedactedHeaders()), "    "))
		if err != nil {
			fmt.Fprint(w, indent(f.FormatError(err), "    "))
			return
		}
		fmt.Fprint(w, indent(f.FormatResponse(resp), "    "))
	}
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var buf strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		buf.WriteString(prefix)
		buf.WriteString(line)
	}
	return buf.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
