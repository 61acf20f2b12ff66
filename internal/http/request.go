package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/alessio/shellescape"
)

// Request represents an HTTP request with a fluent builder pattern.
type Request struct {
	Method      string
	Path        string
	QueryParams url.Values
	Headers     map[string]string
	Body        interface{}
}

// NewRequest creates a new HTTP request with the specified method and path.
//
// Example:
//
//	req := http.NewRequest("GET", "/users").
//	    WithQueryParam("page", "2")
func NewRequest(method, path string) *Request {
	return &Request{
		Method:      method,
		Path:        path,
		QueryParams: make(url.Values),
		Headers:     make(map[string]string),
	}
}

// WithHeader adds a header to the request
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// WithQueryParam adds a query parameter to the request.
// Multiple values for the same key can be added by calling this method multiple times.
func (r *Request) WithQueryParam(key, value string) *Request {
	r.QueryParams.Add(key, value)
	return r
}

// WithQueryParams adds multiple query parameters to the request
func (r *Request) WithQueryParams(params map[string]string) *Request {
	for key, value := range params {
		r.QueryParams.Add(key, value)
	}
	return r
}

// WithBody sets the body of the request.
// The body can be:
//   - string: sent as-is
//   - []byte: sent as-is
//   - io.Reader: read and sent
//   - any other type: marshaled as JSON
func (r *Request) WithBody(body interface{}) *Request {
	r.Body = body
	return r
}

// URL resolves the request against baseURL, including query parameters.
// A query string embedded in Path is merged with QueryParams.
func (r *Request) URL(baseURL string) (*url.URL, error) {
	reqURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	path, rawQuery, _ := strings.Cut(r.Path, "?")

	if reqURL.Path == "" {
		reqURL.Path = "/" + strings.TrimLeft(path, "/")
	} else {
		reqURL.Path = strings.TrimRight(reqURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	}

	query := reqURL.Query()
	if rawQuery != "" {
		embedded, err := url.ParseQuery(rawQuery)
		if err != nil {
			return nil, fmt.Errorf("invalid query in path %q: %w", r.Path, err)
		}
		for key, values := range embedded {
			for _, value := range values {
				query.Add(key, value)
			}
		}
	}
	for key, values := range r.QueryParams {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	reqURL.RawQuery = query.Encode()

	return reqURL, nil
}

// Build constructs an http.Request from the Request configuration.
func (r *Request) Build(baseURL string) (*http.Request, error) {
	reqURL, err := r.URL(baseURL)
	if err != nil {
		return nil, err
	}

	bodyReader, isJSON, err := r.bodyReader()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(r.Method, reqURL.String(), bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}
	if isJSON && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (r *Request) bodyReader() (io.Reader, bool, error) {
	if r.Body == nil {
		return nil, false, nil
	}

	switch body := r.Body.(type) {
	case string:
		return strings.NewReader(body), false, nil
	case []byte:
		return bytes.NewReader(body), false, nil
	case io.Reader:
		return body, false, nil
	default:
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, false, fmt.Errorf("encoding body: %w", err)
		}
		return bytes.NewReader(jsonBody), true, nil
	}
}

// Curl renders the request as a shell-safe curl command line. defaults are
// the client-level headers; request headers win on conflict. Reader bodies
// are not consumed and are left out.
func (r *Request) Curl(baseURL string, defaults map[string]string) string {
	cmd := []string{"curl", "-sS", "-X", r.Method}

	if reqURL, err := r.URL(baseURL); err == nil {
		cmd = append(cmd, shellescape.Quote(reqURL.String()))
	} else {
		cmd = append(cmd, shellescape.Quote(baseURL+r.Path))
	}

	headers := make(map[string]string, len(defaults)+len(r.Headers))
	for key, value := range defaults {
		headers[http.CanonicalHeaderKey(key)] = value
	}
	for key, value := range r.Headers {
		headers[http.CanonicalHeaderKey(key)] = value
	}

	var body string
	switch b := r.Body.(type) {
	case nil, io.Reader:
	case string:
		body = b
	case []byte:
		body = string(b)
	default:
		if encoded, err := json.Marshal(b); err == nil {
			body = string(encoded)
			if _, ok := headers["Content-Type"]; !ok {
				headers["Content-Type"] = "application/json"
			}
		}
	}

	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cmd = append(cmd, "-H", shellescape.Quote(key+": "+headers[key]))
	}

	if body != "" {
		cmd = append(cmd, "--data", shellescape.Quote(body))
	}

	return strings.Join(cmd, " ")
}
