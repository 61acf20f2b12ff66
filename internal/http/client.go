package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"
)

// DefaultTimeout bounds every request unless WithTimeout says otherwise.
const DefaultTimeout = 30 * time.Second

// Client issues requests against a single API host, attaching a fixed set of
// headers to every request. It is built once per run and is read-only
// afterwards, so it is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	apiKey     string
	trustEnv   bool
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new client with the given options.
//
// Unless WithProxyFromEnvironment(true) is given, the client ignores the
// HTTP_PROXY/HTTPS_PROXY/NO_PROXY environment variables and always dials the
// API host directly.
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		headers: make(map[string]string),
	}

	for _, option := range options {
		option(client)
	}

	client.applyProxyPolicy()

	return client
}

// WithBaseURL sets the base URL for all requests made by this client.
// The base URL is joined with the path of each Request.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the timeout for all requests made by this client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHeader adds a default header to all requests made by this client.
// Headers set on individual requests override these defaults.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithAPIKey attaches the API key header to every request.
func WithAPIKey(header, key string) ClientOption {
	return func(c *Client) {
		if header == "" || key == "" {
			return
		}
		c.headers[header] = key
		c.apiKey = header
	}
}

// WithProxyFromEnvironment controls whether the proxy environment variables
// are honored. The default is false.
func WithProxyFromEnvironment(trust bool) ClientOption {
	return func(c *Client) {
		c.trustEnv = trust
	}
}

// WithHTTPClient sets a custom *http.Client for this client.
// The proxy policy is applied to its transport unless it is a custom
// http.RoundTripper.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// Only meant for local mock servers with self-signed certificates.
func WithInsecureSkipVerify() ClientOption {
	return func(c *Client) {
		transport := defaultTransport(c.httpClient)
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		c.httpClient.Transport = transport
	}
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Headers returns a copy of the headers attached to every request.
func (c *Client) Headers() map[string]string {
	headers := make(map[string]string, len(c.headers))
	for key, value := range c.headers {
		headers[key] = value
	}
	return headers
}

// RedactedHeaders is Headers with the API key masked, for anything that is
// printed or logged.
func (c *Client) RedactedHeaders() map[string]string {
	headers := c.Headers()
	if value, ok := headers[c.apiKey]; ok && c.apiKey != "" {
		headers[c.apiKey] = Redact(value)
	}
	return headers
}

// Redact keeps the first four characters of a secret.
func Redact(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}

// TrustsEnvironmentProxy reports whether proxy environment variables are used.
func (c *Client) TrustsEnvironmentProxy() bool {
	return c.trustEnv
}

func (c *Client) applyProxyPolicy() {
	if c.httpClient.Transport != nil {
		if _, ok := c.httpClient.Transport.(*http.Transport); !ok {
			return
		}
	}
	transport := defaultTransport(c.httpClient)
	if c.trustEnv {
		transport.Proxy = http.ProxyFromEnvironment
	} else {
		transport.Proxy = nil
	}
	c.httpClient.Transport = transport
}

// defaultTransport returns a private copy of the client's transport so the
// shared http.DefaultTransport is never mutated.
func defaultTransport(httpClient *http.Client) *http.Transport {
	if transport, ok := httpClient.Transport.(*http.Transport); ok {
		return transport.Clone()
	}
	return http.DefaultTransport.(*http.Transport).Clone()
}

// Get issues a GET request for path.
func (c *Client) Get(ctx context.Context, path string, query map[string]string) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodGet, path).WithQueryParams(query))
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodPost, path).WithBody(body))
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodPut, path).WithBody(body))
}

// Delete issues a DELETE request for path.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodDelete, path))
}

// Do executes a single request and returns the response with detailed timing
// information. An error is returned only when no HTTP response could be
// obtained; 4xx and 5xx statuses are ordinary responses.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := req.Build(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", req.Method, req.Path, err)
	}

	// Request headers override client headers
	for key, value := range c.headers {
		if httpReq.Header.Get(key) == "" {
			httpReq.Header.Set(key, value)
		}
	}

	timing := TimingInfo{
		StartTime: time.Now(),
	}

	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var dnsDone, connectDone bool

	// End of the last completed connection phase
	lastPhaseEnd := timing.StartTime

	trace := &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			dnsEnd := time.Now()
			timing.DNSLookupTime = dnsEnd.Sub(dnsStart)
			dnsDone = true
			lastPhaseEnd = dnsEnd
		},
		ConnectStart: func(network, addr string) {
			if dnsDone || dnsStart.IsZero() {
				connectStart = time.Now()
			}
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil && !connectStart.IsZero() {
				connectEnd := time.Now()
				timing.TCPConnectTime = connectEnd.Sub(connectStart)
				connectDone = true
				lastPhaseEnd = connectEnd
			}
		},
		TLSHandshakeStart: func() {
			if connectDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil && !tlsHandshakeStart.IsZero() {
				tlsHandshakeEnd := time.Now()
				timing.TLSHandshakeTime = tlsHandshakeEnd.Sub(tlsHandshakeStart)
				lastPhaseEnd = tlsHandshakeEnd
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}

	httpReq = httpReq.WithContext(httptrace.WithClientTrace(ctx, trace))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: httpReq.Method, URL: httpReq.URL.String(), Err: err}
	}
	defer httpResp.Body.Close()

	contentTransferStart := time.Now()
	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Method: httpReq.Method, URL: httpReq.URL.String(), Err: fmt.Errorf("reading body: %w", err)}
	}
	timing.ContentTransferTime = time.Since(contentTransferStart)
	timing.TotalTime = time.Since(timing.StartTime)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Elapsed:    timing.TotalTime,
		Timing:     timing,
		rawBody:    bodyBytes,
	}, nil
}
