package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

// TimingInfo stores detailed timing information for an HTTP request.
// All durations represent the time spent in each phase of the request.
type TimingInfo struct {
	// StartTime is when the request started
	StartTime time.Time

	// DNSLookupTime is the time spent looking up the DNS address
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing a TCP connection
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent performing the TLS handshake (for HTTPS)
	TLSHandshakeTime time.Duration

	// TimeToFirstByte is the time from the last connection phase to the first response byte
	TimeToFirstByte time.Duration

	// ContentTransferTime is the time spent reading the response body
	ContentTransferTime time.Duration

	// TotalTime is the total time from request start to completion
	TotalTime time.Duration
}

// Response is the record of a single completed request. The body has already
// been read in full, so every accessor may be called any number of times.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header

	// Elapsed is the wall-clock duration of the whole call, body included.
	Elapsed time.Duration

	Timing TimingInfo

	rawBody []byte
}

// NewResponse builds a Response from its parts. Client.Do is the usual
// source of responses; this exists for formatters and tests.
func NewResponse(statusCode int, headers http.Header, body []byte, elapsed time.Duration) *Response {
	if headers == nil {
		headers = make(http.Header)
	}
	return &Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Headers:    headers,
		Elapsed:    elapsed,
		Timing:     TimingInfo{TotalTime: elapsed},
		rawBody:    body,
	}
}

// GetBody returns the response body as a byte array
func (r *Response) GetBody() ([]byte, error) {
	return r.rawBody, nil
}

// GetBodyAsString returns the response body as a string
func (r *Response) GetBodyAsString() (string, error) {
	return string(r.rawBody), nil
}

// GetBodyAsJSON unmarshals the response body into the provided interface
func (r *Response) GetBodyAsJSON(v interface{}) error {
	return json.Unmarshal(r.rawBody, v)
}

// IsEmpty reports whether the body is empty or only whitespace.
func (r *Response) IsEmpty() bool {
	return len(bytes.TrimSpace(r.rawBody)) == 0
}

// GetHeader returns the value of the specified header
func (r *Response) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// IsSuccess returns true if the response status code is in the 2xx range
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect returns true if the response status code is in the 3xx range
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// IsClientError returns true if the response status code is in the 4xx range
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError returns true if the response status code is in the 5xx range
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// IsError returns true for 4xx and 5xx responses
func (r *Response) IsError() bool {
	return r.IsClientError() || r.IsServerError()
}

// GetResponseTimeMillis returns the elapsed time in milliseconds
func (r *Response) GetResponseTimeMillis() int64 {
	return r.Elapsed.Milliseconds()
}

func (r *Response) GetDNSLookupTimeMillis() int64 {
	return r.Timing.DNSLookupTime.Milliseconds()
}

func (r *Response) GetTCPConnectTimeMillis() int64 {
	return r.Timing.TCPConnectTime.Milliseconds()
}

func (r *Response) GetTLSHandshakeTimeMillis() int64 {
	return r.Timing.TLSHandshakeTime.Milliseconds()
}

func (r *Response) GetTimeToFirstByteMillis() int64 {
	return r.Timing.TimeToFirstByte.Milliseconds()
}

func (r *Response) GetContentTransferTimeMillis() int64 {
	return r.Timing.ContentTransferTime.Milliseconds()
}

func (r *Response) GetTotalTimeMillis() int64 {
	return r.Timing.TotalTime.Milliseconds()
}
