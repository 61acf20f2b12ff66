package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("Expected method GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/users/2" {
			t.Errorf("Expected path /api/users/2, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "reqres-free-v1" {
			t.Errorf("Expected x-api-key header, got %q", r.Header.Get("x-api-key"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data":{"id":2}}`))
	}))
	defer server.Close()

	client := NewClient(
		WithTimeout(5*time.Second),
		WithBaseURL(server.URL+"/api"),
		WithAPIKey("x-api-key", "reqres-free-v1"),
	)

	resp, err := client.Do(context.Background(), NewRequest("GET", "/users/2"))
	if err != nil {
		t.Fatalf("Error executing request: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if resp.GetHeader("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type: application/json, got %s", resp.GetHeader("Content-Type"))
	}

	body, _ := resp.GetBodyAsString()
	if body != `{"data":{"id":2}}` {
		t.Errorf("Unexpected body %s", body)
	}

	if resp.Elapsed <= 0 || resp.Timing.TotalTime <= 0 {
		t.Errorf("Expected positive timing, got elapsed=%v total=%v", resp.Elapsed, resp.Timing.TotalTime)
	}
	if resp.Timing.StartTime.IsZero() {
		t.Errorf("Expected start time to be recorded")
	}
}

func TestClient_WithOptions(t *testing.T) {
	timeout := 10 * time.Second
	baseURL := "https://reqres.in/api"

	client := NewClient(
		WithTimeout(timeout),
		WithBaseURL(baseURL),
		WithHeader("Accept", "application/json"),
		WithAPIKey("x-api-key", "secret"),
	)

	assert.Equal(t, timeout, client.httpClient.Timeout)
	assert.Equal(t, baseURL, client.BaseURL())
	assert.Equal(t, map[string]string{"Accept": "application/json", "x-api-key": "secret"}, client.Headers())
	assert.False(t, client.TrustsEnvironmentProxy())
}

func TestClient_RedactedHeaders(t *testing.T) {
	client := NewClient(
		WithHeader("Accept", "application/json"),
		WithAPIKey("x-api-key", "reqres-free-v1"),
	)

	assert.Equal(t, map[string]string{"Accept": "application/json", "x-api-key": "reqr****"}, client.RedactedHeaders())
	assert.Equal(t, "reqres-free-v1", client.Headers()["x-api-key"], "redaction works on a copy")
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "reqr****", Redact("reqres-free-v1"))
	assert.Equal(t, "****", Redact("abcd"))
	assert.Equal(t, "****", Redact(""))
}

func TestClient_InsecureSkipVerify(t *testing.T) {
	server := httptest.NewTLSServer(httphelpers.HandlerWithStatus(http.StatusOK))
	defer server.Close()

	_, err := NewClient(WithBaseURL(server.URL)).Get(context.Background(), "/", nil)
	require.Error(t, err, "self-signed certificate should be rejected by default")
	assert.True(t, IsTransportError(err))

	resp, err := NewClient(WithBaseURL(server.URL), WithInsecureSkipVerify()).Get(context.Background(), "/", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_DefaultTimeout(t *testing.T) {
	client := NewClient(WithTimeout(0))

	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}

func TestClient_WithAPIKeyIgnoresEmptyValues(t *testing.T) {
	client := NewClient(WithAPIKey("x-api-key", ""), WithAPIKey("", "key"))

	assert.Empty(t, client.Headers())
}

func TestClient_IgnoresProxyEnvironment(t *testing.T) {
	t.Setenv("HTTP_PROXY", "http://proxy.invalid:3128")
	t.Setenv("HTTPS_PROXY", "http://proxy.invalid:3128")

	client := NewClient()

	transport, ok := client.httpClient.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Nil(t, transport.Proxy)
}

func TestClient_TrustsProxyEnvironmentWhenAsked(t *testing.T) {
	client := NewClient(WithProxyFromEnvironment(true))

	transport, ok := client.httpClient.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, transport.Proxy)
	assert.True(t, client.TrustsEnvironmentProxy())
}

func TestClient_LeavesCustomRoundTripperAlone(t *testing.T) {
	rt := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return httptest.NewRecorder().Result(), nil
	})

	client := NewClient(WithHTTPClient(&http.Client{Transport: rt}))

	_, isTransport := client.httpClient.Transport.(*http.Transport)
	assert.False(t, isTransport)
}

func TestClient_DoesNotMutateDefaultTransport(t *testing.T) {
	_ = NewClient()

	assert.NotNil(t, http.DefaultTransport.(*http.Transport).Proxy)
}

func TestClient_SendsHeadersAndJSONBody(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(201))
	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAPIKey("x-api-key", "reqres-free-v1"))

	resp, err := client.Post(context.Background(), "/users", map[string]string{"name": "Matthew", "job": "QA Engineer"})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	info := <-requestsCh
	assert.Equal(t, "POST", info.Request.Method)
	assert.Equal(t, "/users", info.Request.URL.Path)
	assert.Equal(t, "reqres-free-v1", info.Request.Header.Get("x-api-key"))
	assert.Equal(t, "application/json", info.Request.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"name":"Matthew","job":"QA Engineer"}`, string(info.Body))
}

func TestClient_RequestHeaderOverridesClientHeader(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAPIKey("x-api-key", "default"))

	_, err := client.Do(context.Background(), NewRequest("GET", "/users").WithHeader("x-api-key", "override"))
	require.NoError(t, err)

	info := <-requestsCh
	assert.Equal(t, "override", info.Request.Header.Get("x-api-key"))
}

func TestClient_Helpers(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(204))
	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	ctx := context.Background()

	_, err := client.Get(ctx, "/users", map[string]string{"page": "2"})
	require.NoError(t, err)
	_, err = client.Put(ctx, "/users/2", map[string]string{"job": "Senior QA"})
	require.NoError(t, err)
	_, err = client.Delete(ctx, "/users/2")
	require.NoError(t, err)

	get := <-requestsCh
	assert.Equal(t, "GET", get.Request.Method)
	assert.Equal(t, "2", get.Request.URL.Query().Get("page"))

	put := <-requestsCh
	assert.Equal(t, "PUT", put.Request.Method)
	assert.Equal(t, "/users/2", put.Request.URL.Path)

	del := <-requestsCh
	assert.Equal(t, "DELETE", del.Request.Method)
	assert.Empty(t, del.Body)
}

func TestClient_ErrorStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithResponse(404, nil, []byte("{}")))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	resp, err := client.Get(context.Background(), "/users/23", nil)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.True(t, resp.IsClientError())
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	baseURL := server.URL
	server.Close()

	client := NewClient(WithBaseURL(baseURL), WithTimeout(2*time.Second))

	resp, err := client.Get(context.Background(), "/users", nil)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, IsTransportError(err))

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "GET", transportErr.Method)
	assert.Equal(t, baseURL+"/users", transportErr.URL)

	var urlErr *url.Error
	assert.ErrorAs(t, err, &urlErr)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))

	_, err := client.Get(context.Background(), "/users", nil)
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.True(t, transportErr.Timeout())
}

func TestClient_InvalidBaseURL(t *testing.T) {
	client := NewClient(WithBaseURL("://bad"))

	_, err := client.Get(context.Background(), "/users", nil)
	require.Error(t, err)
	assert.False(t, IsTransportError(err), "a malformed request is not a transport failure")
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
