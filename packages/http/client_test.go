package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qbx2/declrest/packages/core/resolve"
)

func descriptorFor(serverURL, method, path string) *resolve.Descriptor {
	host := strings.TrimPrefix(serverURL, "http://")
	return &resolve.Descriptor{
		Scheme:  "http",
		Host:    host,
		Method:  method,
		URL:     path,
		Headers: map[string]string{},
	}
}

func TestClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/test", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("x"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "hello"}`))
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(nil, descriptorFor(server.URL, "GET", "/test?x=1"))

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header("Content-Type"))
	assert.Contains(t, resp.BodyString(), "hello")
}

func TestClient_DoSendsBodyAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "qbx2", r.PostFormValue("name"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	d := descriptorFor(server.URL, "POST", "/")
	d.Headers["Content-Type"] = "application/x-www-form-urlencoded"
	d.Body = []byte("name=qbx2")

	client := NewClient()
	resp, err := client.Do(nil, d)

	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestClient_DescriptorTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := descriptorFor(server.URL, "GET", "/")
	d.Timeout = 50 * time.Millisecond

	client := NewClient()
	_, err := client.Do(nil, d)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "context deadline exceeded")
}

func TestClient_WithDefaultHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithDefaultHeader("Authorization", "test-token"))
	resp, err := client.Do(nil, descriptorFor(server.URL, "GET", "/"))

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestClient_DescriptorHeaderBeatsDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "per-request", r.Header.Get("X-Mode"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := descriptorFor(server.URL, "GET", "/")
	d.Headers["X-Mode"] = "per-request"

	client := NewClient(WithDefaultHeader("X-Mode", "default"))
	_, err := client.Do(nil, d)
	require.NoError(t, err)
}

func TestClient_NoFollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/final" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/final", http.StatusFound)
	}))
	defer server.Close()

	client := NewClient(WithFollowRedirects(false))
	resp, err := client.Do(nil, descriptorFor(server.URL, "GET", "/start"))

	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
}

func TestClient_RateLimitDelaysSecondRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithRateLimit(20, 1))
	d := descriptorFor(server.URL, "GET", "/")

	start := time.Now()
	_, err := client.Do(nil, d)
	require.NoError(t, err)
	_, err = client.Do(nil, d)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestResponse_Helpers(t *testing.T) {
	resp := &Response{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
		Body:       []byte(`{"ok":true}`),
		Duration:   1500 * time.Millisecond,
	}

	assert.Equal(t, "application/json; charset=utf-8", resp.Header("content-type"))
	assert.True(t, resp.IsJSON())
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, int64(1500), resp.DurationMs())

	parsed, err := resp.BodyJSON()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, parsed)
}
