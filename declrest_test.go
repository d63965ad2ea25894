package declrest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qbx2/declrest/packages/decode"
)

func TestCallFullPipeline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/users/7", r.URL.Path)
		assert.Equal(t, "full", r.URL.Query().Get("view"))
		assert.Equal(t, "token-abc", r.Header.Get("X-Auth"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"name":"ana"}`))
	}))
	defer server.Close()

	user := New(
		Endpoint(server.URL),
		GET(T("/users/{id}")),
		Query("view", "full"),
		Header("X-Auth", T("token-{token}")),
		JSONDecode(),
		Params(Bind("id"), BindDefault("token", "abc")),
	)

	out, err := user.Call(context.Background(), Args{7}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": float64(7), "name": "ana"}, out)
}

func TestCallNoDecodeStepsReturnsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain"))
	}))
	defer server.Close()

	req := New(Endpoint(server.URL))
	out, err := req.Call(context.Background(), nil, nil)
	require.NoError(t, err)

	resp, ok := out.(*Response)
	require.True(t, ok)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "plain", resp.BodyString())
}

func TestCallFormBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "declrest", r.PostFormValue("name"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	req := New(
		Endpoint(server.URL),
		POST("/submit"),
		Header("Content-Type", "application/x-www-form-urlencoded"),
		Form("name", T("{name}")),
	)

	out, err := req.Call(context.Background(), nil, Overrides{"name": "declrest"})
	require.NoError(t, err)
	assert.Equal(t, 201, out.(*Response).StatusCode)
}

func TestCallConcurrentIsolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer server.Close()

	req := New(
		Endpoint(server.URL),
		GET(T("/echo/{v}")),
		Decode(""),
		Params(Bind("v")),
	)

	const calls = 16
	var wg sync.WaitGroup
	results := make([]any, calls)
	errs := make([]error, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = req.Call(context.Background(), Args{i}, nil)
		}(i)
	}
	wg.Wait()

	for i := 0; i < calls; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "/echo/"+itoa(i), results[i])
	}
}

func TestGroupFallbackThroughAncestors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "base-token", r.Header.Get("X-Auth"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	root := NewGroup(
		Endpoint(server.URL),
		Header("X-Auth", "base-token"),
	)
	// Two levels down, nothing declared: resolves to the root's base.
	leaf := root.Child().Child()

	req := leaf.Request(GET("/x"), Decode(""))
	out, err := req.Call(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestGroupRequestFieldsOverrideGroupBase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	g := NewGroup(
		Endpoint(server.URL),
		GET("/from-group"),
	)
	req := g.Request(POST("/from-request"), Read())

	desc, err := req.Describe(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "POST", desc.Method)
	assert.Equal(t, "/from-request", desc.URL)

	_, err = req.Call(context.Background(), nil, nil)
	require.NoError(t, err)
}

func TestGroupSelfBinding(t *testing.T) {
	g := NewGroup(
		Endpoint("example.com"),
		Self("tenant-1"),
	)
	req := g.Request(GET(T("/tenants/{self}")))

	desc, err := req.Describe(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "/tenants/tenant-1", desc.URL)
}

func TestMutatorReplacementDrivesEverything(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "replaced", r.Header.Get("X-Src"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "replacement body", string(body))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	req := New(
		Endpoint("ignored.example.com"),
		GET("/ignored"),
		Header("X-Src", "original"),
		Mutate(func(c *MutatorCall, _ *Spec) *Spec {
			repl := NewSpec()
			repl.AddEndpoint(server.URL)
			repl.AddMethod("PUT")
			repl.AddPath("/put")
			repl.AddHeader("X-Src", "replaced")
			repl.AddBody("replacement body")
			return repl
		}),
		Decode(""),
	)

	out, err := req.Call(context.Background(), nil, nil)
	require.NoError(t, err)

	// The replacement spec declared no decode steps, so the one declared
	// above is gone along with everything else and the raw response
	// comes back.
	resp, ok := out.(*Response)
	require.True(t, ok, "got %T, want *Response", out)
	assert.Equal(t, "ok", resp.BodyString())
}

func TestResultHookAfterDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"name":"qbx2"}}`))
	}))
	defer server.Close()

	req := New(
		Endpoint(server.URL),
		GET("/user"),
		Read(),
		ResultHook(decode.ExtractPath("user.name")),
	)

	out, err := req.Call(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "qbx2", out)
}

func TestSingletonViolationSurfacesAtCallTime(t *testing.T) {
	req := New(
		Endpoint("example.com"),
		GET("/a"),
		POST("/b"),
	)

	_, err := req.Describe(nil, nil)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "method", cfgErr.Field)
}

func TestTimeoutAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	req := New(
		Endpoint(server.URL),
		Timeout(30*time.Millisecond),
	)

	_, err := req.Call(context.Background(), nil, nil)
	assert.Error(t, err)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	s := ""
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	return s
}
