package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test.
// It mirrors t.Chdir, which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30000, c.Timeout)
	assert.True(t, c.GetFollowRedirects())
	assert.True(t, c.GetValidateSSL())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".declrest.yml")
	content := `
timeout: 5000
followRedirects: false
proxy: http://localhost:8888
headers:
  User-Agent: declrest-test
rateLimit: 10
rateBurst: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, c.Timeout)
	assert.False(t, c.GetFollowRedirects())
	assert.Equal(t, "http://localhost:8888", c.Proxy)
	assert.Equal(t, "declrest-test", c.Headers["User-Agent"])
	assert.Equal(t, 10.0, c.RateLimit)
	assert.Equal(t, 2, c.RateBurst)
}

func TestLoadSearchesKnownFilenames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "declrest.yaml"), []byte("timeout: 123"), 0o644))
	chdir(t, dir)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 123, c.Timeout)
}

func TestClientOptionsCount(t *testing.T) {
	c := Default()
	c.Proxy = "http://localhost:1"
	c.Headers = map[string]string{"A": "1"}
	c.RateLimit = 5

	opts := c.ClientOptions()
	// redirects + ssl + timeout + maxRedirects + proxy + headers + rate limit
	assert.Len(t, opts, 7)
}
