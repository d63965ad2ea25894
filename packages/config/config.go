package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/qbx2/declrest/packages/http"
)

// Config holds client-wide defaults loaded from a .declrest.yml file.
// It configures the transport collaborator only; it never changes what
// a declared request resolves to.
type Config struct {
	Timeout         int               `yaml:"timeout,omitempty"` // milliseconds
	FollowRedirects *bool             `yaml:"followRedirects,omitempty"`
	MaxRedirects    int               `yaml:"maxRedirects,omitempty"`
	ValidateSSL     *bool             `yaml:"validateSSL,omitempty"`
	Proxy           string            `yaml:"proxy,omitempty"`
	Headers         map[string]string `yaml:"headers,omitempty"`
	RateLimit       float64           `yaml:"rateLimit,omitempty"` // requests per second
	RateBurst       int               `yaml:"rateBurst,omitempty"`
}

// Filenames contains the config file names searched in order.
var Filenames = []string{
	".declrest.yml",
	".declrest.yaml",
	"declrest.yml",
	"declrest.yaml",
}

func Default() *Config {
	return &Config{
		Timeout:      30000,
		MaxRedirects: 10,
		RateBurst:    1,
	}
}

// Load reads configuration from path, or searches the working
// directory for the known file names when path is empty. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFile(path)
	}
	for _, name := range Filenames {
		if _, err := os.Stat(name); err == nil {
			return loadFile(name)
		}
	}
	return Default(), nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects defaults to true.
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL defaults to true.
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// ClientOptions translates the config into transport client options.
func (c *Config) ClientOptions() []http.ClientOption {
	opts := []http.ClientOption{
		http.WithFollowRedirects(c.GetFollowRedirects()),
		http.WithValidateSSL(c.GetValidateSSL()),
	}
	if c.Timeout > 0 {
		opts = append(opts, http.WithTimeout(time.Duration(c.Timeout)*time.Millisecond))
	}
	if c.MaxRedirects > 0 {
		opts = append(opts, http.WithMaxRedirects(c.MaxRedirects))
	}
	if c.Proxy != "" {
		opts = append(opts, http.WithProxy(c.Proxy))
	}
	if len(c.Headers) > 0 {
		opts = append(opts, http.WithDefaultHeaders(c.Headers))
	}
	if c.RateLimit > 0 {
		burst := c.RateBurst
		if burst < 1 {
			burst = 1
		}
		opts = append(opts, http.WithRateLimit(c.RateLimit, burst))
	}
	return opts
}
