// Package config loads transport client defaults from .declrest.yml
// files: timeout, redirects, SSL validation, proxy, default headers
// and rate limiting.
package config
