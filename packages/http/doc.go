// Package http is the transport collaborator: it opens the connection
// for a finalized request descriptor, sends it, and returns the fully
// read response.
//
// It wraps the standard library's http package with:
//   - Per-descriptor timeouts via context
//   - Redirect and proxy handling
//   - Optional client-side rate limiting
//   - Default headers applied under the request's own
package http
