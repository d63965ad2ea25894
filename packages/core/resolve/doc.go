// Package resolve finalizes a declared spec against one call: it
// deep-copies the base, collapses multi-valued fields into key-unique
// maps, applies the optional mutator, enforces singleton invariants,
// parses the endpoint, substitutes templates and encodes query and
// body into a transport-ready Descriptor.
package resolve
