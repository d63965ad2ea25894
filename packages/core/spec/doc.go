// Package spec holds the accumulated declarative description of a
// request: ordered multi-valued fields for query, header, form, decode
// steps and result hooks, and singleton fields for endpoint, method,
// path, body and timeout.
//
// A Spec is written once at declaration time; every call works on a
// deep copy, so concurrent calls against the same declaration never
// observe each other's state.
package spec
