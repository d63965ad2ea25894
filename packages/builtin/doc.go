// Package builtin provides the functions available inside template
// placeholders.
//
// Available functions:
//   - uuid(): random UUID v4
//   - now(): current UTC time, RFC 3339
//   - date(layout): current UTC time in a Go time layout
//   - timestamp(), timestampMs(): current Unix timestamp
//   - randomString(length): random alphanumeric string
//   - base64(value), base64Decode(value)
//   - urlEncode(value), urlDecode(value)
//
// Functions are invoked with the {fn(args)} placeholder syntax inside
// template values.
package builtin
