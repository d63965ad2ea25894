// Package decode transforms a raw transport response into the value
// handed back to the caller: the fixed-order built-in chain (read-raw,
// decode-text, regex-extract, parse-json) followed by user result
// hooks in declaration order.
package decode
