// Package format implements deferred template substitution: strings
// tagged as Template have their {name} placeholders resolved against a
// per-call Context, while untagged values pass through untouched.
package format
