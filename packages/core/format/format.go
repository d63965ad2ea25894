package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/qbx2/declrest/packages/builtin"
	"github.com/qbx2/declrest/packages/core/spec"
)

// Template is a string explicitly tagged for placeholder substitution.
// Ordinary strings never substitute, even when they contain
// placeholder-like syntax.
type Template string

// Context is the name -> value mapping placeholders resolve against
// for one call.
type Context map[string]any

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

var funcs = builtin.NewRegistry()

// RegisterFunc adds a template function to the registry Format calls
// for {name(args)} placeholders, alongside the builtins.
func RegisterFunc(name string, fn builtin.Func) {
	funcs.Register(name, fn)
}

// Format recursively substitutes placeholders in values tagged as
// Template:
//
//   - Template: every {name} placeholder is replaced with ctx[name];
//     {fn(args)} placeholders call a builtin function. An unknown name
//     is a configuration error.
//   - Plain strings and other scalars pass through unchanged.
//   - []any is formatted element-wise.
//   - map[any]any and map[string]any have both keys and values
//     formatted, which allows templated header and query key names.
//   - Any other container is opaque and passes through unchanged.
func Format(v any, ctx Context) (any, error) {
	switch t := v.(type) {
	case Template:
		return substitute(string(t), ctx)
	case string:
		return t, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			fe, err := Format(e, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = fe
		}
		return out, nil
	case map[any]any:
		out := make(map[any]any, len(t))
		for k, e := range t {
			fk, err := Format(k, ctx)
			if err != nil {
				return nil, err
			}
			fe, err := Format(e, ctx)
			if err != nil {
				return nil, err
			}
			out[fk] = fe
		}
		return out, nil
	case map[string]any:
		// string keys cannot carry the Template tag, so only values
		// are formatted here.
		out := make(map[string]any, len(t))
		for k, e := range t {
			fe, err := Format(e, ctx)
			if err != nil {
				return nil, err
			}
			out[k] = fe
		}
		return out, nil
	default:
		return v, nil
	}
}

func substitute(s string, ctx Context) (string, error) {
	var firstErr error
	out := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		expr := strings.TrimSpace(match[1 : len(match)-1])

		if strings.Contains(expr, "(") {
			if result, ok := funcs.Call(expr); ok {
				return fmt.Sprintf("%v", result)
			}
			if firstErr == nil {
				firstErr = &spec.ConfigError{Field: "format", Reason: "unknown function: " + expr}
			}
			return match
		}

		if val, ok := ctx[expr]; ok {
			return fmt.Sprintf("%v", val)
		}
		if firstErr == nil {
			firstErr = &spec.ConfigError{Field: "format", Reason: "unknown name: " + expr}
		}
		return match
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// Merge layers contexts left to right: on key collision a later
// context overrides an earlier one.
func Merge(layers ...Context) Context {
	out := make(Context)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}
