package declrest

import (
	"time"

	"github.com/qbx2/declrest/packages/core/spec"
	dhttp "github.com/qbx2/declrest/packages/http"
)

// Option is one declarative annotation. Annotations append to the
// spec's ordered fields; they never overwrite earlier declarations,
// and application order is declaration order.
type Option func(*Request)

// Endpoint declares the endpoint (singleton). The value may carry an
// explicit http:// or https:// scheme and a default path.
func Endpoint(v any) Option {
	return func(r *Request) { r.base.AddEndpoint(v) }
}

// Scheme declares the default scheme used when the endpoint string
// carries none (singleton).
func Scheme(v string) Option {
	return func(r *Request) { r.base.AddScheme(v) }
}

// Method declares the verb and, optionally, the path (singleton each).
func Method(verb string, path ...any) Option {
	return func(r *Request) {
		r.base.AddMethod(verb)
		if len(path) > 0 {
			r.base.AddPath(path[0])
		}
	}
}

func GET(path ...any) Option     { return Method("GET", path...) }
func POST(path ...any) Option    { return Method("POST", path...) }
func PUT(path ...any) Option     { return Method("PUT", path...) }
func PATCH(path ...any) Option   { return Method("PATCH", path...) }
func DELETE(path ...any) Option  { return Method("DELETE", path...) }
func HEAD(path ...any) Option    { return Method("HEAD", path...) }
func OPTIONS(path ...any) Option { return Method("OPTIONS", path...) }

// Header appends a header pair; on duplicate keys the last declared
// value wins when the spec is finalized.
func Header(key, value any) Option {
	return func(r *Request) { r.base.AddHeader(key, value) }
}

// Query appends a query pair; the encoded query string is attached to
// the path at call time.
func Query(key, value any) Option {
	return func(r *Request) { r.base.AddQuery(key, value) }
}

// Form appends a form pair; form data becomes the url-encoded body
// unless an explicit body was declared.
func Form(key, value any) Option {
	return func(r *Request) { r.base.AddForm(key, value) }
}

// Body declares the raw body (singleton); it is used verbatim and
// beats any declared form data.
func Body(v any) Option {
	return func(r *Request) { r.base.AddBody(v) }
}

// Timeout declares the per-call timeout (singleton).
func Timeout(d time.Duration) Option {
	return func(r *Request) { r.base.AddTimeout(d) }
}

// Read enables the read-raw decode step: the caller receives the
// response body bytes.
func Read() Option {
	return func(r *Request) { r.base.AddStep(spec.Step{Kind: spec.StepRead}) }
}

// Decode enables the decode-text step with the given encoding
// (implies read-raw). Empty encoding means UTF-8.
func Decode(encoding string) Option {
	return func(r *Request) { r.base.AddStep(spec.Step{Kind: spec.StepText, Encoding: encoding}) }
}

// Findall enables the regex-extract step (implies decode-text).
// flags, when not empty, are regexp inline flags such as "is".
func Findall(pattern, flags string) Option {
	return func(r *Request) {
		r.base.AddStep(spec.Step{Kind: spec.StepExtract, Pattern: pattern, Flags: flags})
	}
}

// JSONDecode enables the parse-json step (implies decode-text).
func JSONDecode() Option {
	return func(r *Request) { r.base.AddStep(spec.Step{Kind: spec.StepJSON}) }
}

// ResultHook appends an arbitrary post-decode transform; hooks run
// after the built-in steps, in declaration order.
func ResultHook(fn Hook) Option {
	return func(r *Request) { r.base.AddHook(fn) }
}

// Params declares the binding table translating positional call
// arguments into format context names.
func Params(bindings ...Binding) Option {
	return func(r *Request) { r.bindings = append(r.bindings, bindings...) }
}

// Bind names one positional argument.
func Bind(name string) Binding {
	return Binding{Name: name}
}

// BindDefault names one positional argument with a fallback value used
// when the call does not supply it.
func BindDefault(name string, def any) Binding {
	return Binding{Name: name, Default: def, HasDefault: true}
}

// Mutate sets the per-call mutator. Returning a non-nil spec replaces
// the per-call copy wholesale; returning nil keeps the copy, including
// in-place mutations.
func Mutate(fn Mutator) Option {
	return func(r *Request) { r.mutator = fn }
}

// Self binds the reserved "self" format context name.
func Self(v any) Option {
	return func(r *Request) { r.self = v }
}

// WithClient routes calls through the given transport client instead
// of the shared default.
func WithClient(c *dhttp.Client) Option {
	return func(r *Request) { r.client = c }
}
