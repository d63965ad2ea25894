package resolve

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/qbx2/declrest/packages/core/format"
	"github.com/qbx2/declrest/packages/core/spec"
)

// Binding names one expected positional call argument and, optionally,
// the value used when the call does not supply it. The binding table
// is the explicit contract between call arguments and template
// placeholder names.
type Binding struct {
	Name       string
	Default    any
	HasDefault bool
}

// Call carries everything one invocation supplies: positional
// arguments bound through the binding table, explicit keyword
// overrides, and the reserved owner value when the declaration is
// attached through a group.
type Call struct {
	Args      []any
	Overrides map[string]any
	Bindings  []Binding
	Self      any
}

// Mutator adjusts the per-call spec copy before it is finalized. A nil
// return keeps the (possibly mutated in place) spec; a non-nil return
// replaces it wholesale.
type Mutator func(*Call, *spec.Spec) *spec.Spec

// Descriptor is the finalized, fully substituted request handed to the
// transport: scheme, host, method, url (path plus encoded query),
// headers, body and timeout. It lives for one call.
type Descriptor struct {
	Scheme  string
	Host    string
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Timeout time.Duration
}

// Resolved bundles the descriptor with the decode chain configuration
// that applies to the response.
type Resolved struct {
	Descriptor *Descriptor
	Steps      []spec.Step
	Hooks      []spec.Hook
}

// Finalize turns a base spec plus one call into a Resolved request:
// deep copy, pair collapsing, optional mutator, singleton resolution,
// endpoint parsing, template formatting, and query/body encoding, in
// that order.
func Finalize(base *spec.Spec, mut Mutator, call *Call) (*Resolved, error) {
	if call == nil {
		call = &Call{}
	}

	s := base.Clone()
	s.Collapse()

	if mut != nil {
		if replacement := mut(call, s); replacement != nil {
			s = replacement
		}
		// Pick up pairs the mutator appended, on the in-place spec as
		// much as on a replacement.
		s.Collapse()
	}

	endpointVal, err := spec.Single("endpoint", s.Endpoints)
	if err != nil {
		return nil, err
	}
	defaultScheme := "http"
	if v, ok, err := spec.Maybe("scheme", s.Schemes); err != nil {
		return nil, err
	} else if ok {
		defaultScheme = v
	}

	epStr, epTemplated := templateString(endpointVal)
	scheme, authority, embedded := ParseEndpoint(epStr, defaultScheme)
	if scheme != "http" && scheme != "https" {
		return nil, &spec.ConfigError{Field: "scheme", Reason: "unsupported scheme: " + scheme}
	}

	methodVal := any("GET")
	if v, ok, err := spec.Maybe("method", s.Methods); err != nil {
		return nil, err
	} else if ok {
		methodVal = v
	}

	// An explicitly declared path discards whatever path, query or
	// fragment was embedded in the endpoint string.
	pathVal, declared, err := spec.Maybe("path", s.Paths)
	if err != nil {
		return nil, err
	}
	if !declared {
		if epTemplated {
			pathVal = format.Template(embedded)
		} else {
			pathVal = embedded
		}
	}

	bodyVal, hasBody, err := spec.Maybe("body", s.Bodies)
	if err != nil {
		return nil, err
	}
	timeout, _, err := spec.Maybe("timeout", s.Timeouts)
	if err != nil {
		return nil, err
	}

	hostVal := any(authority)
	if epTemplated {
		hostVal = format.Template(authority)
	}

	ctx := buildContext(s, call, scheme, hostVal, methodVal, pathVal, bodyVal, timeout)

	host, err := formatString(hostVal, ctx)
	if err != nil {
		return nil, err
	}
	if host == "" {
		return nil, &spec.ConfigError{Field: "endpoint", Reason: "missing host"}
	}
	method, err := formatString(methodVal, ctx)
	if err != nil {
		return nil, err
	}
	path, err := formatString(pathVal, ctx)
	if err != nil {
		return nil, err
	}

	headers, err := formatHeaders(s.Headers, ctx)
	if err != nil {
		return nil, err
	}

	requestURL, err := appendQuery(path, s.Query, ctx)
	if err != nil {
		return nil, err
	}

	body, err := encodeBody(bodyVal, hasBody, s.Form, ctx)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Descriptor: &Descriptor{
			Scheme:  scheme,
			Host:    host,
			Method:  method,
			URL:     requestURL,
			Headers: headers,
			Body:    body,
			Timeout: timeout,
		},
		Steps: s.Steps,
		Hooks: s.Hooks,
	}, nil
}

// buildContext assembles the format context for one call. Later layers
// win on key collision: resolved spec fields, then parameter bindings,
// then explicit overrides, then the reserved self binding.
func buildContext(s *spec.Spec, call *Call, scheme string, host, method, path, body any, timeout time.Duration) format.Context {
	specLayer := format.Context{
		"scheme":   scheme,
		"endpoint": host,
		"method":   method,
		"path":     path,
	}
	if body != nil {
		specLayer["body"] = body
	}
	if timeout > 0 {
		specLayer["timeout"] = timeout
	}
	if len(s.Query) > 0 {
		specLayer["query"] = s.Query
	}
	if len(s.Headers) > 0 {
		specLayer["headers"] = s.Headers
	}
	if len(s.Form) > 0 {
		specLayer["form"] = s.Form
	}

	bindingLayer := make(format.Context, len(call.Bindings))
	for i, b := range call.Bindings {
		if i < len(call.Args) {
			bindingLayer[b.Name] = call.Args[i]
		} else if b.HasDefault {
			bindingLayer[b.Name] = b.Default
		}
	}

	overrideLayer := format.Context(call.Overrides)

	selfLayer := format.Context{}
	if call.Self != nil {
		selfLayer["self"] = call.Self
	}

	return format.Merge(specLayer, bindingLayer, overrideLayer, selfLayer)
}

func appendQuery(path string, query map[any]any, ctx format.Context) (string, error) {
	if len(query) == 0 {
		return path, nil
	}
	formatted, err := format.Format(query, ctx)
	if err != nil {
		return "", err
	}
	values := url.Values{}
	for k, v := range formatted.(map[any]any) {
		values.Set(fmt.Sprint(k), fmt.Sprint(v))
	}
	splitter := "?"
	if strings.Contains(path, "?") {
		splitter = "&"
	}
	return path + splitter + values.Encode(), nil
}

// encodeBody resolves the request body: an explicit body wins
// verbatim, otherwise form data is url-encoded, otherwise there is no
// body.
func encodeBody(bodyVal any, hasBody bool, form map[any]any, ctx format.Context) ([]byte, error) {
	if hasBody {
		formatted, err := format.Format(bodyVal, ctx)
		if err != nil {
			return nil, err
		}
		switch b := formatted.(type) {
		case string:
			return []byte(b), nil
		case []byte:
			return b, nil
		case nil:
			return nil, nil
		default:
			return nil, &spec.ConfigError{Field: "body", Reason: fmt.Sprintf("cannot encode body of type %T", formatted)}
		}
	}

	if len(form) == 0 {
		return nil, nil
	}
	formatted, err := format.Format(form, ctx)
	if err != nil {
		return nil, err
	}
	values := url.Values{}
	for k, v := range formatted.(map[any]any) {
		switch v.(type) {
		case map[any]any, map[string]any, []any:
			return nil, &spec.ConfigError{Field: "form", Reason: fmt.Sprintf("cannot encode form value of type %T", v)}
		}
		values.Set(fmt.Sprint(k), fmt.Sprint(v))
	}
	return []byte(values.Encode()), nil
}

func formatHeaders(headers map[any]any, ctx format.Context) (map[string]string, error) {
	out := make(map[string]string, len(headers))
	if len(headers) == 0 {
		return out, nil
	}
	formatted, err := format.Format(headers, ctx)
	if err != nil {
		return nil, err
	}
	for k, v := range formatted.(map[any]any) {
		out[fmt.Sprint(k)] = fmt.Sprint(v)
	}
	return out, nil
}

func formatString(v any, ctx format.Context) (string, error) {
	formatted, err := format.Format(v, ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(formatted), nil
}

// templateString extracts the underlying string of a value and whether
// it carries the template tag.
func templateString(v any) (string, bool) {
	switch t := v.(type) {
	case format.Template:
		return string(t), true
	case string:
		return t, false
	default:
		return fmt.Sprint(t), false
	}
}
