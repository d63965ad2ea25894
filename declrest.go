package declrest

import (
	"context"

	"github.com/qbx2/declrest/packages/core/format"
	"github.com/qbx2/declrest/packages/core/resolve"
	"github.com/qbx2/declrest/packages/core/spec"
	"github.com/qbx2/declrest/packages/decode"
	dhttp "github.com/qbx2/declrest/packages/http"
)

type (
	// Template is a string tagged for placeholder substitution.
	Template = format.Template
	// Binding names one expected positional call argument.
	Binding = resolve.Binding
	// Mutator adjusts or replaces the per-call spec copy.
	Mutator = resolve.Mutator
	// MutatorCall is the call information a mutator receives.
	MutatorCall = resolve.Call
	// Hook is a user result transformation run after the built-in
	// decode steps.
	Hook = spec.Hook
	// Descriptor is the finalized request handed to the transport.
	Descriptor = resolve.Descriptor
	// Response is the raw transport response, returned as-is when no
	// decode step is enabled.
	Response = dhttp.Response
	// ConfigError reports an unresolvable declaration.
	ConfigError = spec.ConfigError
	// Spec is the accumulated declaration a mutator receives.
	Spec = spec.Spec
)

// NewSpec builds an empty spec, typically the start of a mutator's
// wholesale replacement.
func NewSpec() *Spec {
	return spec.New()
}

// Args are the positional call arguments, bound through the request's
// binding table.
type Args []any

// Overrides are explicit per-call keyword values; they beat spec
// fields and bindings in the format context.
type Overrides map[string]any

// T tags a string as a template value.
func T(s string) Template {
	return Template(s)
}

var defaultClient = dhttp.NewClient()

// Request is one declared request: the accumulated spec plus its
// call-time contract. Build it once and call it from anywhere;
// declaration state is never mutated by calls.
type Request struct {
	base     *spec.Spec
	group    *Group
	mutator  Mutator
	bindings []Binding
	self     any
	client   *dhttp.Client
}

// New builds a request declaration from composable annotations,
// applied in order.
func New(opts ...Option) *Request {
	r := &Request{base: spec.New()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Call resolves the declaration against the given arguments, sends the
// request, and runs the response through the decode chain. With no
// decode step enabled the raw *Response comes back.
func (r *Request) Call(ctx context.Context, args Args, overrides Overrides) (any, error) {
	resolved, err := r.resolve(args, overrides)
	if err != nil {
		return nil, err
	}

	resp, err := r.transport().Do(ctx, resolved.Descriptor)
	if err != nil {
		// Transport errors surface unmodified.
		return nil, err
	}

	return decode.New(resolved.Steps, resolved.Hooks).Run(resp)
}

// Describe resolves the declaration without sending anything and
// returns the descriptor that would go out.
func (r *Request) Describe(args Args, overrides Overrides) (*Descriptor, error) {
	resolved, err := r.resolve(args, overrides)
	if err != nil {
		return nil, err
	}
	return resolved.Descriptor, nil
}

func (r *Request) resolve(args Args, overrides Overrides) (*resolve.Resolved, error) {
	call := &resolve.Call{
		Args:      args,
		Overrides: overrides,
		Bindings:  r.effectiveBindings(),
		Self:      r.effectiveSelf(),
	}
	return resolve.Finalize(r.effectiveBase(), r.effectiveMutator(), call)
}

// effectiveBase layers the request's own declarations over the nearest
// ancestor group's base spec.
func (r *Request) effectiveBase() *spec.Spec {
	if r.group == nil {
		return r.base
	}
	groupBase := r.group.resolveBase()
	if groupBase == nil {
		return r.base
	}
	return spec.Merge(groupBase, r.base)
}

func (r *Request) effectiveSelf() any {
	if r.self != nil {
		return r.self
	}
	if r.group != nil {
		return r.group.resolveSelf()
	}
	return nil
}

func (r *Request) effectiveMutator() Mutator {
	if r.mutator != nil {
		return r.mutator
	}
	if r.group != nil {
		return r.group.resolveMutator()
	}
	return nil
}

func (r *Request) effectiveBindings() []Binding {
	if len(r.bindings) > 0 {
		return r.bindings
	}
	if r.group != nil {
		return r.group.resolveBindings()
	}
	return nil
}

func (r *Request) transport() *dhttp.Client {
	if r.client != nil {
		return r.client
	}
	if r.group != nil {
		if c := r.group.resolveClient(); c != nil {
			return c
		}
	}
	return defaultClient
}
