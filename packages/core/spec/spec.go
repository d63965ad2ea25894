package spec

import (
	"time"
)

// Pair is one accumulated key/value occurrence of a multi-valued field.
// Keys and values may be format.Template strings, so both are held as any.
type Pair struct {
	Key   any
	Value any
}

// Hook transforms the current value of the decode pipeline.
type Hook func(any) (any, error)

// StepKind identifies one of the built-in decode steps.
type StepKind int

const (
	StepRead StepKind = iota
	StepText
	StepExtract
	StepJSON
)

func (k StepKind) String() string {
	switch k {
	case StepRead:
		return "read-raw"
	case StepText:
		return "decode-text"
	case StepExtract:
		return "regex-extract"
	case StepJSON:
		return "parse-json"
	default:
		return "unknown"
	}
}

// Step is one declared decode step. Only the fields relevant to its
// kind are set: Encoding for StepText, Pattern/Flags for StepExtract.
type Step struct {
	Kind     StepKind
	Encoding string
	Pattern  string
	Flags    string
}

// Spec is the accumulated declarative description of one request.
//
// Appendable fields keep every declared occurrence in declaration
// order. Singleton fields (Endpoints, Methods, Paths, Bodies,
// Timeouts, Schemes) also accumulate; they are checked to hold at
// most one value when the spec is finalized, never before.
//
// Query, Headers and Form are nil until Collapse merges the
// corresponding pair lists into key-unique maps at call time; after
// Collapse all three are non-nil.
type Spec struct {
	Endpoints []any
	Schemes   []string
	Methods   []any
	Paths     []any
	Bodies    []any
	Timeouts  []time.Duration

	QueryParams  []Pair
	HeaderParams []Pair
	FormParams   []Pair

	Query   map[any]any
	Headers map[any]any
	Form    map[any]any

	Steps []Step
	Hooks []Hook
}

func New() *Spec {
	return &Spec{}
}

func (s *Spec) AddEndpoint(v any)           { s.Endpoints = append(s.Endpoints, v) }
func (s *Spec) AddScheme(v string)          { s.Schemes = append(s.Schemes, v) }
func (s *Spec) AddMethod(v any)             { s.Methods = append(s.Methods, v) }
func (s *Spec) AddPath(v any)               { s.Paths = append(s.Paths, v) }
func (s *Spec) AddBody(v any)               { s.Bodies = append(s.Bodies, v) }
func (s *Spec) AddTimeout(d time.Duration)  { s.Timeouts = append(s.Timeouts, d) }
func (s *Spec) AddQuery(key, value any)     { s.QueryParams = append(s.QueryParams, Pair{key, value}) }
func (s *Spec) AddHeader(key, value any)    { s.HeaderParams = append(s.HeaderParams, Pair{key, value}) }
func (s *Spec) AddForm(key, value any)      { s.FormParams = append(s.FormParams, Pair{key, value}) }
func (s *Spec) AddStep(step Step)           { s.Steps = append(s.Steps, step) }
func (s *Spec) AddHook(h Hook)              { s.Hooks = append(s.Hooks, h) }

// Empty reports whether nothing has been declared on the spec.
func (s *Spec) Empty() bool {
	return len(s.Endpoints) == 0 && len(s.Schemes) == 0 && len(s.Methods) == 0 &&
		len(s.Paths) == 0 && len(s.Bodies) == 0 && len(s.Timeouts) == 0 &&
		len(s.QueryParams) == 0 && len(s.HeaderParams) == 0 && len(s.FormParams) == 0 &&
		len(s.Query) == 0 && len(s.Headers) == 0 && len(s.Form) == 0 &&
		len(s.Steps) == 0 && len(s.Hooks) == 0
}

// Clone deep-copies the spec so a call can never mutate declaration-time
// state. Hooks are function values and are copied by reference.
func (s *Spec) Clone() *Spec {
	c := &Spec{
		Endpoints: cloneValues(s.Endpoints),
		Schemes:   append([]string(nil), s.Schemes...),
		Methods:   cloneValues(s.Methods),
		Paths:     cloneValues(s.Paths),
		Bodies:    cloneValues(s.Bodies),
		Timeouts:  append([]time.Duration(nil), s.Timeouts...),
		Steps:     append([]Step(nil), s.Steps...),
		Hooks:     append([]Hook(nil), s.Hooks...),
	}
	c.QueryParams = clonePairs(s.QueryParams)
	c.HeaderParams = clonePairs(s.HeaderParams)
	c.FormParams = clonePairs(s.FormParams)
	c.Query = cloneMap(s.Query)
	c.Headers = cloneMap(s.Headers)
	c.Form = cloneMap(s.Form)
	return c
}

// Merge layers own over base field by field: any field declared on own
// replaces the base's accumulated values for that field wholesale.
// Neither input is modified.
func Merge(base, own *Spec) *Spec {
	if base == nil {
		return own.Clone()
	}
	m := base.Clone()
	o := own.Clone()
	if len(o.Endpoints) > 0 {
		m.Endpoints = o.Endpoints
	}
	if len(o.Schemes) > 0 {
		m.Schemes = o.Schemes
	}
	if len(o.Methods) > 0 {
		m.Methods = o.Methods
	}
	if len(o.Paths) > 0 {
		m.Paths = o.Paths
	}
	if len(o.Bodies) > 0 {
		m.Bodies = o.Bodies
	}
	if len(o.Timeouts) > 0 {
		m.Timeouts = o.Timeouts
	}
	if len(o.QueryParams) > 0 {
		m.QueryParams = o.QueryParams
	}
	if len(o.HeaderParams) > 0 {
		m.HeaderParams = o.HeaderParams
	}
	if len(o.FormParams) > 0 {
		m.FormParams = o.FormParams
	}
	if len(o.Steps) > 0 {
		m.Steps = o.Steps
	}
	if len(o.Hooks) > 0 {
		m.Hooks = o.Hooks
	}
	return m
}

// Collapse merges the accumulated pair lists into key-unique maps:
// a later occurrence of a key overwrites an earlier one. The header
// pairs land in Headers, the field consumed downstream. Pairs appended
// after an earlier Collapse merge into the existing maps, and the maps
// are always non-nil afterwards, so a mutator can both append pairs
// and write map entries directly.
func (s *Spec) Collapse() {
	s.Query = collapseInto(s.Query, s.QueryParams)
	s.QueryParams = nil
	s.Headers = collapseInto(s.Headers, s.HeaderParams)
	s.HeaderParams = nil
	s.Form = collapseInto(s.Form, s.FormParams)
	s.FormParams = nil
}

func collapseInto(m map[any]any, pairs []Pair) map[any]any {
	if m == nil {
		m = make(map[any]any, len(pairs))
	}
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}

// Single resolves a singleton field: exactly one accumulated value is
// required.
func Single[T any](field string, values []T) (T, error) {
	var zero T
	if len(values) != 1 {
		return zero, &ConfigError{Field: field, Reason: "requires exactly 1 value, got " + itoa(len(values))}
	}
	return values[0], nil
}

// Maybe resolves an optional singleton field: zero or one accumulated
// values. Two or more is a configuration error, never resolved by
// picking first or last.
func Maybe[T any](field string, values []T) (T, bool, error) {
	var zero T
	switch len(values) {
	case 0:
		return zero, false, nil
	case 1:
		return values[0], true, nil
	default:
		return zero, false, &ConfigError{Field: field, Reason: "requires at most 1 value, got " + itoa(len(values))}
	}
}

func cloneValues(values []any) []any {
	if values == nil {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = CloneValue(v)
	}
	return out
}

func clonePairs(pairs []Pair) []Pair {
	if pairs == nil {
		return nil
	}
	out := make([]Pair, len(pairs))
	for i, p := range pairs {
		out[i] = Pair{Key: CloneValue(p.Key), Value: CloneValue(p.Value)}
	}
	return out
}

func cloneMap(m map[any]any) map[any]any {
	if m == nil {
		return nil
	}
	out := make(map[any]any, len(m))
	for k, v := range m {
		out[CloneValue(k)] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies the container kinds a spec value can hold.
// Anything else is assumed immutable and returned as-is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		return cloneValues(t)
	case map[any]any:
		return cloneMap(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = CloneValue(e)
		}
		return out
	case []byte:
		return append([]byte(nil), t...)
	default:
		return v
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	s := ""
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	return s
}
