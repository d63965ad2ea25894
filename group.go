package declrest

import (
	"github.com/qbx2/declrest/packages/core/spec"
	dhttp "github.com/qbx2/declrest/packages/http"
)

// Group attaches a base spec to a family of requests, the way a class
// carries declarations for its methods. Groups form an explicit
// ancestor chain: a group that declares nothing of its own resolves to
// the nearest ancestor that does.
type Group struct {
	parent *Group
	proto  *Request
}

// NewGroup builds a root group from annotations.
func NewGroup(opts ...Option) *Group {
	return &Group{proto: New(opts...)}
}

// Child derives a subgroup. Without annotations of its own it falls
// back to this group's declarations.
func (g *Group) Child(opts ...Option) *Group {
	return &Group{parent: g, proto: New(opts...)}
}

// Request declares a request attached to the group: its own fields
// override the group base field by field, and the group's self value
// is bound under "self" in the format context.
func (g *Group) Request(opts ...Option) *Request {
	r := New(opts...)
	r.group = g
	return r
}

// resolveBase walks the ancestor chain for the nearest declared base
// spec.
func (g *Group) resolveBase() *spec.Spec {
	for cur := g; cur != nil; cur = cur.parent {
		if !cur.proto.base.Empty() {
			return cur.proto.base
		}
	}
	return nil
}

func (g *Group) resolveSelf() any {
	for cur := g; cur != nil; cur = cur.parent {
		if cur.proto.self != nil {
			return cur.proto.self
		}
	}
	return nil
}

func (g *Group) resolveMutator() Mutator {
	for cur := g; cur != nil; cur = cur.parent {
		if cur.proto.mutator != nil {
			return cur.proto.mutator
		}
	}
	return nil
}

func (g *Group) resolveBindings() []Binding {
	for cur := g; cur != nil; cur = cur.parent {
		if len(cur.proto.bindings) > 0 {
			return cur.proto.bindings
		}
	}
	return nil
}

func (g *Group) resolveClient() *dhttp.Client {
	for cur := g; cur != nil; cur = cur.parent {
		if cur.proto.client != nil {
			return cur.proto.client
		}
	}
	return nil
}
