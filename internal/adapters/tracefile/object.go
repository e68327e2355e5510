package tracefile

import (
	"go.trai.ch/reuse/internal/core/domain"
)

// Type names given to untagged containers.
const (
	ObjectType = "object"
	ArrayType  = "array"
)

var (
	_ domain.Traversable = (*Object)(nil)
	_ domain.Typed       = (*Object)(nil)
	_ domain.Identified  = (*Object)(nil)
)

// Object is a value recorded by another host. Its type identity comes from
// the "$type" tag and its node identity from "$id" or a YAML anchor.
type Object struct {
	typeName string
	id       string
	children []domain.Child
}

// TypeName returns the recorded type name.
func (o *Object) TypeName() string { return o.typeName }

// NodeID returns the recorded identity, empty if none was recorded.
func (o *Object) NodeID() string { return o.id }

// Children returns the members of the object in document order.
func (o *Object) Children() ([]domain.Child, error) { return o.children, nil }
