package domain

// Traversable is implemented by pipeline values that enumerate their own
// reachable members. The scanner prefers it over reflection.
type Traversable interface {
	Children() ([]Child, error)
}

// Child is one labeled member of a Traversable value.
// Labels starting with "[" are index segments, anything else is a field name.
type Child struct {
	Label string
	Value any
}

// Typed is implemented by values whose type identity is not their Go type,
// such as objects decoded from another host's trace.
type Typed interface {
	TypeName() string
}

// Identified is implemented by values that carry an injected node identity
// in place of their memory address.
type Identified interface {
	NodeID() string
}
