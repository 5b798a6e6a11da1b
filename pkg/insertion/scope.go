package insertion

import (
	"fmt"

	"github.com/platinummonkey/protoweave/pkg/ast"
)

// NativeMarkerFormat is the insertion marker emitted by protoc's Java generator
const NativeMarkerFormat = "// @@protoc_insertion_point(%s)"

// Scope is a protoc native insertion scope
type Scope string

const (
	// ScopeClass is where class-level definitions of a message go
	ScopeClass Scope = "class_scope"
	// ScopeBuilder is where class-level definitions of a message builder go
	ScopeBuilder Scope = "builder_scope"
	// ScopeEnum is where class-level definitions of an enum go
	ScopeEnum Scope = "enum_scope"
	// ScopeMessageImplements is where interfaces implemented by a message go.
	// Inserted interface names must end with a comma.
	ScopeMessageImplements Scope = "message_implements"
	// ScopeBuilderImplements is where interfaces implemented by a builder go.
	// Inserted interface names must end with a comma.
	ScopeBuilderImplements Scope = "builder_implements"
	// ScopeOuterClass is where definitions of the outer class go. It is not typed.
	ScopeOuterClass Scope = "outer_class_scope"
)

var typedScopes = map[Scope]bool{
	ScopeClass:             true,
	ScopeBuilder:           true,
	ScopeEnum:              true,
	ScopeMessageImplements: true,
	ScopeBuilderImplements: true,
}

// ProtocScope points at a native protoc insertion marker.
// The marker is found by exact substring containment; the first containing line wins.
type ProtocScope struct {
	scope    Scope
	typeName ast.TypeName
}

// NewProtocScope creates a point for a typed protoc scope
func NewProtocScope(scope Scope, name ast.TypeName) (*ProtocScope, error) {
	if !typedScopes[scope] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
	if name.IsZero() {
		return nil, fmt.Errorf("%w: empty type name for %s", ErrInvalidIdentity, scope)
	}
	return &ProtocScope{scope: scope, typeName: name}, nil
}

// NewClassScope creates a point for the class_scope marker of a message type
func NewClassScope(name ast.TypeName) (*ProtocScope, error) {
	return NewProtocScope(ScopeClass, name)
}

// OuterClassScope returns the untyped outer_class_scope point
func OuterClassScope() *ProtocScope {
	return &ProtocScope{scope: ScopeOuterClass}
}

// Label returns "<scope>:<fully-qualified-name>", or the bare scope for untyped points
func (p *ProtocScope) Label() string {
	if p.typeName.IsZero() {
		return string(p.scope)
	}
	return fmt.Sprintf("%s:%s", p.scope, p.typeName.QualifiedName())
}

// Marker returns the exact native marker text searched for
func (p *ProtocScope) Marker() string {
	return fmt.Sprintf(NativeMarkerFormat, p.Label())
}

// Locate finds the first line containing the native marker
func (p *ProtocScope) Locate(s string) Coordinate {
	return FirstContaining(s, p.Marker())
}

// Scope returns the protoc scope
func (p *ProtocScope) Scope() Scope {
	return p.scope
}

// TypeName returns the type the scope belongs to; zero for outer_class_scope
func (p *ProtocScope) TypeName() ast.TypeName {
	return p.typeName
}

func (p *ProtocScope) String() string {
	return p.Label()
}
