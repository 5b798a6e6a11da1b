package ast

// EventKind names a kind of AST change event
type EventKind string

const (
	KindFileEntered         EventKind = "file_entered"
	KindTypeEntered         EventKind = "type_entered"
	KindFieldEntered        EventKind = "field_entered"
	KindFieldDirectiveFound EventKind = "field_directive_found"
)

// Event is a typed AST change event consumed by views
type Event interface {
	Kind() EventKind
}

// FileEntered is emitted once per compiled file, before any of its types
type FileEntered struct {
	File File
}

// Kind returns the event kind
func (e FileEntered) Kind() EventKind { return KindFileEntered }

// TypeEntered is emitted for every message type, nested types included
type TypeEntered struct {
	File File
	Type TypeName
}

// Kind returns the event kind
func (e TypeEntered) Kind() EventKind { return KindTypeEntered }

// FieldEntered is emitted for every field of a message type
type FieldEntered struct {
	File  File
	Type  TypeName
	Field Field
}

// Kind returns the event kind
func (e FieldEntered) Kind() EventKind { return KindFieldEntered }

// ID returns the identity of the entered field
func (e FieldEntered) ID() FieldID {
	return FieldID{Type: e.Type, File: e.File.Path, Field: e.Field.Name}
}

// FieldDirectiveFound is emitted for every directive in a field's leading comments
type FieldDirectiveFound struct {
	File   File
	Type   TypeName
	Field  string
	Option string
	Value  string
}

// Kind returns the event kind
func (e FieldDirectiveFound) Kind() EventKind { return KindFieldDirectiveFound }

// ID returns the identity of the field carrying the directive
func (e FieldDirectiveFound) ID() FieldID {
	return FieldID{Type: e.Type, File: e.File.Path, Field: e.Field}
}
