package projection

import "github.com/platinummonkey/protoweave/pkg/ast"

// OfKind matches events of the given kind
func OfKind(kind ast.EventKind) func(ast.Event) bool {
	return func(e ast.Event) bool {
		return e.Kind() == kind
	}
}

// FieldNamed matches FieldEntered events for fields with the given name
func FieldNamed(name string) func(ast.Event) bool {
	return func(e ast.Event) bool {
		fe, ok := e.(ast.FieldEntered)
		return ok && fe.Field.Name == name
	}
}

// DirectiveNamed matches FieldDirectiveFound events with the given option
func DirectiveNamed(option string) func(ast.Event) bool {
	return func(e ast.Event) bool {
		d, ok := e.(ast.FieldDirectiveFound)
		return ok && d.Option == option
	}
}
