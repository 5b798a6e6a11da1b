package java

import (
	"regexp"

	"github.com/platinummonkey/protoweave/pkg/insertion"
)

var classDeclaration = regexp.MustCompile(`^(public\s+)?((final|abstract|static)\s+)*class\s+\w+`)

// MessageClass points at the first top-level class declaration of a file.
// Nested classes are indented by protoc and never match.
type MessageClass struct{}

// Label returns the label of the point
func (MessageClass) Label() string {
	return "message_class"
}

// Locate finds the first top-level class declaration
func (MessageClass) Locate(s string) insertion.Coordinate {
	return insertion.FirstLine(s, classDeclaration.MatchString)
}

var _ insertion.Point = MessageClass{}
