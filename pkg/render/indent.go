package render

import "strings"

// DefaultIndentSize is the number of spaces per indentation level
const DefaultIndentSize = 4

// Indent is an indentation unit of Size spaces
type Indent struct {
	Size int `yaml:"size"`
}

// DefaultIndent returns the four-space indentation unit
func DefaultIndent() Indent {
	return Indent{Size: DefaultIndentSize}
}

// AtLevel returns the whitespace prefix for the given nesting level
func (i Indent) AtLevel(level int) string {
	if level <= 0 || i.Size <= 0 {
		return ""
	}
	return strings.Repeat(" ", i.Size*level)
}
