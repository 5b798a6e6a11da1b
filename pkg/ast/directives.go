package ast

import (
	"fmt"
	"strings"
)

// DirectivePrefix starts a directive inside a proto comment.
// Directives have the format: @protoweave:option:value
//
//	// @protoweave:annotation:Deprecated
//	string legacy_id = 3;
const DirectivePrefix = "@protoweave:"

// Directive is a parsed comment directive
type Directive struct {
	Option string
	Value  string
}

// IsDirective checks if a comment line holds a directive
func IsDirective(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), DirectivePrefix)
}

// ParseDirective parses a single directive line
func ParseDirective(text string) (Directive, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, DirectivePrefix) {
		return Directive{}, ErrNotDirective
	}

	parts := strings.SplitN(strings.TrimPrefix(text, DirectivePrefix), ":", 2)
	if len(parts) != 2 {
		return Directive{}, fmt.Errorf("%w: expected %soption:value, got %q", ErrInvalidDirective, DirectivePrefix, text)
	}

	d := Directive{
		Option: strings.TrimSpace(parts[0]),
		Value:  strings.TrimSpace(parts[1]),
	}
	if d.Option == "" {
		return Directive{}, fmt.Errorf("%w: empty option in %q", ErrInvalidDirective, text)
	}
	if d.Value == "" {
		return Directive{}, fmt.Errorf("%w: empty value in %q", ErrInvalidDirective, text)
	}
	return d, nil
}

// ParseDirectives extracts all directives from a comment block.
// Lines that are not directives are ignored; malformed directives are errors.
func ParseDirectives(comments string) ([]Directive, error) {
	var directives []Directive
	for _, line := range strings.Split(comments, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if !IsDirective(line) {
			continue
		}
		d, err := ParseDirective(line)
		if err != nil {
			return nil, err
		}
		directives = append(directives, d)
	}
	return directives, nil
}
