package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// LF is the Unix line separator
	LF = "\n"
	// CRLF is the Windows line separator
	CRLF = "\r\n"
)

// Lines splits text into lines, recognizing both "\n" and "\r\n".
// A trailing separator produces a final empty line so that Join restores it.
// Empty text has no lines.
func Lines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, LF)
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// LinesWithEndings splits text into lines that keep their own terminator.
// Indexes match Lines: a trailing separator produces a final empty line.
func LinesWithEndings(s string) []string {
	if s == "" {
		return nil
	}
	return strings.SplitAfter(s, LF)
}

// Ending returns the terminator of a line from LinesWithEndings, or "" for an unterminated last line
func Ending(line string) string {
	switch {
	case strings.HasSuffix(line, CRLF):
		return CRLF
	case strings.HasSuffix(line, LF):
		return LF
	}
	return ""
}

// Separator returns the line separator used by the text.
// CRLF wins if it appears anywhere; otherwise LF is assumed.
func Separator(s string) string {
	if strings.Contains(s, CRLF) {
		return CRLF
	}
	return LF
}

// Join joins lines with the given separator
func Join(lines []string, sep string) string {
	return strings.Join(lines, sep)
}

// CamelCase converts a proto identifier such as "user_id" into "UserId".
// Words are separated by '_', '-', '.' or whitespace. The first letter of
// every word is upper-cased; the remaining letters keep their casing.
func CamelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, word := range splitWords(s) {
		r, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(word[size:])
	}
	return b.String()
}

// LowerCamelCase is CamelCase with the first letter lower-cased
func LowerCamelCase(s string) string {
	camel := CamelCase(s)
	if camel == "" {
		return camel
	}
	r, size := utf8.DecodeRuneInString(camel)
	return string(unicode.ToLower(r)) + camel[size:]
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
}
