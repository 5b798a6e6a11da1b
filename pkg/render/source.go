package render

import (
	"strings"
	"sync"

	"github.com/platinummonkey/protoweave/pkg/insertion"
	"github.com/platinummonkey/protoweave/pkg/text"
)

// SourceFile is a generated file whose text renderers modify in place
type SourceFile struct {
	mu       sync.Mutex
	path     string
	code     string
	original string
}

// NewSourceFile creates a file with the given slash-separated path and contents
func NewSourceFile(path, code string) *SourceFile {
	return &SourceFile{
		path:     path,
		code:     code,
		original: code,
	}
}

// Path returns the path of the file relative to its source root
func (f *SourceFile) Path() string {
	return f.path
}

// Code returns the current text of the file
func (f *SourceFile) Code() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code
}

// Changed reports whether the text differs from what the file was created with
func (f *SourceFile) Changed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code != f.original
}

// Locate resolves a point against the current text
func (f *SourceFile) Locate(p insertion.Point) insertion.Coordinate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return insertion.Locate(p, f.code)
}

// insert resolves p against the current text and inserts lines after the resolved line,
// or before it when before is set. Resolution and the splice happen under one lock so
// that concurrent inserts into the same file never splice against stale coordinates.
func (f *SourceFile) insert(p insertion.Point, before bool, prefix string, fragments []string) insertion.Coordinate {
	f.mu.Lock()
	defer f.mu.Unlock()

	coord := insertion.Locate(p, f.code)
	line, found := coord.Line()
	if !found || len(fragments) == 0 {
		return coord
	}

	// inserted lines take the terminator of the anchor line, other lines keep their own
	lines := text.LinesWithEndings(f.code)
	eol := text.Ending(lines[line])
	terminated := eol != ""
	if !terminated {
		eol = text.Separator(f.code)
	}

	var b strings.Builder
	b.Grow(len(f.code))
	if before {
		b.WriteString(strings.Join(lines[:line], ""))
		for _, l := range indentLines(prefix, fragments) {
			b.WriteString(l)
			b.WriteString(eol)
		}
		b.WriteString(strings.Join(lines[line:], ""))
	} else {
		b.WriteString(strings.Join(lines[:line+1], ""))
		inserted := indentLines(prefix, fragments)
		if !terminated {
			b.WriteString(eol)
			b.WriteString(text.Join(inserted, eol))
		} else {
			for _, l := range inserted {
				b.WriteString(l)
				b.WriteString(eol)
			}
		}
		b.WriteString(strings.Join(lines[line+1:], ""))
	}

	f.code = b.String()
	return coord
}

// indentLines splits every fragment on line breaks and prefixes each resulting line
func indentLines(prefix string, fragments []string) []string {
	var out []string
	for _, fragment := range fragments {
		lines := text.Lines(fragment)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for _, line := range lines {
			out = append(out, prefix+line)
		}
	}
	return out
}

// SourceAtLine is a pending insertion at a point of one file of a set
type SourceAtLine struct {
	set    *SourceFileSet
	path   string
	file   *SourceFile
	point  insertion.Point
	indent Indent
	level  int
	before bool
	err    error
}

// WithExtraIndentation returns a copy that indents inserted lines by the given level
func (s *SourceAtLine) WithExtraIndentation(level int) *SourceAtLine {
	next := *s
	if level < 0 {
		next.err = ErrNegativeIndentation
		return &next
	}
	next.level = level
	return &next
}

// Before returns a copy that inserts above the resolved line instead of below it.
// Annotations go above a declaration this way.
func (s *SourceAtLine) Before() *SourceAtLine {
	next := *s
	next.before = true
	return &next
}

// Add inserts the given lines right after the line the point resolves to.
// Fragments may span several lines; every resulting line gets the indentation prefix.
// A point that is not found, or a file that is not in the set, leaves the set
// unchanged and returns insertion.Nowhere without an error.
func (s *SourceAtLine) Add(lines ...string) (insertion.Coordinate, error) {
	if s.err != nil {
		return insertion.Nowhere, s.err
	}

	log := s.set.log.WithField("path", s.path)
	if s.point != nil {
		log = log.WithField("label", s.point.Label())
	}

	if s.file == nil {
		s.set.stats.missingFile.Add(1)
		log.Debug("Skipping insertion, file is not in the set")
		return insertion.Nowhere, nil
	}

	coord := s.file.insert(s.point, s.before, s.indent.AtLevel(s.level), lines)
	if !coord.Found() {
		s.set.stats.notFound.Add(1)
		log.Debug("Skipping insertion, point not found")
		return coord, nil
	}

	s.set.stats.applied.Add(1)
	line, _ := coord.Line()
	log.WithField("line", line).Debug("Inserted lines")
	return coord, nil
}
