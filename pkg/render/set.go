package render

import (
	"fmt"
	"path"
	"sync"
	"sync/atomic"

	"github.com/platinummonkey/protoweave/pkg/insertion"
	"github.com/platinummonkey/protoweave/pkg/languages"
	"github.com/sirupsen/logrus"
)

// Stats counts insertion outcomes of a file set
type Stats struct {
	Applied     int64 `yaml:"applied"`
	NotFound    int64 `yaml:"not_found"`
	MissingFile int64 `yaml:"missing_file"`
}

// Sub returns the difference between two snapshots
func (s Stats) Sub(other Stats) Stats {
	return Stats{
		Applied:     s.Applied - other.Applied,
		NotFound:    s.NotFound - other.NotFound,
		MissingFile: s.MissingFile - other.MissingFile,
	}
}

type counters struct {
	applied     atomic.Int64
	notFound    atomic.Int64
	missingFile atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Applied:     c.applied.Load(),
		NotFound:    c.notFound.Load(),
		MissingFile: c.missingFile.Load(),
	}
}

// SourceFileSet is an ordered set of generated files sharing a root language tag.
// A pass owns the set exclusively; files are never created or removed by renderers.
type SourceFileSet struct {
	mu       sync.RWMutex
	language string
	root     string
	files    []*SourceFile
	index    map[string]*SourceFile
	indent   Indent
	stats    *counters
	log      *logrus.Logger
}

// NewSourceFileSet creates an empty file set tagged with the given language
func NewSourceFileSet(language string, log *logrus.Logger) *SourceFileSet {
	if log == nil {
		log = logrus.New()
	}

	return &SourceFileSet{
		language: language,
		index:    make(map[string]*SourceFile),
		indent:   DefaultIndent(),
		stats:    &counters{},
		log:      log,
	}
}

// Language returns the root language tag
func (s *SourceFileSet) Language() string {
	return s.language
}

// HasRoot reports whether the set is tagged with the given language
func (s *SourceFileSet) HasRoot(language string) bool {
	return s.language == language
}

// Root returns the directory the set was loaded from, if any
func (s *SourceFileSet) Root() string {
	return s.root
}

// SetIndent changes the indentation unit used by insertions
func (s *SourceFileSet) SetIndent(indent Indent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indent = indent
}

// AddFile appends a file to the set
func (s *SourceFileSet) AddFile(p, code string) (*SourceFile, error) {
	if p == "" || path.IsAbs(p) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	p = path.Clean(p)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[p]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateFile, p)
	}

	f := NewSourceFile(p, code)
	s.files = append(s.files, f)
	s.index[p] = f
	return f, nil
}

// File returns the file with the given path
func (s *SourceFileSet) File(p string) (*SourceFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.index[path.Clean(p)]
	return f, ok
}

// Files returns the files in insertion order
func (s *SourceFileSet) Files() []*SourceFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]*SourceFile, len(s.files))
	copy(files, s.files)
	return files
}

// Paths returns the file paths in insertion order
func (s *SourceFileSet) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.files))
	for _, f := range s.files {
		paths = append(paths, f.path)
	}
	return paths
}

// Len returns the number of files
func (s *SourceFileSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// At starts an insertion at a point of the file with the given path.
// The file may be missing; the insertion is then a counted no-op.
func (s *SourceFileSet) At(p string, point insertion.Point) *SourceAtLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p = path.Clean(p)
	return &SourceAtLine{
		set:    s,
		path:   p,
		file:   s.index[p],
		point:  point,
		indent: s.indent,
	}
}

// ForEach calls fn for every file in order and stops at the first error
func (s *SourceFileSet) ForEach(fn func(*SourceFile) error) error {
	for _, f := range s.Files() {
		if err := fn(f); err != nil {
			return fmt.Errorf("%s: %w", f.path, err)
		}
	}
	return nil
}

// Subset returns a view of the files matching the language's extensions, tagged with
// that language. The subset shares files with the set but counts its own insertions,
// so stats deltas taken on one subset never include work done through another.
func (s *SourceFileSet) Subset(spec *languages.LanguageSpec) *SourceFileSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub := &SourceFileSet{
		language: spec.ID,
		root:     s.root,
		index:    make(map[string]*SourceFile),
		indent:   s.indent,
		stats:    &counters{},
		log:      s.log,
	}
	for _, f := range s.files {
		if spec.Matches(f.path) {
			sub.files = append(sub.files, f)
			sub.index[f.path] = f
		}
	}
	return sub
}

// Changed returns the files whose text was modified
func (s *SourceFileSet) Changed() []*SourceFile {
	var changed []*SourceFile
	for _, f := range s.Files() {
		if f.Changed() {
			changed = append(changed, f)
		}
	}
	return changed
}

// Snapshot returns the current text of every file keyed by path
func (s *SourceFileSet) Snapshot() map[string]string {
	snapshot := make(map[string]string)
	for _, f := range s.Files() {
		snapshot[f.path] = f.Code()
	}
	return snapshot
}

// Stats returns the insertion outcome counters
func (s *SourceFileSet) Stats() Stats {
	return s.stats.snapshot()
}
