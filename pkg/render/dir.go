package render

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/platinummonkey/protoweave/pkg/languages"
	"github.com/sirupsen/logrus"
)

// LoadDir reads every file of the language below root into a new set tagged with the language.
// Paths are slash-separated and relative to root, in lexical order.
func LoadDir(root string, spec *languages.LanguageSpec, log *logrus.Logger) (*SourceFileSet, error) {
	if log == nil {
		log = logrus.New()
	}

	set := NewSourceFileSet(spec.ID, log)
	set.root = root

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !spec.Matches(p) {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		_, err = set.AddFile(filepath.ToSlash(rel), string(data))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load source root %s: %w", root, err)
	}

	log.WithFields(logrus.Fields{
		"root":     root,
		"language": spec.ID,
		"files":    set.Len(),
	}).Debug("Loaded source root")

	return set, nil
}

// WriteDir writes the changed files back below the root the set was loaded from
// and returns how many were written. The root then holds rendered text, so loading
// and rendering it again inserts every fragment a second time; use WriteTo to keep
// the generated input intact.
func (s *SourceFileSet) WriteDir() (int, error) {
	if s.root == "" {
		return 0, ErrNoRoot
	}

	written := 0
	for _, f := range s.Changed() {
		if err := writeFile(s.root, s.root, f); err != nil {
			return written, err
		}
		written++
	}

	s.log.WithFields(logrus.Fields{
		"root":    s.root,
		"written": written,
	}).Info("Wrote source root")

	return written, nil
}

// WriteTo writes every file of the set below target, creating directories as needed,
// and returns how many were written. Unchanged files are copied so that target holds
// the complete rendered root. Rendering the same input into the same target is idempotent.
func (s *SourceFileSet) WriteTo(target string) (int, error) {
	if target == "" {
		return 0, ErrNoRoot
	}

	written := 0
	for _, f := range s.Files() {
		if err := writeFile(s.root, target, f); err != nil {
			return written, err
		}
		written++
	}

	s.log.WithFields(logrus.Fields{
		"root":    s.root,
		"target":  target,
		"written": written,
	}).Info("Wrote target root")

	return written, nil
}

// writeFile writes f below target, keeping the permissions of its source below root
func writeFile(root, target string, f *SourceFile) error {
	rel := filepath.FromSlash(f.Path())
	dest := filepath.Join(target, rel)

	mode := os.FileMode(0644)
	if root != "" {
		if info, err := os.Stat(filepath.Join(root, rel)); err == nil {
			mode = info.Mode().Perm()
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}
	if err := os.WriteFile(dest, []byte(f.Code()), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}
