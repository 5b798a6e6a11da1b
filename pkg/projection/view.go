// Package projection folds AST events into keyed fact records.
//
// A View owns one record per key and a table of routing rules. Each rule decides
// whether an event concerns the view, extracts the record key from it, and merges
// the event into the record. Records are created on the first qualifying event and
// are never deleted; once the view is sealed it only answers queries.
package projection

import (
	"fmt"
	"sync"

	"github.com/platinummonkey/protoweave/pkg/ast"
	"github.com/sirupsen/logrus"
)

// Rule routes events into a view.
// Apply receives the current record (the zero value for a new key) and returns the
// merged one; it must not keep references to the record it was given.
type Rule[K comparable, R any] struct {
	Name    string
	Matches func(ast.Event) bool
	Key     func(ast.Event) K
	Apply   func(R, ast.Event) R
}

func (r Rule[K, R]) validate() error {
	if r.Name == "" || r.Matches == nil || r.Key == nil || r.Apply == nil {
		return fmt.Errorf("%w: %q", ErrInvalidRule, r.Name)
	}
	return nil
}

// zeroer is implemented by keys with a notion of partial emptiness, such as ast.FieldID
type zeroer interface {
	IsZero() bool
}

func isEmptyKey[K comparable](key K) bool {
	var zero K
	if key == zero {
		return true
	}
	if z, ok := any(key).(zeroer); ok {
		return z.IsZero()
	}
	return false
}

// View is a keyed collection of records of type R
type View[K comparable, R any] struct {
	mu      sync.RWMutex
	name    string
	rules   []Rule[K, R]
	records map[K]R
	order   []K
	sealed  bool
	log     *logrus.Logger
}

// NewView creates an empty view
func NewView[K comparable, R any](name string, log *logrus.Logger) *View[K, R] {
	if log == nil {
		log = logrus.New()
	}

	return &View[K, R]{
		name:    name,
		records: make(map[K]R),
		log:     log,
	}
}

// Name returns the view name
func (v *View[K, R]) Name() string {
	return v.name
}

// AddRule appends a routing rule. Rules run in the order they were added.
func (v *View[K, R]) AddRule(rule Rule[K, R]) error {
	if err := rule.validate(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.sealed {
		return fmt.Errorf("%w: %s", ErrViewSealed, v.name)
	}

	v.rules = append(v.rules, rule)
	return nil
}

// MustAddRule is AddRule for statically known rules
func (v *View[K, R]) MustAddRule(rule Rule[K, R]) *View[K, R] {
	if err := v.AddRule(rule); err != nil {
		panic(err)
	}
	return v
}

// OnEvent applies every matching rule to the event and returns how many matched.
// All keys are extracted before any record changes, so an empty key leaves the
// view untouched.
func (v *View[K, R]) OnEvent(e ast.Event) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.sealed {
		return 0, fmt.Errorf("%w: %s", ErrViewSealed, v.name)
	}

	type routed struct {
		rule Rule[K, R]
		key  K
	}

	var matched []routed
	for _, rule := range v.rules {
		if !rule.Matches(e) {
			continue
		}
		key := rule.Key(e)
		if isEmptyKey(key) {
			return 0, fmt.Errorf("%w: view %s, rule %s, event %s", ErrInvalidKey, v.name, rule.Name, e.Kind())
		}
		matched = append(matched, routed{rule: rule, key: key})
	}

	for _, m := range matched {
		record, exists := v.records[m.key]
		if !exists {
			v.order = append(v.order, m.key)
			v.log.WithFields(logrus.Fields{
				"view": v.name,
				"rule": m.rule.Name,
				"key":  fmt.Sprint(m.key),
			}).Debug("Record created")
		}
		v.records[m.key] = m.rule.Apply(record, e)
	}

	return len(matched), nil
}

// Seal makes the view read-only
func (v *View[K, R]) Seal() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sealed = true
}

// Sealed reports whether the view is read-only
func (v *View[K, R]) Sealed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sealed
}

// All returns a snapshot of all records in first-seen order
func (v *View[K, R]) All() []R {
	v.mu.RLock()
	defer v.mu.RUnlock()

	result := make([]R, 0, len(v.order))
	for _, key := range v.order {
		result = append(result, v.records[key])
	}
	return result
}

// Find returns the record stored under key
func (v *View[K, R]) Find(key K) (R, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	record, ok := v.records[key]
	return record, ok
}

// Where returns the records accepted by the predicate, in first-seen order
func (v *View[K, R]) Where(predicate func(R) bool) []R {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var result []R
	for _, key := range v.order {
		if record := v.records[key]; predicate(record) {
			result = append(result, record)
		}
	}
	return result
}

// Keys returns the record keys in first-seen order
func (v *View[K, R]) Keys() []K {
	v.mu.RLock()
	defer v.mu.RUnlock()

	keys := make([]K, len(v.order))
	copy(keys, v.order)
	return keys
}

// Len returns the number of records
func (v *View[K, R]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.order)
}

var _ Subscriber = (*View[string, int])(nil)
