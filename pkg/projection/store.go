package projection

import (
	"context"
	"fmt"
	"sync"

	"github.com/platinummonkey/protoweave/pkg/ast"
	"github.com/sirupsen/logrus"
)

// Subscriber is the type-erased side of a view that the store drives
type Subscriber interface {
	Name() string
	OnEvent(e ast.Event) (int, error)
	Seal()
	Sealed() bool
	Len() int
}

// Store delivers events to every registered view and seals them for rendering
type Store struct {
	mu     sync.RWMutex
	views  []Subscriber
	index  map[string]Subscriber
	sealed bool
	log    *logrus.Logger
}

// NewStore creates an empty store
func NewStore(log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}

	return &Store{
		index: make(map[string]Subscriber),
		log:   log,
	}
}

// Register adds a view. Views receive events in registration order.
func (s *Store) Register(view Subscriber) error {
	if view == nil || view.Name() == "" {
		return fmt.Errorf("%w: view must have a name", ErrInvalidRule)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return ErrStoreSealed
	}
	if _, exists := s.index[view.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateView, view.Name())
	}

	s.views = append(s.views, view)
	s.index[view.Name()] = view
	return nil
}

// Drain delivers each event to every view and returns the number of rule applications.
// It stops at the first error or when the context is cancelled.
func (s *Store) Drain(ctx context.Context, events []ast.Event) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.sealed {
		return 0, ErrStoreSealed
	}

	routed := 0
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return routed, err
		}
		for _, view := range s.views {
			n, err := view.OnEvent(e)
			if err != nil {
				return routed, err
			}
			routed += n
		}
	}

	s.log.WithFields(logrus.Fields{
		"events": len(events),
		"routed": routed,
		"views":  len(s.views),
	}).Debug("Events drained")

	return routed, nil
}

// Seal seals every view. Sealing is idempotent.
func (s *Store) Seal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, view := range s.views {
		view.Seal()
	}
	s.sealed = true
}

// Sealed reports whether the store was sealed
func (s *Store) Sealed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sealed
}

// View returns the view registered under name
func (s *Store) View(name string) (Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view, exists := s.index[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrViewNotFound, name)
	}
	return view, nil
}

// Views returns all views in registration order
func (s *Store) Views() []Subscriber {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Subscriber, len(s.views))
	copy(result, s.views)
	return result
}

// Count returns the number of registered views
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// Lookup returns the typed view registered under name
func Lookup[K comparable, R any](s *Store, name string) (*View[K, R], error) {
	sub, err := s.View(name)
	if err != nil {
		return nil, err
	}
	view, ok := sub.(*View[K, R])
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrViewType, name, sub)
	}
	return view, nil
}
