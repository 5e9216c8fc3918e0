package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/arthur-debert/dosort/pkg/errors"
)

// table holds the specs of one kind (filters or actions) keyed by the name
// used in rule files. Specs are added from init() functions and read while
// rules load, so access is guarded.
type table[T any] struct {
	kind     string
	notFound errors.ErrorCode

	mu    sync.RWMutex
	specs map[string]T
}

func newTable[T any](kind string, notFound errors.ErrorCode) *table[T] {
	return &table[T]{
		kind:     kind,
		notFound: notFound,
		specs:    make(map[string]T),
	}
}

// add stores spec under name. Names are unique per table.
func (t *table[T]) add(name string, spec T) error {
	if name == "" {
		return errors.Newf(errors.ErrInvalidInput, "%s name cannot be empty", t.kind)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.specs[name]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "%s %q is already registered", t.kind, name)
	}
	t.specs[name] = spec
	return nil
}

// mustAdd is add for init() functions, where a clash is a programming error
func (t *table[T]) mustAdd(name string, spec T) {
	if err := t.add(name, spec); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", name, err))
	}
}

func (t *table[T]) lookup(name string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	spec, exists := t.specs[name]
	if !exists {
		var zero T
		return zero, errors.Newf(t.notFound, "unknown %s %q", t.kind, name)
	}
	return spec, nil
}

func (t *table[T]) has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, exists := t.specs[name]
	return exists
}

// all returns every spec ordered by name
func (t *table[T]) all() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.specs))
	for name := range t.specs {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]T, 0, len(names))
	for _, name := range names {
		specs = append(specs, t.specs[name])
	}
	return specs
}
