package node

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

var (
	// ErrDuplicateType is returned when a node type is registered twice
	ErrDuplicateType = errors.New("node type already registered")
	// ErrUnknownType is returned when creating an unregistered node type
	ErrUnknownType = errors.New("unknown node type")
)

// Factory creates a node from its configuration
type Factory func(cfg Config, status StatusFunc) (Node, error)

// Registry maps node type names to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under nodeType
func (r *Registry) Register(nodeType string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[nodeType]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateType, nodeType)
	}
	r.factories[nodeType] = f
	return nil
}

// Create builds a node of nodeType. A nil status discards status updates.
func (r *Registry) Create(nodeType string, cfg Config, status StatusFunc) (Node, error) {
	r.mu.RLock()
	f, ok := r.factories[nodeType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, nodeType)
	}
	if cfg == nil {
		cfg = Config{}
	}
	if status == nil {
		status = func(Status) {}
	}

	n, err := f(cfg, status)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s node: %w", nodeType, err)
	}
	return n, nil
}

// Types returns the registered node types, sorted
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}
