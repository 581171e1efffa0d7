package providers

import (
	"fmt"
	"sync"
)

// Registry manages the configured completion providers and routes
// callers to the configured default. The registry is populated once at
// startup and is safe for concurrent reads afterward.
type Registry struct {
	mu sync.RWMutex

	completers map[ProviderType]Completer
	default_   ProviderType
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		completers: make(map[ProviderType]Completer),
	}
}

// Register adds a completion provider to the registry
func (r *Registry) Register(providerType ProviderType, completer Completer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := completer.(CompleterValidator); ok {
		if err := v.ValidateConfig(); err != nil {
			return fmt.Errorf("invalid provider config for %s: %w", providerType, err)
		}
	}

	r.completers[providerType] = completer

	// Set as default if first provider
	if len(r.completers) == 1 {
		r.default_ = providerType
	}

	return nil
}

// Get returns a completion provider by type
func (r *Registry) Get(providerType ProviderType) (Completer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	completer, ok := r.completers[providerType]
	if !ok {
		return nil, fmt.Errorf("provider not registered: %s", providerType)
	}
	return completer, nil
}

// Default returns the default completion provider
func (r *Registry) Default() (Completer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.default_ == "" {
		return nil, fmt.Errorf("no providers registered")
	}
	return r.completers[r.default_], nil
}

// SetDefault selects the default completion provider
func (r *Registry) SetDefault(providerType ProviderType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.completers[providerType]; !ok {
		return fmt.Errorf("provider not registered: %s", providerType)
	}
	r.default_ = providerType
	return nil
}

// List returns the registered provider types
func (r *Registry) List() []ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]ProviderType, 0, len(r.completers))
	for t := range r.completers {
		types = append(types, t)
	}
	return types
}
