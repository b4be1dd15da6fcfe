package gfx

import (
	"fmt"
	"slices"
	"sync"
)

// Registry names of the bundled backends.
const (
	BackendNative = "native"
	BackendGL     = "gl"
)

// Factory opens a device for a window.
type Factory func(win Window, cfg Config) (Device, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	backendPriority = []string{BackendNative, BackendGL}

	// active is the backend chosen by the first successful New. Later
	// contexts in the same process must use the same backend.
	active string
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// Registering an existing name replaces its factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a backend from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the sorted names of registered backends.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Active returns the backend selected for this process, or "" before the
// first context is created.
func Active() string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return active
}

// resolve picks the backend name for cfg.
func resolve(cfg Config) (string, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	name := cfg.Backend
	if name == "" {
		name = active
	}
	if name == "" {
		for _, n := range backendPriority {
			if _, ok := factories[n]; ok {
				name = n
				break
			}
		}
	}
	if name == "" {
		names := make([]string, 0, len(factories))
		for n := range factories {
			names = append(names, n)
		}
		slices.Sort(names)
		if len(names) > 0 {
			name = names[0]
		}
	}
	if name == "" {
		return "", ErrBackendNotAvailable
	}
	if _, ok := factories[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	return name, nil
}

// lock records name as the process backend. It returns an undo function
// for the case where the device then fails to open.
func lock(name string) (func(), error) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if active != "" && active != name {
		return nil, fmt.Errorf("%w: %q is active, %q requested", ErrBackendMismatch, active, name)
	}
	prev := active
	active = name
	return func() {
		registryMu.Lock()
		active = prev
		registryMu.Unlock()
	}, nil
}

func openDevice(win Window, cfg Config) (Device, error) {
	if cfg.device != nil {
		if _, err := lock(cfg.device.Name()); err != nil {
			return nil, err
		}
		return cfg.device, nil
	}
	name, err := resolve(cfg)
	if err != nil {
		return nil, err
	}
	undo, err := lock(name)
	if err != nil {
		return nil, err
	}
	registryMu.RLock()
	factory := factories[name]
	registryMu.RUnlock()

	dev, err := factory(win, cfg)
	if err != nil {
		undo()
		return nil, fmt.Errorf("open %s backend: %w", name, err)
	}
	Logger().Info("gfx: backend selected", "backend", name)
	return dev, nil
}
