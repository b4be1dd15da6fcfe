package gfx

// Config holds context creation settings.
type Config struct {
	// Backend names the registered backend to use. Empty selects the
	// highest-priority registered backend.
	Backend string

	VSync bool

	// Debug enables backend validation and verbose errors.
	Debug bool

	// ClearColor is used by Clear when no explicit values are given.
	ClearColor Color

	// device, when set, is used instead of opening a backend.
	device Device
}

// Option configures a Context during creation.
//
// Example:
//
//	ctx, err := gfx.New(win, gfx.WithBackend("gl"), gfx.WithVSync(true))
type Option func(*Config)

func defaultConfig() Config {
	return Config{VSync: true, ClearColor: Black}
}

// WithBackend selects a backend by registry name.
func WithBackend(name string) Option {
	return func(c *Config) {
		c.Backend = name
	}
}

// WithVSync requests presentation synchronized to the display refresh.
func WithVSync(on bool) Option {
	return func(c *Config) {
		c.VSync = on
	}
}

// WithDebug enables backend validation.
func WithDebug(on bool) Option {
	return func(c *Config) {
		c.Debug = on
	}
}

// WithClearColor sets the default clear color.
func WithClearColor(col Color) Option {
	return func(c *Config) {
		c.ClearColor = col
	}
}

// WithDevice uses an already opened device instead of the registry.
// Backends expose constructors for this, for example to run headless.
func WithDevice(d Device) Option {
	return func(c *Config) {
		c.device = d
	}
}
