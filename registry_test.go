package gfx

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
)

type namedDevice struct {
	*fakeDevice
	name string
}

func (d namedDevice) Name() string { return d.name }

func TestRegistryAvailable(t *testing.T) {
	Register("zzz-test", func(Window, Config) (Device, error) { return nil, errors.New("unused") })
	t.Cleanup(func() { Unregister("zzz-test") })

	if !IsRegistered("zzz-test") {
		t.Fatal("IsRegistered() = false after Register")
	}
	names := Available()
	if len(names) == 0 || names[len(names)-1] != "zzz-test" {
		t.Errorf("Available() = %v", names)
	}
}

func TestBackendMismatch(t *testing.T) {
	newTestContext(t)
	if Active() != fakeBackend {
		t.Fatalf("Active() = %q, want %q", Active(), fakeBackend)
	}

	Register("other", func(Window, Config) (Device, error) {
		return namedDevice{newFakeDevice(), "other"}, nil
	})
	t.Cleanup(func() { Unregister("other") })

	win := gpucontext.NullWindowProvider{W: 4, H: 4}
	if _, err := New(win, WithBackend("other")); !errors.Is(err, ErrBackendMismatch) {
		t.Errorf("New(other) error = %v, want ErrBackendMismatch", err)
	}
	if _, err := New(win, WithDevice(namedDevice{newFakeDevice(), "other"})); !errors.Is(err, ErrBackendMismatch) {
		t.Errorf("New(WithDevice other) error = %v, want ErrBackendMismatch", err)
	}
	if Active() != fakeBackend {
		t.Errorf("failed New changed Active() to %q", Active())
	}
}

func TestBackendNotAvailable(t *testing.T) {
	_, err := New(gpucontext.NullWindowProvider{W: 4, H: 4}, WithBackend("missing"))
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestFactoryFailureKeepsActive(t *testing.T) {
	newTestContext(t)
	boom := errors.New("boom")
	Register(fakeBackend, func(Window, Config) (Device, error) { return nil, boom })
	t.Cleanup(func() { Unregister(fakeBackend) })

	_, err := New(gpucontext.NullWindowProvider{W: 4, H: 4})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want factory error", err)
	}
	if Active() != fakeBackend {
		t.Errorf("Active() = %q after failed open", Active())
	}
}
