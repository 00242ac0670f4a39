package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/shaderkit/gpucore"
	"github.com/gogpu/shaderkit/internal/gputest"
)

// withRegistry runs a test against an empty registry and restores the
// previous state afterwards.
func withRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := backends
	backends = make(map[string]Factory)
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		backends = saved
		registryMu.Unlock()
	})
}

func fakeFactory() (gpucore.Device, error) { return gputest.New(), nil }

func TestRegisterAndGet(t *testing.T) {
	withRegistry(t)
	Register("fake", fakeFactory)

	if !IsRegistered("fake") {
		t.Fatal("fake should be registered")
	}
	dev, err := Get("fake")
	if err != nil || dev == nil {
		t.Fatalf("Get(fake) = %v, %v", dev, err)
	}
	if dev.Name() != "gputest" {
		t.Errorf("Name = %q", dev.Name())
	}

	Unregister("fake")
	if _, err := Get("fake"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Get after Unregister = %v, want ErrBackendNotAvailable", err)
	}
}

func TestAvailableSorted(t *testing.T) {
	withRegistry(t)
	Register("zeta", fakeFactory)
	Register("alpha", fakeFactory)
	Register(BackendNative, fakeFactory)

	want := []string{"alpha", BackendNative, "zeta"}
	if got := Available(); !slices.Equal(got, want) {
		t.Errorf("Available = %v, want %v", got, want)
	}
}

func TestDefaultPriority(t *testing.T) {
	withRegistry(t)
	var picked string
	factory := func(name string) Factory {
		return func() (gpucore.Device, error) {
			picked = name
			return gputest.New(), nil
		}
	}
	Register("custom", factory("custom"))
	Register(BackendNative, factory(BackendNative))
	Register(BackendOpenGL, factory(BackendOpenGL))

	if _, err := Default(); err != nil {
		t.Fatal(err)
	}
	if picked != BackendOpenGL {
		t.Errorf("Default picked %q, want %q", picked, BackendOpenGL)
	}
}

func TestDefaultSkipsFailingBackend(t *testing.T) {
	withRegistry(t)
	boom := errors.New("no context")
	Register(BackendOpenGL, func() (gpucore.Device, error) { return nil, boom })
	Register(BackendNative, fakeFactory)

	dev, err := Default()
	if err != nil || dev == nil {
		t.Fatalf("Default = %v, %v", dev, err)
	}
}

func TestDefaultNoneAvailable(t *testing.T) {
	withRegistry(t)
	if _, err := Default(); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Default on empty registry = %v", err)
	}

	boom := errors.New("no gpu")
	Register(BackendNative, func() (gpucore.Device, error) { return nil, boom })
	_, err := Default()
	if !errors.Is(err, ErrBackendNotAvailable) || !errors.Is(err, boom) {
		t.Errorf("Default = %v, want both ErrBackendNotAvailable and the factory error", err)
	}
}

func TestMustDefaultPanics(t *testing.T) {
	withRegistry(t)
	defer func() {
		if recover() == nil {
			t.Error("MustDefault should panic without backends")
		}
	}()
	MustDefault()
}
