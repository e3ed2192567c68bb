package backend

import (
	"image"
	"testing"

	"github.com/gogpu/glass/raster"
)

type stubBackend struct{ name string }

func (s stubBackend) Name() string                                               { return s.name }
func (stubBackend) NewImage(r image.Rectangle) *image.RGBA                       { return image.NewRGBA(r) }
func (stubBackend) ApplyColorMatrices(_, _ *image.RGBA, _ ...raster.ColorMatrix) {}
func (stubBackend) Blur(_, _ *image.RGBA, _ float64, _ raster.EdgeMode)          {}
func (stubBackend) BlurMask(_, _ *image.Alpha, _ float64, _ raster.EdgeMode)     {}
func (stubBackend) Program(string) (raster.Program, error) {
	return nil, raster.ErrProgramUnavailable
}

func TestRegistryRegisterAndGet(t *testing.T) {
	Register("test-stub", func() raster.Backend { return stubBackend{name: "test-stub"} })
	defer Unregister("test-stub")

	b, err := Get("test-stub")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if b.Name() != "test-stub" {
		t.Errorf("Name() = %q, want %q", b.Name(), "test-stub")
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	if _, err := Get("nonexistent"); err != ErrBackendNotAvailable {
		t.Errorf("Get(nonexistent) error = %v, want %v", err, ErrBackendNotAvailable)
	}
}

func TestRegistryGetNilFactory(t *testing.T) {
	Register("test-nil", func() raster.Backend { return nil })
	defer Unregister("test-nil")

	if _, err := Get("test-nil"); err != ErrBackendNotAvailable {
		t.Errorf("Get(test-nil) error = %v, want %v", err, ErrBackendNotAvailable)
	}
}

func TestRegistryAvailable(t *testing.T) {
	Register("test-b", func() raster.Backend { return stubBackend{name: "test-b"} })
	Register("test-a", func() raster.Backend { return stubBackend{name: "test-a"} })
	defer Unregister("test-a")
	defer Unregister("test-b")

	names := Available()
	ia, ib := -1, -1
	for i, n := range names {
		switch n {
		case "test-a":
			ia = i
		case "test-b":
			ib = i
		}
	}
	if ia < 0 || ib < 0 || ia > ib {
		t.Errorf("Available() = %v, want sorted and containing test-a, test-b", names)
	}
	if !IsRegistered("test-a") {
		t.Error("IsRegistered(test-a) = false")
	}
}

func TestRegistryDefaultFallback(t *testing.T) {
	Register("test-only", func() raster.Backend { return stubBackend{name: "test-only"} })
	defer Unregister("test-only")

	b := Default()
	if b == nil {
		t.Fatal("Default() returned nil")
	}
	if IsRegistered(BackendSoftware) {
		if b.Name() != BackendSoftware {
			t.Errorf("Default() = %q, want %q", b.Name(), BackendSoftware)
		}
	} else if b.Name() != "test-only" {
		t.Errorf("Default() = %q, want test-only", b.Name())
	}
}

func TestRegistryUnregister(t *testing.T) {
	Register("test-gone", func() raster.Backend { return stubBackend{name: "test-gone"} })
	Unregister("test-gone")
	if IsRegistered("test-gone") {
		t.Error("IsRegistered(test-gone) = true after Unregister")
	}
}

func TestMustDefaultPanicsWhenEmpty(t *testing.T) {
	registryMu.Lock()
	saved := backends
	backends = make(map[string]Factory)
	registryMu.Unlock()
	defer func() {
		registryMu.Lock()
		backends = saved
		registryMu.Unlock()
	}()

	defer func() {
		if recover() == nil {
			t.Error("MustDefault() did not panic")
		}
	}()
	MustDefault()
}
