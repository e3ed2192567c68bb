package backend

import (
	"errors"

	"github.com/gogpu/glass/raster"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU filter backend.
	BackendSoftware = "software"
)

// Factory creates a new backend instance.
type Factory func() raster.Backend
