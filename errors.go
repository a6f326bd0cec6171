package swapchain

import "github.com/cockroachdb/errors"

// ErrConfigurationExhausted means that none of the surface formats offered
// by the device matches the format the manager is configured to use.
var ErrConfigurationExhausted = errors.New("swapchain: no acceptable surface format")

// ErrResourceCreation marks failures of the platform to create the swap chain,
// one of its image views or one of its framebuffers. The underlying driver
// error stays reachable through errors.Is/errors.As.
var ErrResourceCreation = errors.New("swapchain: resource creation failed")

// ErrIndexOutOfRange is returned by the checked framebuffer accessor.
var ErrIndexOutOfRange = errors.New("swapchain: index out of range")

// ErrFramebuffersExist is returned when framebuffers are requested while a
// previous set is still alive.
var ErrFramebuffersExist = errors.New("swapchain: framebuffers already created")

// ErrZeroExtent means the window has no drawable area (usually minimized)
// so no swap chain can be built for it right now.
var ErrZeroExtent = errors.New("swapchain: window has zero drawable area")

func resourceError(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrResourceCreation)
}
