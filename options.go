package swapchain

import (
	"log"

	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// DefaultSurfaceFormat is used when the device accepts any format and is
// the pair searched for otherwise.
var DefaultSurfaceFormat = khr_surface.SurfaceFormat{
	Format:     core1_0.FormatB8G8R8A8UnsignedNormalized,
	ColorSpace: khr_surface.ColorSpaceSRGBNonlinear,
}

// Options configures format and present-mode negotiation.
type Options struct {
	// PreferredFormat must be offered by the device, unless the device
	// reports that any format is acceptable. An undefined format means
	// DefaultSurfaceFormat.
	PreferredFormat khr_surface.SurfaceFormat

	// PresentModes lists present modes in order of preference. FIFO is
	// always available and used when none of these is offered. Nil means
	// mailbox, then immediate.
	PresentModes []khr_surface.PresentMode

	// Logger receives one line per creation and teardown. Nil disables logging.
	Logger *log.Logger
}

// DefaultOptions prefers BGRA8 sRGB and mailbox over immediate over FIFO.
func DefaultOptions() Options {
	return Options{
		PreferredFormat: DefaultSurfaceFormat,
		PresentModes:    []khr_surface.PresentMode{khr_surface.PresentModeMailbox, khr_surface.PresentModeImmediate},
	}
}

// withDefaults fills in the zero fields, so Options{} behaves like DefaultOptions.
func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.PreferredFormat.Format == core1_0.FormatUndefined {
		o.PreferredFormat = defaults.PreferredFormat
	}
	if o.PresentModes == nil {
		o.PresentModes = defaults.PresentModes
	}
	return o
}

func (o Options) logf(format string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}
