package swapchain

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// ChooseSurfaceFormat picks the surface format for the swap chain. A device
// that reports a single undefined format accepts anything, in which case
// preferred is used as is. Otherwise preferred must be among the offered
// formats. An undefined preferred format stands for DefaultSurfaceFormat.
func ChooseSurfaceFormat(available []khr_surface.SurfaceFormat, preferred khr_surface.SurfaceFormat) (khr_surface.SurfaceFormat, error) {
	if preferred.Format == core1_0.FormatUndefined {
		preferred = DefaultSurfaceFormat
	}

	if len(available) == 1 && available[0].Format == core1_0.FormatUndefined {
		return preferred, nil
	}

	for _, format := range available {
		if format.Format == preferred.Format && format.ColorSpace == preferred.ColorSpace {
			return format, nil
		}
	}

	return khr_surface.SurfaceFormat{}, errors.Wrapf(ErrConfigurationExhausted,
		"format %s with color space %s not among %d offered", preferred.Format, preferred.ColorSpace, len(available))
}

// ChoosePresentMode returns the first mode of preferences that is offered.
// FIFO is required of every conformant device and is the fallback.
func ChoosePresentMode(available []khr_surface.PresentMode, preferences []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, preferred := range preferences {
		for _, mode := range available {
			if mode == preferred {
				return mode
			}
		}
	}

	return khr_surface.PresentModeFIFO
}

func isUndefinedExtent(extent core1_0.Extent2D) bool {
	return extent.Width == -1 || int64(extent.Width) == math.MaxUint32
}

// ChooseExtent returns the surface's current extent when the surface dictates
// one. Otherwise the window's drawable size is clamped into the supported range.
func ChooseExtent(capabilities *khr_surface.SurfaceCapabilities, window Window) core1_0.Extent2D {
	if !isUndefinedExtent(capabilities.CurrentExtent) {
		return capabilities.CurrentExtent
	}

	width, height := window.DrawableSize()

	if width < capabilities.MinImageExtent.Width {
		width = capabilities.MinImageExtent.Width
	}
	if width > capabilities.MaxImageExtent.Width {
		width = capabilities.MaxImageExtent.Width
	}
	if height < capabilities.MinImageExtent.Height {
		height = capabilities.MinImageExtent.Height
	}
	if height > capabilities.MaxImageExtent.Height {
		height = capabilities.MaxImageExtent.Height
	}

	return core1_0.Extent2D{Width: width, Height: height}
}

// ChooseImageCount asks for one image more than the minimum so the
// application does not wait on the driver, capped by the maximum. A maximum
// of zero means there is no limit.
func ChooseImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && capabilities.MaxImageCount < imageCount {
		imageCount = capabilities.MaxImageCount
	}

	return imageCount
}

// ChooseSharing shares images concurrently between the graphics and present
// families when they differ and exclusively otherwise.
func ChooseSharing(indices QueueFamilyIndices) (core1_0.SharingMode, []int) {
	if indices.Graphics != indices.Present {
		return core1_0.SharingModeConcurrent, []int{indices.Graphics, indices.Present}
	}

	return core1_0.SharingModeExclusive, nil
}
