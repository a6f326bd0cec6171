package vulkan

import (
	"github.com/neatorenderer/swapchain"
	"github.com/veandco/go-sdl2/sdl"
)

// Window reports the Vulkan drawable size of an SDL window, which differs from
// the window size on high-DPI displays.
type Window struct {
	*sdl.Window
}

var _ swapchain.Window = Window{}

func (w Window) DrawableSize() (int, int) {
	width, height := w.VulkanGetDrawableSize()
	if (w.GetFlags() & sdl.WINDOW_MINIMIZED) != 0 {
		return 0, 0
	}
	return int(width), int(height)
}
