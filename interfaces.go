package swapchain

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// Window reports the size of the drawable area of the window being presented to,
// in pixels.
type Window interface {
	DrawableSize() (width, height int)
}

// SupportDetails is what a physical device reports about presenting to a surface.
type SupportDetails struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

// QueueFamilyIndices holds the queue families used for graphics submission and
// for presentation. They may be the same family.
type QueueFamilyIndices struct {
	Graphics int
	Present  int
}

// PhysicalDevice answers capability queries against a surface.
type PhysicalDevice interface {
	SwapchainSupport(surface khr_surface.Surface) (SupportDetails, error)
	QueueFamilies(surface khr_surface.Surface) (QueueFamilyIndices, error)
}

// Device creates the resources owned by a Manager.
type Device interface {
	CreateSwapchain(info khr_swapchain.SwapchainCreateInfo) (Swapchain, error)
	CreateImageView(image Image, format core1_0.Format) (ImageView, error)
	CreateFramebuffer(info FramebufferInfo) (Framebuffer, error)
}

// Swapchain is the presentation queue object.
type Swapchain interface {
	// Images returns the presentable images in the order the platform
	// hands them out on acquire.
	Images() ([]Image, error)
	Destroy()
}

// Image is a presentable image. Images belong to the platform and are
// released together with their swap chain, never on their own.
type Image interface{}

// ImageView is a view over an image usable as a render target.
type ImageView interface {
	Destroy()
}

// Framebuffer binds concrete image views to the attachment slots of a render pass.
type Framebuffer interface {
	Destroy()
}

// FramebufferInfo describes a single framebuffer.
type FramebufferInfo struct {
	RenderPass  core1_0.RenderPass
	Attachments []ImageView
	Extent      core1_0.Extent2D
	Layers      int
}
