package vulkan

import (
	"github.com/neatorenderer/swapchain"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// Swapchain wraps a khr_swapchain handle.
type Swapchain struct {
	extension khr_swapchain.ExtensionDriver
	handle    khr_swapchain.Swapchain
}

// Handle returns the raw swap chain for acquire and present calls.
func (s *Swapchain) Handle() khr_swapchain.Swapchain {
	return s.handle
}

func (s *Swapchain) Images() ([]swapchain.Image, error) {
	images, _, err := s.extension.GetSwapchainImages(s.handle)
	if err != nil {
		return nil, err
	}

	wrapped := make([]swapchain.Image, 0, len(images))
	for _, image := range images {
		wrapped = append(wrapped, Image{Handle: image})
	}
	return wrapped, nil
}

func (s *Swapchain) Destroy() {
	if s.handle.Initialized() {
		s.extension.DestroySwapchain(s.handle, nil)
		s.handle = khr_swapchain.Swapchain{}
	}
}

// Image is a presentable image. It has no Destroy: the swap chain owns it.
type Image struct {
	Handle core1_0.Image
}

// ImageView wraps an image view created on driver.
type ImageView struct {
	driver core1_0.CoreDeviceDriver
	Handle core1_0.ImageView
}

// BorrowImageView wraps a view the caller keeps ownership of, such as a
// shared color or depth target. Destroy on the result does nothing.
func BorrowImageView(view core1_0.ImageView) *ImageView {
	return &ImageView{Handle: view}
}

func (v *ImageView) Destroy() {
	if v.driver != nil && v.Handle.Initialized() {
		v.driver.DestroyImageView(v.Handle, nil)
		v.Handle = core1_0.ImageView{}
	}
}

// Framebuffer wraps a framebuffer created on driver.
type Framebuffer struct {
	driver core1_0.CoreDeviceDriver
	Handle core1_0.Framebuffer
}

func (f *Framebuffer) Destroy() {
	if f.Handle.Initialized() {
		f.driver.DestroyFramebuffer(f.Handle, nil)
		f.Handle = core1_0.Framebuffer{}
	}
}
