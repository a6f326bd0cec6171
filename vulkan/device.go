// Package vulkan implements the swapchain collaborators on top of the
// vkngwrapper drivers and an SDL2 window.
package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/neatorenderer/swapchain"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// Device creates swap chains, image views and framebuffers on a logical device.
type Device struct {
	driver             core1_0.CoreDeviceDriver
	swapchainExtension khr_swapchain.ExtensionDriver
}

var _ swapchain.Device = (*Device)(nil)

// NewDevice wraps a device driver. The device must have been created with
// the VK_KHR_swapchain extension enabled.
func NewDevice(driver core1_0.CoreDeviceDriver) *Device {
	return &Device{
		driver:             driver,
		swapchainExtension: khr_swapchain.CreateExtensionDriverFromCoreDriver(driver),
	}
}

// Extension exposes the swapchain extension driver for acquire and present.
func (d *Device) Extension() khr_swapchain.ExtensionDriver {
	return d.swapchainExtension
}

func (d *Device) CreateSwapchain(info khr_swapchain.SwapchainCreateInfo) (swapchain.Swapchain, error) {
	handle, _, err := d.swapchainExtension.CreateSwapchain(nil, info)
	if err != nil {
		return nil, err
	}

	return &Swapchain{extension: d.swapchainExtension, handle: handle}, nil
}

func (d *Device) CreateImageView(image swapchain.Image, format core1_0.Format) (swapchain.ImageView, error) {
	img, ok := image.(Image)
	if !ok {
		return nil, errors.Newf("unexpected image type %T", image)
	}

	view, err := CreateImageView(d.driver, img.Handle, format, core1_0.ImageAspectColor, 1)
	if err != nil {
		return nil, err
	}

	return &ImageView{driver: d.driver, Handle: view}, nil
}

func (d *Device) CreateFramebuffer(info swapchain.FramebufferInfo) (swapchain.Framebuffer, error) {
	attachments := make([]core1_0.ImageView, 0, len(info.Attachments))
	for i, attachment := range info.Attachments {
		view, ok := attachment.(*ImageView)
		if !ok {
			return nil, errors.Newf("attachment %d: unexpected image view type %T", i, attachment)
		}
		attachments = append(attachments, view.Handle)
	}

	framebuffer, _, err := d.driver.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
		RenderPass:  info.RenderPass,
		Layers:      uint32(info.Layers),
		Attachments: attachments,
		Width:       info.Extent.Width,
		Height:      info.Extent.Height,
	})
	if err != nil {
		return nil, err
	}

	return &Framebuffer{driver: d.driver, Handle: framebuffer}, nil
}

// CreateImageView creates a 2D view over a single array layer of image.
func CreateImageView(driver core1_0.CoreDeviceDriver, image core1_0.Image, format core1_0.Format, aspect core1_0.ImageAspectFlags, mipLevels int) (core1_0.ImageView, error) {
	imageView, _, err := driver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    image,
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		Components: core1_0.ComponentMapping{
			R: core1_0.ComponentSwizzleIdentity,
			G: core1_0.ComponentSwizzleIdentity,
			B: core1_0.ComponentSwizzleIdentity,
			A: core1_0.ComponentSwizzleIdentity,
		},
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     aspect,
			BaseMipLevel:   0,
			LevelCount:     mipLevels,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	return imageView, err
}
