// Package swapchain owns a Vulkan swap chain together with the image views
// and framebuffers built on top of its images.
//
// A Manager is not safe for concurrent use. It is meant to live on the
// thread that owns the graphics context, and it holds borrowed references to
// its window, devices and surface: those must be created before the Manager
// and destroyed after it.
package swapchain

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// Manager creates, recreates and destroys a swap chain and the image views
// and framebuffers that depend on it.
type Manager struct {
	id   uuid.UUID
	opts Options

	window         Window
	device         Device
	physicalDevice PhysicalDevice
	surface        khr_surface.Surface

	swapchain    Swapchain
	images       []Image
	imageViews   []ImageView
	framebuffers []Framebuffer

	surfaceFormat khr_surface.SurfaceFormat
	presentMode   khr_surface.PresentMode
	extent        core1_0.Extent2D
}

// New negotiates a swap chain for surface and creates it along with one
// image view per presentable image. Zero fields of opts take their
// DefaultOptions values. Either a fully built Manager or an error
// is returned; anything created before a failure is released again.
func New(window Window, device Device, physicalDevice PhysicalDevice, surface khr_surface.Surface, opts Options) (*Manager, error) {
	m := &Manager{
		id:             uuid.New(),
		opts:           opts.withDefaults(),
		window:         window,
		device:         device,
		physicalDevice: physicalDevice,
		surface:        surface,
	}

	err := m.create()
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) create() error {
	support, err := m.physicalDevice.SwapchainSupport(m.surface)
	if err != nil {
		return errors.Wrap(err, "query swapchain support")
	}
	if support.Capabilities == nil {
		return errors.New("query swapchain support: no surface capabilities reported")
	}

	surfaceFormat, err := ChooseSurfaceFormat(support.Formats, m.opts.PreferredFormat)
	if err != nil {
		return err
	}
	presentMode := ChoosePresentMode(support.PresentModes, m.opts.PresentModes)
	extent := ChooseExtent(support.Capabilities, m.window)
	if extent.Width <= 0 || extent.Height <= 0 {
		return errors.Wrapf(ErrZeroExtent, "extent %dx%d", extent.Width, extent.Height)
	}

	indices, err := m.physicalDevice.QueueFamilies(m.surface)
	if err != nil {
		return errors.Wrap(err, "find queue families")
	}
	sharingMode, queueFamilyIndices := ChooseSharing(indices)

	swapchain, err := m.device.CreateSwapchain(khr_swapchain.SwapchainCreateInfo{
		Surface: m.surface,

		MinImageCount:    ChooseImageCount(support.Capabilities),
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode,
		QueueFamilyIndices: queueFamilyIndices,

		PreTransform:   support.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    presentMode,
		Clipped:        true,
	})
	if err != nil {
		return resourceError(err, "create swapchain")
	}
	m.swapchain = swapchain
	m.surfaceFormat = surfaceFormat
	m.presentMode = presentMode
	m.extent = extent

	err = m.createImageViews()
	if err != nil {
		m.Destroy()
		return err
	}

	m.opts.logf("swapchain %s: created %d images %dx%d format %s present mode %s",
		m.id, len(m.images), extent.Width, extent.Height, surfaceFormat.Format, presentMode)
	return nil
}

func (m *Manager) createImageViews() error {
	images, err := m.swapchain.Images()
	if err != nil {
		return resourceError(err, "get swapchain images")
	}
	if len(images) == 0 {
		return errors.Mark(errors.New("swapchain returned no images"), ErrResourceCreation)
	}
	m.images = images

	for i, image := range images {
		view, err := m.device.CreateImageView(image, m.surfaceFormat.Format)
		if err != nil {
			return resourceError(err, "create image view %d of %d", i, len(images))
		}

		m.imageViews = append(m.imageViews, view)
	}

	return nil
}

// CreateFramebuffers builds one framebuffer per swap image, attaching
// colorView, depthView and the image's own view, in that order. The color and
// depth views are shared by every framebuffer and stay owned by the caller.
//
// On failure the framebuffers created so far are kept and released by the
// next Destroy; the Manager should then be destroyed or recreated.
func (m *Manager) CreateFramebuffers(renderPass core1_0.RenderPass, colorView, depthView ImageView) error {
	if len(m.framebuffers) > 0 {
		return errors.Wrapf(ErrFramebuffersExist, "%d framebuffers alive", len(m.framebuffers))
	}

	for i, imageView := range m.imageViews {
		framebuffer, err := m.device.CreateFramebuffer(FramebufferInfo{
			RenderPass:  renderPass,
			Attachments: []ImageView{colorView, depthView, imageView},
			Extent:      m.extent,
			Layers:      1,
		})
		if err != nil {
			return resourceError(err, "create framebuffer %d of %d", i, len(m.imageViews))
		}

		m.framebuffers = append(m.framebuffers, framebuffer)
	}

	m.opts.logf("swapchain %s: created %d framebuffers", m.id, len(m.framebuffers))
	return nil
}

// DestroyFramebuffers releases the framebuffers but keeps the swap chain and
// its image views, for when only the render pass changes.
func (m *Manager) DestroyFramebuffers() {
	for _, framebuffer := range m.framebuffers {
		framebuffer.Destroy()
	}
	m.framebuffers = nil
}

// Destroy releases framebuffers, image views and the swap chain, in that
// order. Presentable images belong to the swap chain and go with it. Calling
// Destroy again is a no-op.
func (m *Manager) Destroy() {
	if m.swapchain == nil && len(m.imageViews) == 0 && len(m.framebuffers) == 0 {
		return
	}

	m.DestroyFramebuffers()

	for _, imageView := range m.imageViews {
		imageView.Destroy()
	}
	m.imageViews = nil

	if m.swapchain != nil {
		m.swapchain.Destroy()
		m.swapchain = nil
	}
	m.images = nil
	m.surfaceFormat = khr_surface.SurfaceFormat{}
	m.extent = core1_0.Extent2D{}

	m.opts.logf("swapchain %s: destroyed", m.id)
}

// Recreate tears everything down and negotiates a new swap chain against the
// same surface, typically after a resize or an out-of-date present.
// Framebuffers have to be created again afterwards. If the window currently
// has no drawable area, ErrZeroExtent is returned and nothing is touched.
func (m *Manager) Recreate() error {
	width, height := m.window.DrawableSize()
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrZeroExtent, "window %dx%d", width, height)
	}

	m.Destroy()
	m.id = uuid.New()
	return m.create()
}

// ID identifies the current swap chain generation in logs. It changes on Recreate.
func (m *Manager) ID() uuid.UUID {
	return m.id
}

// Format is the negotiated image format. Format, ColorSpace and Extent report
// zero values while Swapchain is nil.
func (m *Manager) Format() core1_0.Format {
	return m.surfaceFormat.Format
}

func (m *Manager) ColorSpace() khr_surface.ColorSpace {
	return m.surfaceFormat.ColorSpace
}

// PresentMode is the negotiated present mode. It keeps the last negotiated
// value while Swapchain is nil, since the zero mode is immediate.
func (m *Manager) PresentMode() khr_surface.PresentMode {
	return m.presentMode
}

func (m *Manager) Extent() core1_0.Extent2D {
	return m.extent
}

// Swapchain returns the swap chain, or nil after Destroy.
func (m *Manager) Swapchain() Swapchain {
	return m.swapchain
}

// Images returns the presentable images. The slice must not be modified.
func (m *Manager) Images() []Image {
	return m.images
}

// ImageViews returns one view per image, in image order. The slice must not be modified.
func (m *Manager) ImageViews() []ImageView {
	return m.imageViews
}

// Framebuffers returns one framebuffer per image view once CreateFramebuffers
// has run. The slice must not be modified.
func (m *Manager) Framebuffers() []Framebuffer {
	return m.framebuffers
}

// Framebuffer returns the framebuffer targeting the swap image at index.
func (m *Manager) Framebuffer(index int) (Framebuffer, error) {
	if index < 0 || index >= len(m.framebuffers) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "framebuffer %d of %d", index, len(m.framebuffers))
	}

	return m.framebuffers[index], nil
}
