package swapchain

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

type fakeWindow struct {
	width, height int
}

func (w *fakeWindow) DrawableSize() (int, int) {
	return w.width, w.height
}

type fakePhysicalDevice struct {
	support    SupportDetails
	supportErr error
	indices    QueueFamilyIndices
	indicesErr error
}

func (p *fakePhysicalDevice) SwapchainSupport(khr_surface.Surface) (SupportDetails, error) {
	return p.support, p.supportErr
}

func (p *fakePhysicalDevice) QueueFamilies(khr_surface.Surface) (QueueFamilyIndices, error) {
	return p.indices, p.indicesErr
}

// fakeDevice hands out named resources and records every create and destroy
// in order.
type fakeDevice struct {
	events []string

	imageCount int
	imagesErr  error

	swapchainErr       error
	failImageViewAt    int
	failFramebufferAt  int
	imageViewCount     int
	framebufferCount   int
	swapchainInfos     []khr_swapchain.SwapchainCreateInfo
	framebufferInfos   []FramebufferInfo
	imageViewFormats   []core1_0.Format
	imageViewSources   []Image
	destroyedSwapchain int
}

func newFakeDevice(imageCount int) *fakeDevice {
	return &fakeDevice{
		imageCount:        imageCount,
		failImageViewAt:   -1,
		failFramebufferAt: -1,
	}
}

func (d *fakeDevice) CreateSwapchain(info khr_swapchain.SwapchainCreateInfo) (Swapchain, error) {
	d.swapchainInfos = append(d.swapchainInfos, info)
	if d.swapchainErr != nil {
		return nil, d.swapchainErr
	}
	d.events = append(d.events, "create swapchain")
	return &fakeSwapchain{device: d}, nil
}

func (d *fakeDevice) CreateImageView(image Image, format core1_0.Format) (ImageView, error) {
	if d.imageViewCount == d.failImageViewAt {
		return nil, errors.New("out of host memory")
	}
	name := fmt.Sprintf("view%d", d.imageViewCount)
	d.imageViewCount++
	d.imageViewFormats = append(d.imageViewFormats, format)
	d.imageViewSources = append(d.imageViewSources, image)
	d.events = append(d.events, "create "+name)
	return &fakeImageView{name: name, device: d}, nil
}

func (d *fakeDevice) CreateFramebuffer(info FramebufferInfo) (Framebuffer, error) {
	if d.framebufferCount == d.failFramebufferAt {
		return nil, errors.New("out of device memory")
	}
	name := fmt.Sprintf("framebuffer%d", d.framebufferCount)
	d.framebufferCount++
	d.framebufferInfos = append(d.framebufferInfos, info)
	d.events = append(d.events, "create "+name)
	return &fakeFramebuffer{name: name, device: d}, nil
}

type fakeSwapchain struct {
	device    *fakeDevice
	destroyed bool
}

func (s *fakeSwapchain) Images() ([]Image, error) {
	if s.device.imagesErr != nil {
		return nil, s.device.imagesErr
	}
	images := make([]Image, 0, s.device.imageCount)
	for i := 0; i < s.device.imageCount; i++ {
		images = append(images, fmt.Sprintf("image%d", i))
	}
	return images, nil
}

func (s *fakeSwapchain) Destroy() {
	if s.destroyed {
		panic("swapchain destroyed twice")
	}
	s.destroyed = true
	s.device.destroyedSwapchain++
	s.device.events = append(s.device.events, "destroy swapchain")
}

type fakeImageView struct {
	name      string
	device    *fakeDevice
	destroyed bool
}

func (v *fakeImageView) Destroy() {
	if v.destroyed {
		panic(v.name + " destroyed twice")
	}
	v.destroyed = true
	v.device.events = append(v.device.events, "destroy "+v.name)
}

type fakeFramebuffer struct {
	name      string
	device    *fakeDevice
	destroyed bool
}

func (f *fakeFramebuffer) Destroy() {
	if f.destroyed {
		panic(f.name + " destroyed twice")
	}
	f.destroyed = true
	f.device.events = append(f.device.events, "destroy "+f.name)
}

// sharedView stands in for the caller-owned color and depth targets.
type sharedView struct {
	name string
}

func (v *sharedView) Destroy() {
	panic(v.name + " is not owned by the swapchain")
}

func testCapabilities() *khr_surface.SurfaceCapabilities {
	return &khr_surface.SurfaceCapabilities{
		MinImageCount:  2,
		MaxImageCount:  8,
		CurrentExtent:  core1_0.Extent2D{Width: 1024, Height: 768},
		MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},
	}
}

func testPhysicalDevice() *fakePhysicalDevice {
	return &fakePhysicalDevice{
		support: SupportDetails{
			Capabilities: testCapabilities(),
			Formats: []khr_surface.SurfaceFormat{
				{Format: core1_0.FormatR8G8B8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
				DefaultSurfaceFormat,
			},
			PresentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeMailbox},
		},
		indices: QueueFamilyIndices{Graphics: 0, Present: 0},
	}
}
