package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/neatorenderer/swapchain"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// PhysicalDevice answers surface queries for one physical device.
type PhysicalDevice struct {
	instanceDriver   core1_0.CoreInstanceDriver
	surfaceExtension khr_surface.ExtensionDriver
	device           core1_0.PhysicalDevice
}

var _ swapchain.PhysicalDevice = (*PhysicalDevice)(nil)

func NewPhysicalDevice(instanceDriver core1_0.CoreInstanceDriver, surfaceExtension khr_surface.ExtensionDriver, device core1_0.PhysicalDevice) *PhysicalDevice {
	return &PhysicalDevice{
		instanceDriver:   instanceDriver,
		surfaceExtension: surfaceExtension,
		device:           device,
	}
}

func (p *PhysicalDevice) Handle() core1_0.PhysicalDevice {
	return p.device
}

func (p *PhysicalDevice) SwapchainSupport(surface khr_surface.Surface) (swapchain.SupportDetails, error) {
	var details swapchain.SupportDetails
	var err error

	details.Capabilities, _, err = p.surfaceExtension.GetPhysicalDeviceSurfaceCapabilities(surface, p.device)
	if err != nil {
		return details, err
	}

	details.Formats, _, err = p.surfaceExtension.GetPhysicalDeviceSurfaceFormats(surface, p.device)
	if err != nil {
		return details, err
	}

	details.PresentModes, _, err = p.surfaceExtension.GetPhysicalDeviceSurfacePresentModes(surface, p.device)
	return details, err
}

// QueueFamilies finds a graphics family and a family able to present to
// surface. A family that does both is preferred.
func (p *PhysicalDevice) QueueFamilies(surface khr_surface.Surface) (swapchain.QueueFamilyIndices, error) {
	graphicsFamily, presentFamily := -1, -1
	queueFamilies := p.instanceDriver.GetPhysicalDeviceQueueFamilyProperties(p.device)

	for queueFamilyIdx, queueFamily := range queueFamilies {
		graphics := (queueFamily.QueueFlags & core1_0.QueueGraphics) != 0

		supported, _, err := p.surfaceExtension.GetPhysicalDeviceSurfaceSupport(surface, p.device, queueFamilyIdx)
		if err != nil {
			return swapchain.QueueFamilyIndices{}, err
		}

		if graphics && supported {
			return swapchain.QueueFamilyIndices{Graphics: queueFamilyIdx, Present: queueFamilyIdx}, nil
		}
		if graphics && graphicsFamily < 0 {
			graphicsFamily = queueFamilyIdx
		}
		if supported && presentFamily < 0 {
			presentFamily = queueFamilyIdx
		}
	}

	if graphicsFamily < 0 || presentFamily < 0 {
		return swapchain.QueueFamilyIndices{}, errors.Newf("no queue family for graphics (%d) and present (%d)", graphicsFamily, presentFamily)
	}

	return swapchain.QueueFamilyIndices{Graphics: graphicsFamily, Present: presentFamily}, nil
}
