package main

import (
	"github.com/cockroachdb/errors"
	"github.com/neatorenderer/swapchain/vulkan"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"
)

func (app *DemoApplication) createInstance() error {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    "Swapchain Demo",
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	sdlExtensions := app.window.VulkanGetInstanceExtensions()
	extensions, _, err := app.globalDriver.AvailableExtensions()
	if err != nil {
		return err
	}

	for _, ext := range sdlExtensions {
		_, hasExt := extensions[ext]
		if !hasExt {
			return errors.Newf("createInstance: cannot initialize sdl: missing extension %s", ext)
		}
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, ext)
	}

	if app.config.EnableValidation {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, ext_debug_utils.ExtensionName)
	}

	_, enumerationSupported := extensions[khr_portability_enumeration.ExtensionName]
	if enumerationSupported {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if app.config.EnableValidation {
		layers, _, err := app.globalDriver.AvailableLayers()
		if err != nil {
			return err
		}

		for _, layer := range validationLayers {
			_, hasValidation := layers[layer]
			if !hasValidation {
				return errors.Newf("createInstance: cannot add validation layer %s: install the LunarG Vulkan SDK or pass --no-validation", layer)
			}
			instanceOptions.EnabledLayerNames = append(instanceOptions.EnabledLayerNames, layer)
		}

		instanceOptions.Next = app.debugMessengerOptions()
	}

	instance, _, err := app.globalDriver.CreateInstance(nil, instanceOptions)
	if err != nil {
		return err
	}

	app.instanceDriver, err = app.globalDriver.BuildInstanceDriver(instance)
	return err
}

func (app *DemoApplication) debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    app.logDebug,
	}
}

func (app *DemoApplication) setupDebugMessenger() error {
	if !app.config.EnableValidation {
		return nil
	}

	var err error
	app.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(app.instanceDriver)
	app.debugMessenger, _, err = app.debugDriver.CreateDebugUtilsMessenger(nil, app.debugMessengerOptions())
	return err
}

func (app *DemoApplication) createSurface() error {
	app.surfaceExtension = khr_surface.CreateExtensionDriverFromCoreDriver(app.instanceDriver)
	surface, err := vkng_sdl2.CreateSurface(app.instanceDriver.Instance(), app.surfaceExtension, app.window)
	if err != nil {
		return err
	}

	app.surface = surface
	return nil
}

func (app *DemoApplication) pickPhysicalDevice() error {
	physicalDevices, _, err := app.instanceDriver.EnumeratePhysicalDevices()
	if err != nil {
		return err
	}

	for _, device := range physicalDevices {
		candidate := vulkan.NewPhysicalDevice(app.instanceDriver, app.surfaceExtension, device)
		if !app.isDeviceSuitable(candidate) {
			continue
		}

		app.physicalDevice = candidate
		app.msaaSamples, err = app.getMaxUsableSampleCount()
		if err != nil {
			return err
		}
		break
	}

	if app.physicalDevice == nil {
		return errors.New("failed to find a suitable GPU")
	}

	return nil
}

func (app *DemoApplication) isDeviceSuitable(device *vulkan.PhysicalDevice) bool {
	_, err := device.QueueFamilies(app.surface)
	if err != nil {
		return false
	}

	if !app.checkDeviceExtensionSupport(device.Handle()) {
		return false
	}

	support, err := device.SwapchainSupport(app.surface)
	if err != nil {
		return false
	}

	return len(support.Formats) > 0 && len(support.PresentModes) > 0
}

func (app *DemoApplication) checkDeviceExtensionSupport(device core1_0.PhysicalDevice) bool {
	extensions, _, err := app.instanceDriver.EnumerateDeviceExtensionProperties(device)
	if err != nil {
		return false
	}

	for _, extension := range deviceExtensions {
		_, hasExtension := extensions[extension]
		if !hasExtension {
			return false
		}
	}

	return true
}

func (app *DemoApplication) createLogicalDevice() error {
	indices, err := app.physicalDevice.QueueFamilies(app.surface)
	if err != nil {
		return err
	}
	app.queueFamilies = indices

	uniqueQueueFamilies := []int{indices.Graphics}
	if indices.Graphics != indices.Present {
		uniqueQueueFamilies = append(uniqueQueueFamilies, indices.Present)
	}

	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(1.0)
	for _, queueFamily := range uniqueQueueFamilies {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	var extensionNames []string
	extensionNames = append(extensionNames, deviceExtensions...)

	// Makes the demo run on portability implementations such as MoltenVK
	extensions, _, err := app.instanceDriver.EnumerateDeviceExtensionProperties(app.physicalDevice.Handle())
	if err != nil {
		return err
	}

	_, supported := extensions[khr_portability_subset.ExtensionName]
	if supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	device, _, err := app.instanceDriver.CreateDevice(app.physicalDevice.Handle(), nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return err
	}

	app.deviceDriver, err = app.instanceDriver.BuildDeviceDriver(device)
	if err != nil {
		return err
	}

	app.device = vulkan.NewDevice(app.deviceDriver)
	app.graphicsQueue = app.deviceDriver.GetQueue(indices.Graphics, 0)
	app.presentQueue = app.deviceDriver.GetQueue(indices.Present, 0)
	return nil
}
