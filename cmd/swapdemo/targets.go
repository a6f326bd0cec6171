package main

import (
	"github.com/cockroachdb/errors"
	"github.com/neatorenderer/swapchain/vulkan"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// createRenderPass renders into a multisampled color target and a depth
// target, resolving color into the swap image.
func (app *DemoApplication) createRenderPass() error {
	depthFormat, err := app.findDepthFormat()
	if err != nil {
		return err
	}

	swapchainFormat := app.swapchain.Format()

	app.renderPass, _, err = app.deviceDriver.CreateRenderPass(nil, core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         swapchainFormat,
				Samples:        app.msaaSamples,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    core1_0.ImageLayoutColorAttachmentOptimal,
			},
			{
				Format:         depthFormat,
				Samples:        app.msaaSamples,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpDontCare,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    core1_0.ImageLayoutDepthStencilAttachmentOptimal,
			},
			{
				Format:         swapchainFormat,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpDontCare,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
				ResolveAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 2,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
				DepthStencilAttachment: &core1_0.AttachmentReference{
					Attachment: 1,
					Layout:     core1_0.ImageLayoutDepthStencilAttachmentOptimal,
				},
			},
		},
		SubpassDependencies: []core1_0.SubpassDependency{
			{
				SrcSubpass: core1_0.SubpassExternal,
				DstSubpass: 0,

				SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput | core1_0.PipelineStageEarlyFragmentTests,
				SrcAccessMask: 0,

				DstStageMask:  core1_0.PipelineStageColorAttachmentOutput | core1_0.PipelineStageEarlyFragmentTests,
				DstAccessMask: core1_0.AccessColorAttachmentWrite | core1_0.AccessDepthStencilAttachmentWrite,
			},
		},
	})
	return err
}

func (app *DemoApplication) createColorResources() error {
	extent := app.swapchain.Extent()

	var err error
	app.colorImage, app.colorImageMemory, err = app.createImage(
		extent.Width,
		extent.Height,
		app.msaaSamples,
		app.swapchain.Format(),
		core1_0.ImageUsageTransientAttachment|core1_0.ImageUsageColorAttachment)
	if err != nil {
		return err
	}

	app.colorImageView, err = vulkan.CreateImageView(app.deviceDriver, app.colorImage, app.swapchain.Format(), core1_0.ImageAspectColor, 1)
	return err
}

func (app *DemoApplication) createDepthResources() error {
	depthFormat, err := app.findDepthFormat()
	if err != nil {
		return err
	}

	extent := app.swapchain.Extent()
	app.depthImage, app.depthImageMemory, err = app.createImage(
		extent.Width,
		extent.Height,
		app.msaaSamples,
		depthFormat,
		core1_0.ImageUsageDepthStencilAttachment)
	if err != nil {
		return err
	}

	app.depthImageView, err = vulkan.CreateImageView(app.deviceDriver, app.depthImage, depthFormat, core1_0.ImageAspectDepth, 1)
	return err
}

// findDepthFormat returns the first depth format usable as an optimally tiled
// depth attachment.
func (app *DemoApplication) findDepthFormat() (core1_0.Format, error) {
	candidates := []core1_0.Format{core1_0.FormatD32SignedFloat, core1_0.FormatD32SignedFloatS8UnsignedInt, core1_0.FormatD24UnsignedNormalizedS8UnsignedInt}

	for _, format := range candidates {
		props := app.instanceDriver.GetPhysicalDeviceFormatProperties(app.physicalDevice.Handle(), format)
		if (props.OptimalTilingFeatures & core1_0.FormatFeatureDepthStencilAttachment) != 0 {
			return format, nil
		}
	}

	return 0, errors.New("no depth attachment format among D32, D32S8 and D24S8")
}

// getMaxUsableSampleCount caps multisampling at 8x; the resolve attachment
// requires at least 2x.
func (app *DemoApplication) getMaxUsableSampleCount() (core1_0.SampleCountFlags, error) {
	properties, err := app.instanceDriver.GetPhysicalDeviceProperties(app.physicalDevice.Handle())
	if err != nil {
		return 0, err
	}

	counts := properties.Limits.FramebufferColorSampleCounts & properties.Limits.FramebufferDepthSampleCounts

	if (counts & core1_0.Samples8) != 0 {
		return core1_0.Samples8, nil
	}
	if (counts & core1_0.Samples4) != 0 {
		return core1_0.Samples4, nil
	}
	if (counts & core1_0.Samples2) != 0 {
		return core1_0.Samples2, nil
	}
	return 0, errors.New("device does not support multisampled color and depth targets")
}

func (app *DemoApplication) createImage(width, height int, numSamples core1_0.SampleCountFlags, format core1_0.Format, usage core1_0.ImageUsageFlags) (core1_0.Image, core1_0.DeviceMemory, error) {
	image, _, err := app.deviceDriver.CreateImage(nil, core1_0.ImageCreateInfo{
		ImageType: core1_0.ImageType2D,
		Extent: core1_0.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        core1_0.ImageTilingOptimal,
		InitialLayout: core1_0.ImageLayoutUndefined,
		Usage:         usage,
		SharingMode:   core1_0.SharingModeExclusive,
		Samples:       numSamples,
	})
	if err != nil {
		return core1_0.Image{}, core1_0.DeviceMemory{}, err
	}

	memReqs := app.deviceDriver.GetImageMemoryRequirements(image)
	memoryIndex, err := app.findMemoryType(memReqs.MemoryTypeBits, core1_0.MemoryPropertyDeviceLocal)
	if err != nil {
		app.deviceDriver.DestroyImage(image, nil)
		return core1_0.Image{}, core1_0.DeviceMemory{}, err
	}

	imageMemory, _, err := app.deviceDriver.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memoryIndex,
	})
	if err != nil {
		app.deviceDriver.DestroyImage(image, nil)
		return core1_0.Image{}, core1_0.DeviceMemory{}, err
	}

	_, err = app.deviceDriver.BindImageMemory(image, imageMemory, 0)
	if err != nil {
		app.deviceDriver.DestroyImage(image, nil)
		app.deviceDriver.FreeMemory(imageMemory, nil)
		return core1_0.Image{}, core1_0.DeviceMemory{}, err
	}

	return image, imageMemory, nil
}

func (app *DemoApplication) findMemoryType(typeFilter uint32, properties core1_0.MemoryPropertyFlags) (int, error) {
	memProperties := app.instanceDriver.GetPhysicalDeviceMemoryProperties(app.physicalDevice.Handle())
	for i, memoryType := range memProperties.MemoryTypes {
		typeBit := uint32(1 << i)

		if (typeFilter&typeBit) != 0 && (memoryType.PropertyFlags&properties) == properties {
			return i, nil
		}
	}

	return 0, errors.New("failed to find any suitable memory type")
}
