package main

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/neatorenderer/swapchain"
	"github.com/neatorenderer/swapchain/vulkan"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

var (
	firstImageShade = mgl32.Vec3{0.05, 0.10, 0.30}
	lastImageShade  = mgl32.Vec3{0.30, 0.05, 0.15}
)

// imageShade spreads the swap images evenly between the first and last shade.
func imageShade(index, count int) mgl32.Vec3 {
	if count < 2 {
		return firstImageShade
	}

	t := float32(index) / float32(count-1)
	return firstImageShade.Mul(1 - t).Add(lastImageShade.Mul(t))
}

func (app *DemoApplication) createCommandPool() error {
	pool, _, err := app.deviceDriver.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: app.queueFamilies.Graphics,
	})
	if err != nil {
		return err
	}
	app.commandPool = pool

	return nil
}

func (app *DemoApplication) createCommandBuffers() error {
	framebuffers := app.swapchain.Framebuffers()

	buffers, _, err := app.deviceDriver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        app.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: len(framebuffers),
	})
	if err != nil {
		return err
	}
	app.commandBuffers = buffers

	for bufferIdx, buffer := range buffers {
		framebuffer, err := app.swapchain.Framebuffer(bufferIdx)
		if err != nil {
			return err
		}
		shade := imageShade(bufferIdx, len(buffers))

		_, err = app.deviceDriver.BeginCommandBuffer(buffer, core1_0.CommandBufferBeginInfo{})
		if err != nil {
			return err
		}

		err = app.deviceDriver.CmdBeginRenderPass(buffer, core1_0.SubpassContentsInline,
			core1_0.RenderPassBeginInfo{
				RenderPass:  app.renderPass,
				Framebuffer: framebuffer.(*vulkan.Framebuffer).Handle,
				RenderArea: core1_0.Rect2D{
					Offset: core1_0.Offset2D{X: 0, Y: 0},
					Extent: app.swapchain.Extent(),
				},
				ClearValues: []core1_0.ClearValue{
					core1_0.ClearValueFloat{shade.X(), shade.Y(), shade.Z(), 1},
					core1_0.ClearValueDepthStencil{Depth: 1.0, Stencil: 0},
				},
			})
		if err != nil {
			return err
		}

		app.deviceDriver.CmdEndRenderPass(buffer)

		_, err = app.deviceDriver.EndCommandBuffer(buffer)
		if err != nil {
			return err
		}
	}

	return nil
}

func (app *DemoApplication) createSyncObjects() error {
	for i := 0; i < MaxFramesInFlight; i++ {
		semaphore, _, err := app.deviceDriver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return err
		}

		app.imageAvailableSemaphore = append(app.imageAvailableSemaphore, semaphore)

		fence, _, err := app.deviceDriver.CreateFence(nil, core1_0.FenceCreateInfo{
			Flags: core1_0.FenceCreateSignaled,
		})
		if err != nil {
			return err
		}

		app.inFlightFence = append(app.inFlightFence, fence)
	}

	return nil
}

// createRenderFinishedSemaphores creates one semaphore per swap image; a
// present may still be waiting on the semaphore of an image when the next
// frame in flight starts.
func (app *DemoApplication) createRenderFinishedSemaphores() error {
	for i := 0; i < len(app.swapchain.Images()); i++ {
		semaphore, _, err := app.deviceDriver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return err
		}

		app.renderFinishedSemaphore = append(app.renderFinishedSemaphore, semaphore)
	}

	return nil
}

func (app *DemoApplication) swapchainHandle() khr_swapchain.Swapchain {
	return app.swapchain.Swapchain().(*vulkan.Swapchain).Handle()
}

func (app *DemoApplication) drawFrame() error {
	if app.swapchain.Swapchain() == nil {
		return app.recreateSwapChain()
	}

	fences := []core1_0.Fence{app.inFlightFence[app.currentFrame]}

	_, err := app.deviceDriver.WaitForFences(true, common.NoTimeout, fences...)
	if err != nil {
		return err
	}

	imageIndex, res, err := app.device.Extension().AcquireNextImage(app.swapchainHandle(), common.NoTimeout, &app.imageAvailableSemaphore[app.currentFrame], nil)
	if res == khr_swapchain.VKErrorOutOfDate {
		return app.recreateSwapChain()
	} else if err != nil {
		return err
	}

	if app.imagesInFlight[imageIndex].Initialized() {
		_, err := app.deviceDriver.WaitForFences(true, common.NoTimeout, app.imagesInFlight[imageIndex])
		if err != nil {
			return err
		}
	}
	app.imagesInFlight[imageIndex] = app.inFlightFence[app.currentFrame]

	_, err = app.deviceDriver.ResetFences(fences...)
	if err != nil {
		return err
	}

	_, err = app.deviceDriver.QueueSubmit(app.graphicsQueue, &app.inFlightFence[app.currentFrame],
		core1_0.SubmitInfo{
			WaitSemaphores:   []core1_0.Semaphore{app.imageAvailableSemaphore[app.currentFrame]},
			WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
			CommandBuffers:   []core1_0.CommandBuffer{app.commandBuffers[imageIndex]},
			SignalSemaphores: []core1_0.Semaphore{app.renderFinishedSemaphore[imageIndex]},
		},
	)
	if err != nil {
		return err
	}

	res, err = app.device.Extension().QueuePresent(app.presentQueue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{app.renderFinishedSemaphore[imageIndex]},
		Swapchains:     []khr_swapchain.Swapchain{app.swapchainHandle()},
		ImageIndices:   []int{imageIndex},
	})
	if res == khr_swapchain.VKErrorOutOfDate || res == khr_swapchain.VKSuboptimal {
		return app.recreateSwapChain()
	} else if err != nil {
		return err
	}

	app.currentFrame = (app.currentFrame + 1) % MaxFramesInFlight

	return nil
}

// recreateSwapChain rebuilds the swap chain and everything sized by it. While
// the window has no drawable area the old resources are kept and nothing
// happens; if the surface itself reports a zero extent the swap chain stays
// released until a later frame succeeds.
func (app *DemoApplication) recreateSwapChain() error {
	w, h := app.window.VulkanGetDrawableSize()
	if w == 0 || h == 0 {
		return nil
	}
	if (app.window.GetFlags() & sdl.WINDOW_MINIMIZED) != 0 {
		return nil
	}

	_, err := app.deviceDriver.DeviceWaitIdle()
	if err != nil {
		return err
	}

	app.cleanupSwapChain()

	err = app.swapchain.Recreate()
	if errors.Is(err, swapchain.ErrZeroExtent) {
		return nil
	} else if err != nil {
		return err
	}

	return app.createSwapchainResources()
}

// cleanupSwapChain releases the resources sized by the swap chain, then the
// swap chain itself.
func (app *DemoApplication) cleanupSwapChain() {
	if app.swapchain != nil {
		app.swapchain.DestroyFramebuffers()
	}

	if app.colorImageView.Initialized() {
		app.deviceDriver.DestroyImageView(app.colorImageView, nil)
		app.colorImageView = core1_0.ImageView{}
	}

	if app.colorImage.Initialized() {
		app.deviceDriver.DestroyImage(app.colorImage, nil)
		app.colorImage = core1_0.Image{}
	}

	if app.colorImageMemory.Initialized() {
		app.deviceDriver.FreeMemory(app.colorImageMemory, nil)
		app.colorImageMemory = core1_0.DeviceMemory{}
	}

	if app.depthImageView.Initialized() {
		app.deviceDriver.DestroyImageView(app.depthImageView, nil)
		app.depthImageView = core1_0.ImageView{}
	}

	if app.depthImage.Initialized() {
		app.deviceDriver.DestroyImage(app.depthImage, nil)
		app.depthImage = core1_0.Image{}
	}

	if app.depthImageMemory.Initialized() {
		app.deviceDriver.FreeMemory(app.depthImageMemory, nil)
		app.depthImageMemory = core1_0.DeviceMemory{}
	}

	if len(app.commandBuffers) > 0 {
		app.deviceDriver.FreeCommandBuffers(app.commandBuffers...)
		app.commandBuffers = []core1_0.CommandBuffer{}
	}

	for _, semaphore := range app.renderFinishedSemaphore {
		app.deviceDriver.DestroySemaphore(semaphore, nil)
	}
	app.renderFinishedSemaphore = []core1_0.Semaphore{}

	if app.renderPass.Initialized() {
		app.deviceDriver.DestroyRenderPass(app.renderPass, nil)
		app.renderPass = core1_0.RenderPass{}
	}

	if app.swapchain != nil {
		app.swapchain.Destroy()
	}
}

func (app *DemoApplication) cleanup() {
	if app.deviceDriver != nil {
		app.deviceDriver.DeviceWaitIdle()
		app.cleanupSwapChain()

		for _, fence := range app.inFlightFence {
			app.deviceDriver.DestroyFence(fence, nil)
		}

		for _, semaphore := range app.imageAvailableSemaphore {
			app.deviceDriver.DestroySemaphore(semaphore, nil)
		}

		if app.commandPool.Initialized() {
			app.deviceDriver.DestroyCommandPool(app.commandPool, nil)
		}

		app.deviceDriver.DestroyDevice(nil)
	}

	if app.debugMessenger.Initialized() {
		app.debugDriver.DestroyDebugUtilsMessenger(app.debugMessenger, nil)
	}

	if app.surface.Initialized() {
		app.surfaceExtension.DestroySurface(app.surface, nil)
	}

	if app.instanceDriver != nil {
		app.instanceDriver.DestroyInstance(nil)
	}

	if app.window != nil {
		app.window.Destroy()
	}
	sdl.Quit()
}
