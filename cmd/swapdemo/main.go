// Command swapdemo opens a window and presents cleared frames through a
// swapchain.Manager, recreating the swap chain whenever the window changes.
// Each swap image is cleared to its own shade so the rotation of images is
// visible on screen.
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/neatorenderer/swapchain"
	"github.com/neatorenderer/swapchain/vulkan"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

const MaxFramesInFlight = 2

var validationLayers = []string{"VK_LAYER_KHRONOS_validation"}
var deviceExtensions = []string{khr_swapchain.ExtensionName}

type DemoApplication struct {
	config Config

	window *sdl.Window

	globalDriver   core1_0.GlobalDriver
	instanceDriver core1_0.CoreInstanceDriver
	deviceDriver   core1_0.CoreDeviceDriver

	debugDriver      ext_debug_utils.ExtensionDriver
	debugMessenger   ext_debug_utils.DebugUtilsMessenger
	surfaceExtension khr_surface.ExtensionDriver
	surface          khr_surface.Surface

	physicalDevice *vulkan.PhysicalDevice
	device         *vulkan.Device
	queueFamilies  swapchain.QueueFamilyIndices

	graphicsQueue core1_0.Queue
	presentQueue  core1_0.Queue

	swapchain  *swapchain.Manager
	renderPass core1_0.RenderPass

	msaaSamples      core1_0.SampleCountFlags
	colorImage       core1_0.Image
	colorImageMemory core1_0.DeviceMemory
	colorImageView   core1_0.ImageView
	depthImage       core1_0.Image
	depthImageMemory core1_0.DeviceMemory
	depthImageView   core1_0.ImageView

	commandPool    core1_0.CommandPool
	commandBuffers []core1_0.CommandBuffer

	imageAvailableSemaphore []core1_0.Semaphore
	renderFinishedSemaphore []core1_0.Semaphore
	inFlightFence           []core1_0.Fence
	imagesInFlight          []core1_0.Fence
	currentFrame            int
}

func (app *DemoApplication) Run() error {
	err := app.initWindow()
	if err != nil {
		return err
	}

	err = app.initVulkan()
	defer app.cleanup()
	if err != nil {
		return err
	}

	return app.mainLoop()
}

func (app *DemoApplication) initWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}

	window, err := sdl.CreateWindow("Swapchain", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(app.config.Width), int32(app.config.Height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return err
	}
	app.window = window

	app.globalDriver, err = core.CreateDriverFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return err
	}

	return nil
}

func (app *DemoApplication) initVulkan() error {
	err := app.createInstance()
	if err != nil {
		return err
	}

	err = app.setupDebugMessenger()
	if err != nil {
		return err
	}

	err = app.createSurface()
	if err != nil {
		return err
	}

	err = app.pickPhysicalDevice()
	if err != nil {
		return err
	}

	err = app.createLogicalDevice()
	if err != nil {
		return err
	}

	err = app.createCommandPool()
	if err != nil {
		return err
	}

	app.swapchain, err = swapchain.New(vulkan.Window{Window: app.window}, app.device, app.physicalDevice, app.surface, app.swapchainOptions())
	if err != nil {
		return err
	}

	err = app.createSwapchainResources()
	if err != nil {
		return err
	}

	return app.createSyncObjects()
}

func (app *DemoApplication) swapchainOptions() swapchain.Options {
	opts := swapchain.DefaultOptions()
	opts.PresentModes = app.config.presentModes()
	if app.config.Verbose {
		opts.Logger = log.Default()
	}
	return opts
}

// createSwapchainResources builds everything that depends on the swap
// chain's format, extent or image count.
func (app *DemoApplication) createSwapchainResources() error {
	err := app.createRenderPass()
	if err != nil {
		return err
	}

	err = app.createColorResources()
	if err != nil {
		return err
	}

	err = app.createDepthResources()
	if err != nil {
		return err
	}

	err = app.swapchain.CreateFramebuffers(app.renderPass,
		vulkan.BorrowImageView(app.colorImageView),
		vulkan.BorrowImageView(app.depthImageView))
	if err != nil {
		return err
	}

	err = app.createCommandBuffers()
	if err != nil {
		return err
	}

	app.imagesInFlight = make([]core1_0.Fence, len(app.swapchain.Images()))
	return app.createRenderFinishedSemaphores()
}

func (app *DemoApplication) mainLoop() error {
	rendering := true
	frames := 0
	lastReport := hrtime.Now()

appLoop:
	for true {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				break appLoop
			case *sdl.WindowEvent:
				switch e.Event {
				case sdl.WINDOWEVENT_MINIMIZED:
					rendering = false
				case sdl.WINDOWEVENT_RESTORED:
					rendering = true
				case sdl.WINDOWEVENT_RESIZED:
					w, h := app.window.GetSize()
					if w > 0 && h > 0 {
						rendering = true
						err := app.recreateSwapChain()
						if err != nil {
							return err
						}
					} else {
						rendering = false
					}
				}
			}
		}
		if rendering {
			err := app.drawFrame()
			if err != nil {
				return err
			}
			frames++
		}

		if elapsed := hrtime.Since(lastReport); elapsed.Seconds() >= 5 {
			extent := app.swapchain.Extent()
			log.Printf("%.1f fps, %dx%d, %d images, present mode %s",
				float64(frames)/elapsed.Seconds(), extent.Width, extent.Height, len(app.swapchain.Images()), app.swapchain.PresentMode())
			frames = 0
			lastReport = hrtime.Now()
		}
	}

	_, err := app.deviceDriver.DeviceWaitIdle()
	return err
}

func (app *DemoApplication) logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	log.Printf("[%s %s] - %s", severity, msgType, data.Message)
	return false
}

func main() {
	runtime.LockOSThread()

	config, err := parseArgs(os.Args[1:])
	if errors.Is(err, errHelp) {
		printUsage(os.Stdout)
		return
	} else if err != nil {
		fmt.Printf("\n%s\n", err)
		fmt.Println("\nUse --help or -h for option list.")
		os.Exit(2)
	}

	app := &DemoApplication{
		config:      config,
		msaaSamples: core1_0.Samples1,
	}

	err = app.Run()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
}
