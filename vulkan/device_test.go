package vulkan

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/neatorenderer/swapchain"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/core/v3/loader"
	"github.com/vkngwrapper/core/v3/mocks"
	"github.com/vkngwrapper/core/v3/mocks/mocks1_0"
	"go.uber.org/mock/gomock"
)

var errOutOfMemory = errors.New("out of host memory")

func TestDeviceCreateFramebuffer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	device := mocks.NewDummyDevice(common.Vulkan1_0, []string{})
	driver := mocks1_0.NewMockCoreDeviceDriver(ctrl)
	renderPass := mocks.NewDummyRenderPass(device)
	colorView := mocks.NewDummyImageView(device)
	depthView := mocks.NewDummyImageView(device)
	swapView := mocks.NewDummyImageView(device)
	framebuffer := mocks.NewDummyFramebuffer(device)

	driver.EXPECT().CreateFramebuffer(gomock.Nil(), core1_0.FramebufferCreateInfo{
		RenderPass:  renderPass,
		Attachments: []core1_0.ImageView{colorView, depthView, swapView},
		Width:       1024,
		Height:      768,
		Layers:      1,
	}).Return(framebuffer, core1_0.VKSuccess, nil)

	d := &Device{driver: driver}
	created, err := d.CreateFramebuffer(swapchain.FramebufferInfo{
		RenderPass: renderPass,
		Attachments: []swapchain.ImageView{
			BorrowImageView(colorView),
			BorrowImageView(depthView),
			&ImageView{driver: driver, Handle: swapView},
		},
		Extent: core1_0.Extent2D{Width: 1024, Height: 768},
		Layers: 1,
	})
	require.NoError(t, err)
	require.Equal(t, framebuffer, created.(*Framebuffer).Handle)

	driver.EXPECT().DestroyFramebuffer(framebuffer, gomock.Nil())
	created.Destroy()
	created.Destroy()
}

func TestDeviceCreateFramebufferFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	device := mocks.NewDummyDevice(common.Vulkan1_0, []string{})
	driver := mocks1_0.NewMockCoreDeviceDriver(ctrl)

	driver.EXPECT().CreateFramebuffer(gomock.Nil(), gomock.Any()).
		Return(core1_0.Framebuffer{}, core1_0.VKErrorOutOfHostMemory, errOutOfMemory)

	d := &Device{driver: driver}
	created, err := d.CreateFramebuffer(swapchain.FramebufferInfo{
		RenderPass:  mocks.NewDummyRenderPass(device),
		Attachments: []swapchain.ImageView{BorrowImageView(mocks.NewDummyImageView(device))},
		Extent:      core1_0.Extent2D{Width: 1, Height: 1},
		Layers:      1,
	})
	require.ErrorIs(t, err, errOutOfMemory)
	require.Nil(t, created)
}

func TestDeviceCreateImageView(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	device := mocks.NewDummyDevice(common.Vulkan1_0, []string{})
	driver := mocks1_0.NewMockCoreDeviceDriver(ctrl)
	image := mocks.NewDummyImage(device)
	view := mocks.NewDummyImageView(device)

	driver.EXPECT().CreateImageView(gomock.Nil(), gomock.Any()).DoAndReturn(
		func(allocationCallbacks *loader.AllocationCallbacks, o core1_0.ImageViewCreateInfo) (core1_0.ImageView, common.VkResult, error) {
			require.Equal(t, image, o.Image)
			require.Equal(t, core1_0.ImageViewType2D, o.ViewType)
			require.Equal(t, swapchain.DefaultSurfaceFormat.Format, o.Format)
			require.Equal(t, core1_0.ComponentSwizzleIdentity, o.Components.R)
			require.Equal(t, core1_0.ComponentSwizzleIdentity, o.Components.A)
			require.Equal(t, core1_0.ImageSubresourceRange{
				AspectMask: core1_0.ImageAspectColor,
				LevelCount: 1,
				LayerCount: 1,
			}, o.SubresourceRange)

			return view, core1_0.VKSuccess, nil
		})

	d := &Device{driver: driver}
	created, err := d.CreateImageView(Image{Handle: image}, swapchain.DefaultSurfaceFormat.Format)
	require.NoError(t, err)
	require.Equal(t, view, created.(*ImageView).Handle)

	driver.EXPECT().DestroyImageView(view, gomock.Nil())
	created.Destroy()
	created.Destroy()
}

func TestBorrowedImageViewIsNotDestroyed(t *testing.T) {
	view := BorrowImageView(mocks.NewDummyImageView(mocks.NewDummyDevice(common.Vulkan1_0, []string{})))
	require.True(t, view.Handle.Initialized())

	// A borrowed view has no driver to release it through.
	require.NotPanics(t, view.Destroy)
}
