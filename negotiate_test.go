package swapchain

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

func TestChooseSurfaceFormat(t *testing.T) {
	otherColorSpace := khr_surface.ColorSpace(1000104001)

	testCases := []struct {
		name      string
		available []khr_surface.SurfaceFormat
		expected  khr_surface.SurfaceFormat
	}{
		{
			name:      "undefined accepts anything",
			available: []khr_surface.SurfaceFormat{{Format: core1_0.FormatUndefined, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}},
			expected:  DefaultSurfaceFormat,
		},
		{
			name:      "undefined ignores its color space",
			available: []khr_surface.SurfaceFormat{{Format: core1_0.FormatUndefined, ColorSpace: otherColorSpace}},
			expected:  DefaultSurfaceFormat,
		},
		{
			name:      "exact match first",
			available: []khr_surface.SurfaceFormat{DefaultSurfaceFormat, {Format: core1_0.FormatR8G8B8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}},
			expected:  DefaultSurfaceFormat,
		},
		{
			name: "exact match not first",
			available: []khr_surface.SurfaceFormat{
				{Format: core1_0.FormatR8G8B8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
				{Format: core1_0.FormatB8G8R8A8UnsignedNormalized, ColorSpace: otherColorSpace},
				DefaultSurfaceFormat,
			},
			expected: DefaultSurfaceFormat,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			format, err := ChooseSurfaceFormat(tc.available, DefaultSurfaceFormat)
			require.NoError(t, err)
			require.Equal(t, tc.expected, format)
		})
	}
}

func TestChooseSurfaceFormatNoMatch(t *testing.T) {
	testCases := []struct {
		name      string
		available []khr_surface.SurfaceFormat
	}{
		{name: "empty"},
		{
			name: "format matches but color space does not",
			available: []khr_surface.SurfaceFormat{
				{Format: core1_0.FormatB8G8R8A8UnsignedNormalized, ColorSpace: khr_surface.ColorSpace(1000104001)},
			},
		},
		{
			name: "undefined among others",
			available: []khr_surface.SurfaceFormat{
				{Format: core1_0.FormatUndefined, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
				{Format: core1_0.FormatR8G8B8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ChooseSurfaceFormat(tc.available, DefaultSurfaceFormat)
			require.True(t, errors.Is(err, ErrConfigurationExhausted), "got %v", err)
		})
	}
}

func TestChooseSurfaceFormatPreferred(t *testing.T) {
	preferred := khr_surface.SurfaceFormat{Format: core1_0.FormatR8G8B8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}

	format, err := ChooseSurfaceFormat([]khr_surface.SurfaceFormat{DefaultSurfaceFormat, preferred}, preferred)
	require.NoError(t, err)
	require.Equal(t, preferred, format)

	format, err = ChooseSurfaceFormat([]khr_surface.SurfaceFormat{{Format: core1_0.FormatUndefined}}, preferred)
	require.NoError(t, err)
	require.Equal(t, preferred, format)
}

func TestChooseSurfaceFormatUndefinedPreference(t *testing.T) {
	format, err := ChooseSurfaceFormat([]khr_surface.SurfaceFormat{{Format: core1_0.FormatUndefined}}, khr_surface.SurfaceFormat{})
	require.NoError(t, err)
	require.Equal(t, DefaultSurfaceFormat, format)

	format, err = ChooseSurfaceFormat(testPhysicalDevice().support.Formats, khr_surface.SurfaceFormat{})
	require.NoError(t, err)
	require.Equal(t, DefaultSurfaceFormat, format)
}

func TestChoosePresentMode(t *testing.T) {
	fifo := khr_surface.PresentModeFIFO
	mailbox := khr_surface.PresentModeMailbox
	immediate := khr_surface.PresentModeImmediate
	defaults := DefaultOptions().PresentModes

	testCases := []struct {
		name        string
		available   []khr_surface.PresentMode
		preferences []khr_surface.PresentMode
		expected    khr_surface.PresentMode
	}{
		{name: "mailbox after fifo", available: []khr_surface.PresentMode{fifo, mailbox}, preferences: defaults, expected: mailbox},
		{name: "mailbox before fifo", available: []khr_surface.PresentMode{mailbox, fifo}, preferences: defaults, expected: mailbox},
		{name: "immediate", available: []khr_surface.PresentMode{fifo, immediate}, preferences: defaults, expected: immediate},
		{name: "mailbox beats immediate", available: []khr_surface.PresentMode{immediate, fifo, mailbox}, preferences: defaults, expected: mailbox},
		{name: "fifo only", available: []khr_surface.PresentMode{fifo}, preferences: defaults, expected: fifo},
		{name: "nothing reported", preferences: defaults, expected: fifo},
		{name: "no preferences", available: []khr_surface.PresentMode{mailbox, immediate}, expected: fifo},
		{name: "custom order", available: []khr_surface.PresentMode{mailbox, immediate, fifo}, preferences: []khr_surface.PresentMode{immediate, mailbox}, expected: immediate},
		{name: "vsync requested", available: []khr_surface.PresentMode{mailbox, fifo}, preferences: []khr_surface.PresentMode{fifo}, expected: fifo},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ChoosePresentMode(tc.available, tc.preferences))
		})
	}
}

func TestChooseExtent(t *testing.T) {
	undefined := core1_0.Extent2D{Width: -1, Height: -1}

	testCases := []struct {
		name     string
		current  core1_0.Extent2D
		window   fakeWindow
		min, max core1_0.Extent2D
		expected core1_0.Extent2D
	}{
		{
			name:     "window size inside bounds",
			current:  undefined,
			window:   fakeWindow{width: 800, height: 600},
			min:      core1_0.Extent2D{Width: 1, Height: 1},
			max:      core1_0.Extent2D{Width: 4096, Height: 4096},
			expected: core1_0.Extent2D{Width: 800, Height: 600},
		},
		{
			name:     "unsigned sentinel",
			current:  core1_0.Extent2D{Width: 0xFFFFFFFF, Height: 0xFFFFFFFF},
			window:   fakeWindow{width: 800, height: 600},
			min:      core1_0.Extent2D{Width: 1, Height: 1},
			max:      core1_0.Extent2D{Width: 4096, Height: 4096},
			expected: core1_0.Extent2D{Width: 800, Height: 600},
		},
		{
			name:     "clamped up",
			current:  undefined,
			window:   fakeWindow{width: 10, height: 0},
			min:      core1_0.Extent2D{Width: 64, Height: 32},
			max:      core1_0.Extent2D{Width: 4096, Height: 4096},
			expected: core1_0.Extent2D{Width: 64, Height: 32},
		},
		{
			name:     "clamped down per axis",
			current:  undefined,
			window:   fakeWindow{width: 5000, height: 600},
			min:      core1_0.Extent2D{Width: 1, Height: 1},
			max:      core1_0.Extent2D{Width: 4096, Height: 512},
			expected: core1_0.Extent2D{Width: 4096, Height: 512},
		},
		{
			name:     "surface dictates extent",
			current:  core1_0.Extent2D{Width: 1024, Height: 768},
			window:   fakeWindow{width: 800, height: 600},
			min:      core1_0.Extent2D{Width: 1, Height: 1},
			max:      core1_0.Extent2D{Width: 4096, Height: 4096},
			expected: core1_0.Extent2D{Width: 1024, Height: 768},
		},
		{
			name:     "surface extent not clamped",
			current:  core1_0.Extent2D{Width: 1024, Height: 768},
			window:   fakeWindow{width: 1, height: 1},
			min:      core1_0.Extent2D{Width: 1, Height: 1},
			max:      core1_0.Extent2D{Width: 512, Height: 512},
			expected: core1_0.Extent2D{Width: 1024, Height: 768},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			window := tc.window
			extent := ChooseExtent(&khr_surface.SurfaceCapabilities{
				CurrentExtent:  tc.current,
				MinImageExtent: tc.min,
				MaxImageExtent: tc.max,
			}, &window)
			require.Equal(t, tc.expected, extent)
		})
	}
}

func TestChooseImageCount(t *testing.T) {
	testCases := []struct {
		min, max int
		expected int
	}{
		{min: 2, max: 8, expected: 3},
		{min: 2, max: 0, expected: 3},
		{min: 3, max: 3, expected: 3},
		{min: 1, max: 2, expected: 2},
		{min: 4, max: 4, expected: 4},
		{min: 1, max: 0, expected: 2},
	}

	for _, tc := range testCases {
		count := ChooseImageCount(&khr_surface.SurfaceCapabilities{MinImageCount: tc.min, MaxImageCount: tc.max})
		require.Equal(t, tc.expected, count, "min %d max %d", tc.min, tc.max)
	}
}

func TestChooseSharing(t *testing.T) {
	mode, families := ChooseSharing(QueueFamilyIndices{Graphics: 1, Present: 1})
	require.Equal(t, core1_0.SharingModeExclusive, mode)
	require.Empty(t, families)

	mode, families = ChooseSharing(QueueFamilyIndices{Graphics: 0, Present: 2})
	require.Equal(t, core1_0.SharingModeConcurrent, mode)
	require.Equal(t, []int{0, 2}, families)
}
