package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

var errHelp = errors.New("help requested")

type Config struct {
	Width, Height    int
	PresentMode      *khr_surface.PresentMode
	EnableValidation bool
	Verbose          bool
}

func defaultConfig() Config {
	return Config{
		Width:            800,
		Height:           600,
		EnableValidation: true,
	}
}

var presentModeNames = map[string]khr_surface.PresentMode{
	"mailbox":   khr_surface.PresentModeMailbox,
	"immediate": khr_surface.PresentModeImmediate,
	"fifo":      khr_surface.PresentModeFIFO,
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "\nOptions")
	fmt.Fprintln(w, "\t--present-mode=<mailbox|immediate|fifo>")
	fmt.Fprintln(w, "\t\tTry this present mode first, falling back to mailbox, immediate, fifo")
	fmt.Fprintln(w, "\t--width=<pixels>, --height=<pixels>")
	fmt.Fprintln(w, "\t\tInitial window size (default 800x600)")
	fmt.Fprintln(w, "\t--no-validation")
	fmt.Fprintln(w, "\t\tDo not enable VK_LAYER_KHRONOS_validation")
	fmt.Fprintln(w, "\t--verbose")
	fmt.Fprintln(w, "\t\tLog swapchain creation and teardown")
}

func parseArgs(args []string) (Config, error) {
	config := defaultConfig()

	for _, arg := range args {
		name, value, hasValue := strings.Cut(arg, "=")

		switch {
		case arg == "--help" || arg == "-h":
			return config, errHelp
		case arg == "--no-validation":
			config.EnableValidation = false
		case arg == "--verbose":
			config.Verbose = true
		case name == "--present-mode" && hasValue:
			mode, ok := presentModeNames[strings.ToLower(value)]
			if !ok {
				return config, errors.Newf("unrecognized present mode: %s", value)
			}
			config.PresentMode = &mode
		case (name == "--width" || name == "--height") && hasValue:
			size, err := strconv.Atoi(value)
			if err != nil || size <= 0 {
				return config, errors.Newf("%s must be a positive number of pixels, got %q", name, value)
			}
			if name == "--width" {
				config.Width = size
			} else {
				config.Height = size
			}
		default:
			return config, errors.Newf("unrecognized option: %s", arg)
		}
	}

	return config, nil
}

func (c Config) presentModes() []khr_surface.PresentMode {
	modes := []khr_surface.PresentMode{khr_surface.PresentModeMailbox, khr_surface.PresentModeImmediate}
	if c.PresentMode == nil {
		return modes
	}

	preferred := []khr_surface.PresentMode{*c.PresentMode}
	for _, mode := range modes {
		if mode != *c.PresentMode {
			preferred = append(preferred, mode)
		}
	}
	return preferred
}
