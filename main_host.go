//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"lumen/app"
	"lumen/hal"
	"lumen/internal/buildinfo"
	"lumen/lumenos/render"
)

func main() {
	var (
		hcfg     hal.HeadlessConfig
		cfg      = app.DefaultConfig()
		pps      uint
		step     uint
		acc      uint
		dec      uint
		onDwell  uint
		offDwell uint
		logLevel string
		version  bool
	)
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 60, "Host frame rate in headless mode.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N frames in headless mode (0 = run forever).")
	flag.UintVar(&pps, "pps", render.DefaultPPS, "Output steps per second.")
	flag.UintVar(&step, "step", render.DefaultStepLength, "Maximum step length in 1/16 coordinate units.")
	flag.UintVar(&acc, "acc", 0, "Acceleration ramp factor (0..7).")
	flag.UintVar(&dec, "dec", 0, "Deceleration ramp factor (0..7).")
	flag.UintVar(&onDwell, "on-dwell", render.DefaultOnDwell, "Steps to hold before the beam turns on.")
	flag.UintVar(&offDwell, "off-dwell", render.DefaultOffDwell, "Steps to hold before the beam turns off.")
	flag.StringVar(&cfg.Scene, "scene", "", "Scene file to play (overrides -pattern).")
	flag.StringVar(&cfg.Pattern, "pattern", app.DefaultPattern, "Built-in pattern to play.")
	flag.Func("frame-ticks", "Kernel ticks (ms) between animation frames.", func(s string) error {
		var n uint32
		if _, err := fmt.Sscan(s, &n); err != nil || n == 0 {
			return errors.New("must be a positive integer")
		}
		cfg.FrameTicks = n
		return nil
	})
	flag.BoolVar(&hcfg.Host.AudioDAC, "audio-dac", false, "Mirror the beam to the sound card (X left, Y right).")
	flag.BoolVar(&hcfg.Host.LogLED, "log-led", false, "Log status LED transitions.")
	flag.StringVar(&cfg.Telemetry, "telemetry", "", "Serve websocket telemetry on this address (e.g. :8642).")
	flag.StringVar(&logLevel, "log-level", render.LogError.String(), "silent|error|info|verbose.")
	flag.BoolVar(&version, "version", false, "Print the version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.Banner())
		return
	}

	lvl, err := render.ParseLogLevel(logLevel)
	if err != nil {
		fatalf("log-level: %v", err)
	}
	cfg.Render = render.Config{
		PPS:        uint32(pps),
		StepLength: uint8(step),
		AccFactor:  uint8(acc),
		DecFactor:  uint8(dec),
		OnDwell:    uint8(onDwell),
		OffDwell:   uint8(offDwell),
		LogLevel:   lvl,
	}
	if pps > render.MaxPPS || step > 255 || onDwell > 255 || offDwell > 255 {
		fatalf("pps, step or dwell out of range")
	}
	if err := cfg.Render.Validate(); err != nil {
		fatalf("%v", err)
	}

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, cfg)
	}

	if hcfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, hcfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fatalf("%v", err)
		}
		return
	}

	if err := hal.RunWindow(newApp, hcfg.Host); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
