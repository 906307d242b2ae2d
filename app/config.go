package app

import (
	"fmt"

	"lumen/lumenos/render"
	"lumen/lumenos/scene"
)

const (
	DefaultPattern    = "square"
	DefaultFrameTicks = 40
)

// Config carries the runtime options. TinyGo builds use DefaultConfig.
type Config struct {
	Render render.Config

	// Scene is a scene file path. It takes precedence over Pattern.
	Scene   string
	Pattern string
	// FrameTicks is the kernel tick count between animation frames.
	FrameTicks uint32

	// Telemetry is the websocket listen address; empty disables it. Host only.
	Telemetry string
}

func DefaultConfig() Config {
	return Config{
		Render:     render.DefaultConfig(),
		Pattern:    DefaultPattern,
		FrameTicks: DefaultFrameTicks,
	}
}

// initialScene resolves the scene the system starts with.
func (c Config) initialScene() (scene.Scene, error) {
	if c.Scene != "" {
		return scene.ParseFile(c.Scene)
	}
	name := c.Pattern
	if name == "" {
		name = DefaultPattern
	}
	s, ok := scene.Pattern(name)
	if !ok {
		return scene.Scene{}, fmt.Errorf("unknown pattern %q (have %v)", name, scene.Patterns())
	}
	return s, nil
}
