package render

import (
	"errors"
	"fmt"
	"strings"
)

// LogLevel selects how much the pipeline reports.
type LogLevel uint8

const (
	LogSilent LogLevel = iota
	LogError
	LogInfo
	LogVerbose
)

func (l LogLevel) String() string {
	switch l {
	case LogSilent:
		return "silent"
	case LogError:
		return "error"
	case LogInfo:
		return "info"
	case LogVerbose:
		return "verbose"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// ParseLogLevel accepts the level names and their numeric forms 0..3.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent", "0":
		return LogSilent, nil
	case "error", "1":
		return LogError, nil
	case "info", "2":
		return LogInfo, nil
	case "verbose", "3":
		return LogVerbose, nil
	}
	return LogSilent, fmt.Errorf("render: unknown log level %q", s)
}

const (
	DefaultPPS        = 20000
	DefaultStepLength = 8
	DefaultOnDwell    = 4
	DefaultOffDwell   = 4

	MaxPPS = 65535
)

var ErrConfig = errors.New("render: invalid config")

// Config holds the runtime tunables. The machine snapshots it at the start of
// every transition, so changes apply from the next segment on.
type Config struct {
	// PPS is the output tick rate in points per second.
	PPS uint32
	// StepLength is the longest interpolated step, in 8-bit coordinate units.
	StepLength uint8
	AccFactor  uint8
	DecFactor  uint8
	// OnDwell and OffDwell are the extra steps held at a point when the laser
	// turns on or off there.
	OnDwell  uint8
	OffDwell uint8

	LogLevel LogLevel
}

func DefaultConfig() Config {
	return Config{
		PPS:        DefaultPPS,
		StepLength: DefaultStepLength,
		OnDwell:    DefaultOnDwell,
		OffDwell:   DefaultOffDwell,
		LogLevel:   LogError,
	}
}

// Normalize clamps every field into its valid range.
func (c Config) Normalize() Config {
	if c.PPS < 1 {
		c.PPS = 1
	}
	if c.PPS > MaxPPS {
		c.PPS = MaxPPS
	}
	if c.StepLength < MinStepLength {
		c.StepLength = MinStepLength
	}
	if c.AccFactor > MaxRamp {
		c.AccFactor = MaxRamp
	}
	if c.DecFactor > MaxRamp {
		c.DecFactor = MaxRamp
	}
	if c.LogLevel > LogVerbose {
		c.LogLevel = LogVerbose
	}
	return c
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.PPS < 1 || c.PPS > MaxPPS:
		return fmt.Errorf("%w: pps %d out of range 1..%d", ErrConfig, c.PPS, MaxPPS)
	case c.StepLength < MinStepLength:
		return fmt.Errorf("%w: step length %d below %d", ErrConfig, c.StepLength, MinStepLength)
	case c.AccFactor > MaxRamp:
		return fmt.Errorf("%w: acc factor %d above %d", ErrConfig, c.AccFactor, MaxRamp)
	case c.DecFactor > MaxRamp:
		return fmt.Errorf("%w: dec factor %d above %d", ErrConfig, c.DecFactor, MaxRamp)
	case c.LogLevel > LogVerbose:
		return fmt.Errorf("%w: log level %d", ErrConfig, c.LogLevel)
	}
	return nil
}
