//go:build tinygo

package app

func (s *system) startTelemetry() error { return nil }
