//go:build !tinygo && !cgo

package hal

import "errors"

type audioDAC struct{}

func newAudioDAC() (*audioDAC, error) {
	return nil, errors.New("host audio: requires cgo (build/run with CGO_ENABLED=1)")
}

func (a *audioDAC) WriteXY(x, y uint16) error { return ErrNotImplemented }
func (a *audioDAC) Close() error              { return nil }
