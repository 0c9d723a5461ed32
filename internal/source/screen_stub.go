//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package source

import (
	"context"
	"errors"
	"time"
)

// Screen grabs the X11 root window. It is not available on this platform.
type Screen struct {
	Display  string
	Interval time.Duration
}

// Run implements Source.
func (Screen) Run(context.Context, Deliver) error {
	return errors.New("screen grab is not supported on this platform")
}
