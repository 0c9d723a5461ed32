//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package source

import (
	"context"
	"errors"
)

// Portal asks the desktop portal for a screenshot. It is not available on
// this platform.
type Portal struct {
	Interactive   bool
	IncludeCursor bool
}

// Run implements Source.
func (Portal) Run(context.Context, Deliver) error {
	return errors.New("portal screenshot is not supported on this platform")
}
