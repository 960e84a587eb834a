// Package dryrun provides a light controller that only logs what it would
// send, for running the event hooks on a machine without an I2C bus.
package dryrun

import (
	"context"

	"go.uber.org/zap"

	"github.com/scheerer/arcade-button-lights/internal/logging"
	"github.com/scheerer/arcade-button-lights/lights"
)

var logger = logging.New("dryrun")

type Controller struct {
	Frames [][]byte
}

var _ lights.Controller = (*Controller)(nil)

func New() *Controller {
	return &Controller{}
}

func (c *Controller) WriteByte(ctx context.Context, b byte) error {
	return c.record(ctx, []byte{b})
}

func (c *Controller) WriteBlock(ctx context.Context, cmd byte, data []byte) error {
	frame := append([]byte{cmd}, data...)
	return c.record(ctx, frame)
}

func (c *Controller) record(ctx context.Context, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return &lights.TransportError{Op: "dry run", Cause: err}
	}
	c.Frames = append(c.Frames, frame)
	logger.With(zap.Stringer("mode", lights.DisplayMode(frame[0])), zap.Binary("frame", frame)).
		Info("Dry run: skipping bus write")
	return nil
}

func (c *Controller) Close() error {
	return nil
}
