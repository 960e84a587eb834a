package i2c

import (
	"context"
	"fmt"

	bus "github.com/d2r2/go-i2c"
	buslog "github.com/d2r2/go-logger"
	"go.uber.org/zap"

	"github.com/scheerer/arcade-button-lights/internal/logging"
	"github.com/scheerer/arcade-button-lights/lights"
)

var logger = logging.New("i2c")

// MaxBlockSize is the SMBus block write limit, command byte excluded.
const MaxBlockSize = 32

type Config struct {
	Bus     int
	Address uint8
}

type conn interface {
	WriteBytes(buf []byte) (int, error)
	Close() error
}

type Controller struct {
	config Config
	conn   conn
}

var _ lights.Controller = (*Controller)(nil)

func New(config Config) (*Controller, error) {
	// go-i2c logs every transfer at debug level
	if err := buslog.ChangePackageLogLevel("i2c", buslog.InfoLevel); err != nil {
		logger.With(zap.Error(err)).Debug("Could not lower go-i2c log level")
	}

	c, err := bus.NewI2C(config.Address, config.Bus)
	if err != nil {
		return nil, &lights.TransportError{Op: "open", Cause: err}
	}

	logger.With(zap.Int("bus", config.Bus), zap.String("address", fmt.Sprintf("0x%02x", config.Address))).
		Debug("Opened I2C light controller")

	return newController(config, c), nil
}

func newController(config Config, c conn) *Controller {
	return &Controller{config: config, conn: c}
}

func (c *Controller) WriteByte(ctx context.Context, b byte) error {
	return c.write(ctx, "write byte", []byte{b})
}

// WriteBlock sends cmd followed by data in one transaction, the same framing
// as an SMBus block write.
func (c *Controller) WriteBlock(ctx context.Context, cmd byte, data []byte) error {
	if len(data) > MaxBlockSize {
		return &lights.TransportError{
			Op:    "write block",
			Cause: fmt.Errorf("block of %d bytes exceeds %d byte limit", len(data), MaxBlockSize),
		}
	}
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, cmd)
	buf = append(buf, data...)
	return c.write(ctx, "write block", buf)
}

func (c *Controller) write(ctx context.Context, op string, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return &lights.TransportError{Op: op, Cause: err}
	}

	done := make(chan error, 1)
	go func() {
		n, err := c.conn.WriteBytes(buf)
		if err == nil && n != len(buf) {
			err = fmt.Errorf("short write: %d of %d bytes", n, len(buf))
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return &lights.TransportError{Op: op, Cause: err}
		}
		logger.With(zap.Binary("frame", buf)).Debug("Wrote to light controller")
		return nil
	case <-ctx.Done():
		return &lights.TransportError{Op: op, Cause: ctx.Err()}
	}
}

func (c *Controller) Close() error {
	return c.conn.Close()
}
