package lights

import (
	"context"
	"fmt"
)

// DisplayMode is the one byte mode code understood by the button light
// controller firmware.
type DisplayMode byte

const (
	Starting DisplayMode = iota
	Attract
	EmulationStation
	GameRunning
)

func (m DisplayMode) String() string {
	switch m {
	case Starting:
		return "Starting"
	case Attract:
		return "Attract"
	case EmulationStation:
		return "EmulationStation"
	case GameRunning:
		return "GameRunning"
	default:
		return fmt.Sprintf("DisplayMode(%d)", byte(m))
	}
}

// Controller writes to the button light controller. Each call is a single bus
// transaction and must give up when ctx is done.
type Controller interface {
	WriteByte(ctx context.Context, b byte) error
	WriteBlock(ctx context.Context, cmd byte, data []byte) error
	Close() error
}

// TransportError is returned when the controller could not be reached.
type TransportError struct {
	Op    string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("light controller %s: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
