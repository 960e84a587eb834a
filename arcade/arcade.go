package arcade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	cabinet "github.com/scheerer/arcade-button-lights/internal/lights"
	"github.com/scheerer/arcade-button-lights/internal/logging"
	"github.com/scheerer/arcade-button-lights/internal/registry"
	"github.com/scheerer/arcade-button-lights/internal/util"
	"github.com/scheerer/arcade-button-lights/lights"
)

var logger = logging.New("arcade")

// Event is a RetroPie runcommand or EmulationStation hook event.
type Event string

const (
	GameStart        Event = "game-start"
	GameEnd          Event = "game-end"
	ScreensaverStart Event = "screensaver-start"
	ScreensaverStop  Event = "screensaver-stop"

	// Sleep and Wake are the names older hook scripts use for the screensaver.
	Sleep Event = "sleep"
	Wake  Event = "wake"
)

// Events lists every accepted event name.
var Events = []Event{GameStart, GameEnd, ScreensaverStart, ScreensaverStop, Sleep, Wake}

func ParseEvent(s string) (Event, error) {
	e := Event(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Events {
		if e == known {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown event %q (expected one of %s)", s, eventNames())
}

func eventNames() string {
	names := make([]string, len(Events))
	for i, e := range Events {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

// Mode is the display mode the controller switches to for the event.
func (e Event) Mode() lights.DisplayMode {
	switch e {
	case GameStart:
		return lights.GameRunning
	case ScreensaverStart, Sleep:
		return lights.Attract
	default:
		return lights.EmulationStation
	}
}

// Frame is one transmission to the controller. Payload is only set for
// GameRunning.
type Frame struct {
	Mode    lights.DisplayMode
	Payload []byte
}

func (f Frame) Bytes() []byte {
	return append([]byte{byte(f.Mode)}, f.Payload...)
}

func (f Frame) IsBlock() bool {
	return len(f.Payload) > 0
}

// FrameFor builds the transmission for an event. profile is only read for
// GameStart.
func FrameFor(event Event, profile cabinet.CabinetProfile) Frame {
	f := Frame{Mode: event.Mode()}
	if event == GameStart {
		f.Payload = profile.Encode()
	}
	return f
}

// Invocation is the argument list a hook script passes on.
type Invocation struct {
	ID          string
	Event       Event
	System      string
	Emulator    string
	RomPath     string
	CommandLine string
}

type Processor struct {
	registry   *registry.Registry
	controller lights.Controller
}

func NewProcessor(reg *registry.Registry, controller lights.Controller) *Processor {
	return &Processor{
		registry:   reg,
		controller: controller,
	}
}

// Handle resolves and sends the frame for one invocation. A failed write is
// returned as a *lights.TransportError and is not retried.
func (p *Processor) Handle(ctx context.Context, inv Invocation) error {
	log := logger.With(zap.String("invocation", inv.ID))
	log.With(
		zap.String("event", string(inv.Event)),
		zap.String("system", inv.System),
		zap.String("emulator", inv.Emulator),
		zap.String("romName", util.RomName(inv.RomPath)),
		zap.String("romPath", inv.RomPath),
		zap.String("commandLine", inv.CommandLine)).
		Info("Handling event")

	var profile cabinet.CabinetProfile
	if inv.Event == GameStart {
		profile = registry.Resolve(p.registry, inv.System, inv.RomPath)
		log.With(zap.Stringer("profile", profile)).Info("Resolved button lights")
	}

	frame := FrameFor(inv.Event, profile)

	var err error
	if frame.IsBlock() {
		err = p.controller.WriteBlock(ctx, byte(frame.Mode), frame.Payload)
	} else {
		err = p.controller.WriteByte(ctx, byte(frame.Mode))
	}
	if err != nil {
		var te *lights.TransportError
		if !errors.As(err, &te) {
			err = &lights.TransportError{Op: "write", Cause: err}
		}
		log.With(zap.Stringer("mode", frame.Mode), zap.Error(err)).Error("Failed to signal light controller")
		return err
	}

	log.With(zap.Stringer("mode", frame.Mode), zap.Int("bytes", len(frame.Bytes()))).Info("Signalled light controller")
	return nil
}
