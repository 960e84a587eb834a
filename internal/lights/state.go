package lights

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Button identifies one illuminated button. The values follow the order the
// controller firmware expects them on the wire.
type Button int

const (
	ButtonB Button = iota
	ButtonA
	ButtonY
	ButtonX
	ButtonL2
	ButtonR2
	ButtonL1
	ButtonR1
	ButtonSelect
	ButtonStart
	ButtonCommand
	ButtonHotkey

	ButtonCount = int(ButtonHotkey) + 1
)

var buttonNames = [ButtonCount]string{
	ButtonB:       "B",
	ButtonA:       "A",
	ButtonY:       "Y",
	ButtonX:       "X",
	ButtonL2:      "L2",
	ButtonR2:      "R2",
	ButtonL1:      "L1",
	ButtonR1:      "R1",
	ButtonSelect:  "Select",
	ButtonStart:   "Start",
	ButtonCommand: "Command",
	ButtonHotkey:  "Hotkey",
}

func (b Button) String() string {
	if b < 0 || int(b) >= ButtonCount {
		return fmt.Sprintf("Button(%d)", int(b))
	}
	return buttonNames[b]
}

// LightState is the on/off state of one player's buttons. The zero value has
// every light off. It is a plain value: assigning it makes a copy.
type LightState struct {
	B       bool `json:"B"`
	A       bool `json:"A"`
	Y       bool `json:"Y"`
	X       bool `json:"X"`
	L1      bool `json:"L1"`
	R1      bool `json:"R1"`
	L2      bool `json:"L2"`
	R2      bool `json:"R2"`
	Hotkey  bool `json:"Hotkey"`
	Select  bool `json:"Select"`
	Start   bool `json:"Start"`
	Command bool `json:"Command"`
}

func (s *LightState) flag(b Button) *bool {
	switch b {
	case ButtonB:
		return &s.B
	case ButtonA:
		return &s.A
	case ButtonY:
		return &s.Y
	case ButtonX:
		return &s.X
	case ButtonL2:
		return &s.L2
	case ButtonR2:
		return &s.R2
	case ButtonL1:
		return &s.L1
	case ButtonR1:
		return &s.R1
	case ButtonSelect:
		return &s.Select
	case ButtonStart:
		return &s.Start
	case ButtonCommand:
		return &s.Command
	case ButtonHotkey:
		return &s.Hotkey
	}
	return nil
}

// Lit reports whether the button's light is on.
func (s LightState) Lit(b Button) bool {
	if f := s.flag(b); f != nil {
		return *f
	}
	return false
}

// With returns a copy of s with the given buttons lit.
func (s LightState) With(buttons ...Button) LightState {
	for _, b := range buttons {
		if f := s.flag(b); f != nil {
			*f = true
		}
	}
	return s
}

// Encode returns one byte per button, 1 for on, in controller order.
func (s LightState) Encode() [ButtonCount]byte {
	var out [ButtonCount]byte
	for i := 0; i < ButtonCount; i++ {
		if s.Lit(Button(i)) {
			out[i] = 1
		}
	}
	return out
}

func (s LightState) String() string {
	lit := make([]string, 0, ButtonCount)
	for i := 0; i < ButtonCount; i++ {
		if s.Lit(Button(i)) {
			lit = append(lit, Button(i).String())
		}
	}
	if len(lit) == 0 {
		return "[none]"
	}
	return "[" + strings.Join(lit, " ") + "]"
}

func (s *LightState) UnmarshalJSON(data []byte) error {
	type plain LightState
	var v plain
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("light state: %w", err)
	}
	*s = LightState(v)
	return nil
}
