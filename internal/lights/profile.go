package lights

import (
	"encoding/json"
	"fmt"
)

// ProfileSize is the length of an encoded CabinetProfile: twelve lights per
// player, then the trackball and two player flags.
const ProfileSize = 2*ButtonCount + 2

// CabinetProfile is the lighting for both control panels plus the flags the
// controller firmware needs to pick its effects.
type CabinetProfile struct {
	Player1             LightState
	Player2             LightState
	IsTwoPlayerGame     bool
	IsTwoControllerGame bool
	UsesTrackball       bool
}

// ProfileConfig describes a profile at its construction site. A nil Player2
// means player 2 is derived from Player1.
type ProfileConfig struct {
	Player1             LightState
	Player2             *LightState
	IsTwoPlayerGame     bool
	IsTwoControllerGame bool
	UsesTrackball       bool
}

func NewProfile(config ProfileConfig) CabinetProfile {
	p := CabinetProfile{
		Player1:             config.Player1,
		IsTwoPlayerGame:     config.IsTwoPlayerGame,
		IsTwoControllerGame: config.IsTwoControllerGame,
		UsesTrackball:       config.UsesTrackball,
	}

	switch {
	case !config.IsTwoPlayerGame:
		// player 2 stays dark for single player games
	case config.Player2 != nil:
		p.Player2 = *config.Player2
	case config.IsTwoControllerGame:
		p.Player2 = derivePlayer2(config.Player1, playerButtons)
	default:
		// alternating turns on one controller only share the coin/start buttons
		p.Player2 = derivePlayer2(config.Player1, sharedButtons)
	}

	return p
}

var (
	// Hotkey and Command are cabinet wide and never copied to player 2.
	playerButtons = []Button{ButtonB, ButtonA, ButtonL1, ButtonR1, ButtonY, ButtonX, ButtonL2, ButtonR2, ButtonSelect, ButtonStart}
	sharedButtons = []Button{ButtonSelect, ButtonStart}
)

func derivePlayer2(player1 LightState, buttons []Button) LightState {
	var p2 LightState
	for _, b := range buttons {
		if player1.Lit(b) {
			p2 = p2.With(b)
		}
	}
	return p2
}

func (p *CabinetProfile) SetUsesTrackball(usesTrackball bool) {
	p.UsesTrackball = usesTrackball
}

// Encode returns the ProfileSize byte payload sent with GameRunning.
func (p CabinetProfile) Encode() []byte {
	out := make([]byte, 0, ProfileSize)
	p1 := p.Player1.Encode()
	p2 := p.Player2.Encode()
	out = append(out, p1[:]...)
	out = append(out, p2[:]...)
	out = append(out, boolByte(p.UsesTrackball), boolByte(p.IsTwoPlayerGame))
	return out
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (p CabinetProfile) String() string {
	return fmt.Sprintf("player1=%s player2=%s twoPlayer=%t twoController=%t trackball=%t",
		p.Player1, p.Player2, p.IsTwoPlayerGame, p.IsTwoControllerGame, p.UsesTrackball)
}

type profileJSON struct {
	Player1Lights       LightState  `json:"player1Lights"`
	Player2Lights       *LightState `json:"player2Lights"`
	IsTwoPlayerGame     bool        `json:"isTwoPlayerGame"`
	IsTwoControllerGame bool        `json:"isTwoControllerGame"`
	UsesTrackball       bool        `json:"usesTrackball"`
}

// UnmarshalJSON decodes the table entry form and runs the player 2 derivation.
func (p *CabinetProfile) UnmarshalJSON(data []byte) error {
	var v profileJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("cabinet profile: %w", err)
	}
	*p = NewProfile(ProfileConfig{
		Player1:             v.Player1Lights,
		Player2:             v.Player2Lights,
		IsTwoPlayerGame:     v.IsTwoPlayerGame,
		IsTwoControllerGame: v.IsTwoControllerGame,
		UsesTrackball:       v.UsesTrackball,
	})
	return nil
}

func (p CabinetProfile) MarshalJSON() ([]byte, error) {
	p2 := p.Player2
	return json.Marshal(profileJSON{
		Player1Lights:       p.Player1,
		Player2Lights:       &p2,
		IsTwoPlayerGame:     p.IsTwoPlayerGame,
		IsTwoControllerGame: p.IsTwoControllerGame,
		UsesTrackball:       p.UsesTrackball,
	})
}
