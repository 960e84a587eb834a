package lights

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile_Player2Derivation(t *testing.T) {
	player1 := LightState{B: true, Select: true, Hotkey: true, Command: true, L2: true}
	explicit := LightState{X: true}

	tests := []struct {
		name   string
		config ProfileConfig
		want   LightState
	}{
		{
			name:   "single player leaves player 2 dark",
			config: ProfileConfig{Player1: player1},
			want:   LightState{},
		},
		{
			name:   "single player ignores explicit player 2",
			config: ProfileConfig{Player1: player1, Player2: &explicit},
			want:   LightState{},
		},
		{
			name:   "two controllers copy action buttons but not hotkey or command",
			config: ProfileConfig{Player1: player1, IsTwoPlayerGame: true, IsTwoControllerGame: true},
			want:   LightState{B: true, Select: true, L2: true},
		},
		{
			name:   "shared controller copies only select and start",
			config: ProfileConfig{Player1: LightState{B: true, Select: true, Start: true}, IsTwoPlayerGame: true},
			want:   LightState{Select: true, Start: true},
		},
		{
			name:   "explicit player 2 wins over derivation",
			config: ProfileConfig{Player1: player1, Player2: &explicit, IsTwoPlayerGame: true, IsTwoControllerGame: true},
			want:   explicit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProfile(tt.config)
			assert.Equal(t, tt.want, p.Player2)
			assert.Equal(t, tt.config.Player1, p.Player1)
		})
	}
}

func TestNewProfile_HotkeyExcludedFromDerivedPlayer2(t *testing.T) {
	p := NewProfile(ProfileConfig{
		Player1:             LightState{B: true, Select: true, Hotkey: true},
		IsTwoPlayerGame:     true,
		IsTwoControllerGame: true,
	})

	assert.Equal(t, LightState{B: true, Select: true}, p.Player2)
}

func TestNewProfile_DoesNotAliasInputs(t *testing.T) {
	player2 := LightState{A: true}
	config := ProfileConfig{Player1: LightState{B: true}, Player2: &player2, IsTwoPlayerGame: true}
	first := NewProfile(config)
	second := NewProfile(config)

	player2.Start = true
	first.Player2.Y = true
	first.Player1.X = true

	assert.Equal(t, LightState{A: true}, second.Player2)
	assert.Equal(t, LightState{B: true}, second.Player1)
	assert.Equal(t, LightState{B: true}, config.Player1)
}

func TestCabinetProfile_Encode(t *testing.T) {
	t.Run("always the payload size", func(t *testing.T) {
		profiles := []CabinetProfile{
			{},
			NewProfile(ProfileConfig{Player1: LightState{B: true}, IsTwoPlayerGame: true, IsTwoControllerGame: true, UsesTrackball: true}),
			{Player1: LightState{}.With(ButtonHotkey), UsesTrackball: true},
		}
		for _, p := range profiles {
			assert.Len(t, p.Encode(), ProfileSize)
		}
		assert.Equal(t, 26, ProfileSize)
	})

	t.Run("layout", func(t *testing.T) {
		p := NewProfile(ProfileConfig{
			Player1:             LightState{B: true, Start: true, Hotkey: true},
			IsTwoPlayerGame:     true,
			IsTwoControllerGame: true,
		})
		p.SetUsesTrackball(true)

		want := []byte{
			1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1,
			1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0,
			1,
			1,
		}
		assert.Equal(t, want, p.Encode())
	})
}

func TestCabinetProfile_UnmarshalJSON(t *testing.T) {
	t.Run("derives player 2 when absent", func(t *testing.T) {
		var p CabinetProfile
		doc := `{
			"player1Lights": {"B": true, "A": true, "Hotkey": true},
			"isTwoPlayerGame": true,
			"isTwoControllerGame": true,
			"usesTrackball": false
		}`
		require.NoError(t, json.Unmarshal([]byte(doc), &p))
		assert.Equal(t, LightState{B: true, A: true}, p.Player2)
		assert.True(t, p.IsTwoPlayerGame)
	})

	t.Run("null player 2 is not supplied", func(t *testing.T) {
		var p CabinetProfile
		doc := `{"player1Lights": {"Start": true}, "player2Lights": null, "isTwoPlayerGame": true, "isTwoControllerGame": false, "usesTrackball": true}`
		require.NoError(t, json.Unmarshal([]byte(doc), &p))
		assert.Equal(t, LightState{Start: true}, p.Player2)
		assert.True(t, p.UsesTrackball)
	})

	t.Run("bad light state", func(t *testing.T) {
		var p CabinetProfile
		err := json.Unmarshal([]byte(`{"player1Lights": {"Z": true}}`), &p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cabinet profile")
	})

	t.Run("marshal keeps the explicit player 2", func(t *testing.T) {
		in := NewProfile(ProfileConfig{Player1: LightState{Select: true}, IsTwoPlayerGame: true})
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var out CabinetProfile
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})
}

func TestCabinetProfile_String(t *testing.T) {
	p := CabinetProfile{Player1: LightState{B: true}, UsesTrackball: true}
	assert.Equal(t, "player1=[B] player2=[none] twoPlayer=false twoController=false trackball=true", p.String())
}
