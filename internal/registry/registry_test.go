package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheerer/arcade-button-lights/internal/lights"
)

var (
	defaultProfile = lights.NewProfile(lights.ProfileConfig{
		Player1:             lights.LightState{B: true, A: true, Start: true, Select: true, Hotkey: true},
		IsTwoPlayerGame:     true,
		IsTwoControllerGame: true,
	})
	nesProfile = lights.NewProfile(lights.ProfileConfig{
		Player1:             lights.LightState{B: true, A: true, Select: true, Start: true, Hotkey: true},
		IsTwoPlayerGame:     true,
		IsTwoControllerGame: true,
	})
	arcadeProfile = lights.NewProfile(lights.ProfileConfig{
		Player1:             lights.LightState{B: true, A: true, Y: true, X: true, L1: true, R1: true, Select: true, Start: true},
		IsTwoPlayerGame:     true,
		IsTwoControllerGame: true,
	})
	centipedeProfile = lights.NewProfile(lights.ProfileConfig{
		Player1:         lights.LightState{A: true, Select: true, Start: true},
		IsTwoPlayerGame: true,
	})
	gbProfile = lights.NewProfile(lights.ProfileConfig{
		Player1: lights.LightState{B: true, A: true, Start: true, Select: true},
	})
)

func testTables() Tables {
	return Tables{
		Systems: map[string]lights.CabinetProfile{
			"default": defaultProfile,
			"NES":     nesProfile,
			"arcade":  arcadeProfile,
			"gb":      gbProfile,
		},
		Games: map[string]lights.CabinetProfile{
			"Centiped.zip": centipedeProfile,
		},
		TrackballGames: []string{"centiped.zip", "/roms/arcade/ccastles.zip"},
	}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New(testTables())
	require.NoError(t, err)
	return r
}

func TestNew_NormalisesKeys(t *testing.T) {
	r := testRegistry(t)

	p, ok := r.LookupBySystem("nes")
	require.True(t, ok)
	assert.Equal(t, nesProfile, p)

	p, ok = r.LookupBySystem("  Nes ")
	require.True(t, ok)
	assert.Equal(t, nesProfile, p)

	_, ok = r.LookupByGame("CENTIPED.ZIP")
	assert.True(t, ok)

	_, ok = r.LookupByGame("/home/pi/RetroPie/roms/arcade/centiped.zip")
	assert.True(t, ok)

	_, ok = r.LookupBySystem("snes")
	assert.False(t, ok)

	assert.Equal(t, 4, r.SystemCount())
	assert.Equal(t, 1, r.GameCount())
}

func TestNew_FoldsTrackballIntoGameTable(t *testing.T) {
	r := testRegistry(t)

	p, ok := r.LookupByGame("centiped.zip")
	require.True(t, ok)
	assert.True(t, p.UsesTrackball)
	assert.True(t, r.IsTrackballGame("Centiped.zip"))
	assert.True(t, r.IsTrackballGame("ccastles.zip"))
	assert.False(t, r.IsTrackballGame("galaga.zip"))

	// the caller's table is untouched
	assert.False(t, centipedeProfile.UsesTrackball)
}

func TestNew_MissingDefault(t *testing.T) {
	tables := testTables()
	delete(tables.Systems, "default")

	r, err := New(tables)

	assert.Nil(t, r)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, ErrMissingDefault)
}

func TestNew_CollectsAllProblems(t *testing.T) {
	tables := Tables{
		Systems: map[string]lights.CabinetProfile{
			"nes": nesProfile,
			"NES": nesProfile,
			" ":   gbProfile,
		},
		TrackballGames: []string{""},
	}

	_, err := New(tables)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `duplicates key "nes"`)
	assert.Contains(t, msg, "system table: empty key")
	assert.Contains(t, msg, "trackball games: empty rom name")
	assert.ErrorIs(t, err, ErrMissingDefault)
}

func TestRegistry_LookupsReturnCopies(t *testing.T) {
	r := testRegistry(t)

	p, _ := r.LookupBySystem("gb")
	p.Player1.X = true
	p.SetUsesTrackball(true)

	again, _ := r.LookupBySystem("gb")
	assert.Equal(t, gbProfile, again)

	d := r.DefaultProfile()
	d.Player2 = lights.LightState{}
	assert.Equal(t, defaultProfile, r.DefaultProfile())
}
