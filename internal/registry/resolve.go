package registry

import (
	"github.com/scheerer/arcade-button-lights/internal/lights"
	"github.com/scheerer/arcade-button-lights/internal/util"
)

// Resolve picks the profile for a launch. A game entry for the rom's file name
// wins over the system entry, which wins over the default. Roms in the
// trackball list always come back with UsesTrackball set.
func Resolve(r *Registry, systemName, romPath string) lights.CabinetProfile {
	romName := util.RomName(romPath)

	profile, found := r.LookupByGame(romName)
	if !found {
		profile, found = r.LookupBySystem(systemName)
	}
	if !found {
		profile = r.DefaultProfile()
	}

	if r.IsTrackballGame(romName) {
		profile.SetUsesTrackball(true)
	}
	return profile
}
