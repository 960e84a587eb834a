// Package registry holds the lookup tables that map systems and roms to
// cabinet lighting profiles, and resolves which profile applies to a launch.
package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/multierr"

	"github.com/scheerer/arcade-button-lights/internal/lights"
	"github.com/scheerer/arcade-button-lights/internal/util"
)

// DefaultKey is the system table entry used when nothing else matches.
const DefaultKey = "default"

var ErrMissingDefault = errors.New(`system table has no "default" entry`)

// ConfigError means the lookup tables could not be used. The process must not
// signal the controller when one is returned.
type ConfigError struct {
	Source string
	Cause  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error in %s: %v", e.Source, e.Cause)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Tables is the raw content of a registry before key normalisation.
type Tables struct {
	Systems        map[string]lights.CabinetProfile
	Games          map[string]lights.CabinetProfile
	TrackballGames []string
}

// Registry is immutable once built. Lookups return copies.
type Registry struct {
	bySystem       map[string]lights.CabinetProfile
	byGame         map[string]lights.CabinetProfile
	trackballGames map[string]struct{}
}

func New(tables Tables) (*Registry, error) {
	r := &Registry{
		bySystem:       make(map[string]lights.CabinetProfile, len(tables.Systems)),
		byGame:         make(map[string]lights.CabinetProfile, len(tables.Games)),
		trackballGames: make(map[string]struct{}, len(tables.TrackballGames)),
	}

	var errs error
	for _, name := range slices.Sorted(maps.Keys(tables.Systems)) {
		errs = multierr.Append(errs, insert(r.bySystem, "system", util.NormalizeKey(name), name, tables.Systems[name]))
	}
	for _, name := range slices.Sorted(maps.Keys(tables.Games)) {
		errs = multierr.Append(errs, insert(r.byGame, "game", util.RomKey(name), name, tables.Games[name]))
	}
	for _, name := range tables.TrackballGames {
		key := util.RomKey(name)
		if key == "" {
			errs = multierr.Append(errs, fmt.Errorf("trackball games: empty rom name %q", name))
			continue
		}
		r.trackballGames[key] = struct{}{}
	}
	if _, ok := r.bySystem[DefaultKey]; !ok {
		errs = multierr.Append(errs, ErrMissingDefault)
	}
	if errs != nil {
		return nil, &ConfigError{Source: "lookup tables", Cause: errs}
	}

	for key := range r.trackballGames {
		if p, ok := r.byGame[key]; ok {
			p.SetUsesTrackball(true)
			r.byGame[key] = p
		}
	}

	return r, nil
}

func insert(table map[string]lights.CabinetProfile, kind, key, name string, p lights.CabinetProfile) error {
	if key == "" {
		return fmt.Errorf("%s table: empty key %q", kind, name)
	}
	if _, dup := table[key]; dup {
		return fmt.Errorf("%s table: %q duplicates key %q", kind, name, key)
	}
	table[key] = p
	return nil
}

// LookupBySystem finds the profile for a system name, ignoring case.
func (r *Registry) LookupBySystem(name string) (lights.CabinetProfile, bool) {
	p, ok := r.bySystem[util.NormalizeKey(name)]
	return p, ok
}

// LookupByGame finds the profile for a rom. Only the file name of romFileName
// is used, ignoring case.
func (r *Registry) LookupByGame(romFileName string) (lights.CabinetProfile, bool) {
	p, ok := r.byGame[util.RomKey(romFileName)]
	return p, ok
}

func (r *Registry) IsTrackballGame(romFileName string) bool {
	_, ok := r.trackballGames[util.RomKey(romFileName)]
	return ok
}

func (r *Registry) DefaultProfile() lights.CabinetProfile {
	return r.bySystem[DefaultKey]
}

func (r *Registry) SystemCount() int {
	return len(r.bySystem)
}

func (r *Registry) GameCount() int {
	return len(r.byGame)
}
