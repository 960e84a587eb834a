package registry

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scheerer/arcade-button-lights/internal/lights"
)

//go:embed tables/*.json
var tablesFS embed.FS

// Sources are the JSON documents a registry is loaded from. TrackballGames
// may be nil.
type Sources struct {
	Systems        io.Reader
	Games          io.Reader
	TrackballGames io.Reader
}

// Embedded builds the registry from the tables compiled into the binary.
func Embedded() (*Registry, error) {
	open := func(name string) io.Reader {
		f, err := tablesFS.Open("tables/" + name)
		if err != nil {
			// the embed pattern guarantees these exist
			panic(err)
		}
		return f
	}
	return Load(Sources{
		Systems:        open("systems.json"),
		Games:          open("games.json"),
		TrackballGames: open("trackball.json"),
	})
}

// LoadFiles builds the registry from JSON files. trackballPath may be empty.
func LoadFiles(systemsPath, gamesPath, trackballPath string) (*Registry, error) {
	var src Sources
	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	for _, f := range []struct {
		path string
		dst  *io.Reader
	}{
		{systemsPath, &src.Systems},
		{gamesPath, &src.Games},
		{trackballPath, &src.TrackballGames},
	} {
		if f.path == "" {
			continue
		}
		file, err := os.Open(f.path)
		if err != nil {
			return nil, &ConfigError{Source: f.path, Cause: err}
		}
		closers = append(closers, file)
		*f.dst = file
	}

	return Load(src)
}

func Load(src Sources) (*Registry, error) {
	if src.Systems == nil || src.Games == nil {
		return nil, &ConfigError{Source: "lookup tables", Cause: errors.New("both system and game tables are required")}
	}

	var tables Tables
	var err error
	if tables.Systems, err = decodeTable("system table", src.Systems); err != nil {
		return nil, err
	}
	if tables.Games, err = decodeTable("game table", src.Games); err != nil {
		return nil, err
	}
	if src.TrackballGames != nil {
		if tables.TrackballGames, err = decodeTrackballGames(src.TrackballGames); err != nil {
			return nil, err
		}
	}

	return New(tables)
}

func readValidated(source, schemaName string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ConfigError{Source: source, Cause: fmt.Errorf("read: %w", err)}
	}
	if err := validateDocument(schemaName, data); err != nil {
		return nil, &ConfigError{Source: source, Cause: err}
	}
	return data, nil
}

func decodeTable(source string, r io.Reader) (map[string]lights.CabinetProfile, error) {
	data, err := readValidated(source, lightsTableSchema, r)
	if err != nil {
		return nil, err
	}
	var table map[string]lights.CabinetProfile
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, &ConfigError{Source: source, Cause: err}
	}
	return table, nil
}

func decodeTrackballGames(r io.Reader) ([]string, error) {
	const source = "trackball games"
	data, err := readValidated(source, trackballGamesSchema, r)
	if err != nil {
		return nil, err
	}
	var games []string
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, &ConfigError{Source: source, Cause: err}
	}
	return games, nil
}
