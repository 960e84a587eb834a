package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/scheerer/arcade-button-lights/arcade"
	"github.com/scheerer/arcade-button-lights/internal/lights/dryrun"
	"github.com/scheerer/arcade-button-lights/internal/lights/i2c"
	"github.com/scheerer/arcade-button-lights/internal/logging"
	"github.com/scheerer/arcade-button-lights/internal/registry"
	"github.com/scheerer/arcade-button-lights/lights"
)

var logger = logging.New("main")

type LightsConfig struct {
	I2CBus             int           `env:"I2C_BUS" envDefault:"1"`
	I2CAddress         string        `env:"I2C_ADDRESS" envDefault:"0x07"`
	WriteTimeout       time.Duration `env:"WRITE_TIMEOUT" envDefault:"2s"`
	SystemLightsFile   string        `env:"SYSTEM_LIGHTS_FILE"`
	GameLightsFile     string        `env:"GAME_LIGHTS_FILE"`
	TrackballGamesFile string        `env:"TRACKBALL_GAMES_FILE"`
	LogFile            string        `env:"LOG_FILE" envDefault:"button-lights.log"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	DryRun             bool          `env:"DRY_RUN" envDefault:"false"`
}

// Exit codes.
const (
	exitOK        = 0
	exitUsage     = 1
	exitConfig    = 2
	exitTransport = 3
)

type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "button-lights <event> <system> <emulator> <rompath> <commandline>",
		Short: "Set the arcade cabinet button lights for a RetroPie event",
		Long: `button-lights is called from the RetroPie runcommand-onstart/onend scripts and
the EmulationStation screensaver hooks. It picks the lighting profile for the
launched game (game table, then system table, then default) and sends it to the
button light controller on the I2C bus.

Events: game-start, game-end, screensaver-start, screensaver-stop
        (sleep and wake are accepted for older hook scripts)

Configuration is read from the environment:
  I2C_BUS, I2C_ADDRESS, WRITE_TIMEOUT, SYSTEM_LIGHTS_FILE, GAME_LIGHTS_FILE,
  TRACKBALL_GAMES_FILE, LOG_FILE, LOG_LEVEL, DRY_RUN

Exit codes: 0 ok, 1 invalid arguments, 2 configuration error, 3 controller error.`,
		Args:          validateArgs,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	return cmd
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(5)(cmd, args); err != nil {
		return usageError{err}
	}
	if _, err := arcade.ParseEvent(args[0]); err != nil {
		return usageError{err}
	}
	return nil
}

func main() {
	cmd := newRootCmd()
	err := cmd.Execute()
	code := exitCode(err)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code == exitUsage {
			fmt.Fprint(os.Stderr, "\n"+cmd.UsageString())
		}
	}
	_ = logger.Sync()
	os.Exit(code)
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var configErr *registry.ConfigError
	var transportErr *lights.TransportError
	switch {
	case errors.As(err, &configErr):
		return exitConfig
	case errors.As(err, &transportErr):
		return exitTransport
	default:
		return exitUsage
	}
}

func run(cmd *cobra.Command, args []string) error {
	config := LightsConfig{}
	if err := env.Parse(&config); err != nil {
		return &registry.ConfigError{Source: "environment", Cause: err}
	}

	closeLog, err := setupLogging(config)
	if err != nil {
		return err
	}
	defer closeLog()

	event, _ := arcade.ParseEvent(args[0])
	inv := arcade.Invocation{
		ID:          uuid.NewString(),
		Event:       event,
		System:      args[1],
		Emulator:    args[2],
		RomPath:     args[3],
		CommandLine: args[4],
	}

	if err := handle(cmd.Context(), config, inv); err != nil {
		logger.With(zap.String("invocation", inv.ID), zap.Error(err)).Error("Button lights not updated")
		return err
	}
	return nil
}

func setupLogging(config LightsConfig) (func(), error) {
	level, err := zapcore.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, &registry.ConfigError{Source: "LOG_LEVEL", Cause: err}
	}
	logging.GetLeveler().SetAllLevels(level)

	paths := []string{"stdout"}
	if config.LogFile != "" {
		paths = []string{config.LogFile}
	}
	closeLog, err := logging.SetOutput(paths...)
	if err != nil {
		return nil, &registry.ConfigError{Source: "LOG_FILE", Cause: err}
	}
	return closeLog, nil
}

func handle(ctx context.Context, config LightsConfig, inv arcade.Invocation) error {
	reg, err := loadRegistry(config)
	if err != nil {
		return err
	}
	logger.With(
		zap.Int("systems", reg.SystemCount()),
		zap.Int("games", reg.GameCount())).
		Debug("Loaded button light tables")

	controller, err := openController(config)
	if err != nil {
		return err
	}
	defer func() {
		if err := controller.Close(); err != nil {
			logger.With(zap.Error(err)).Warn("Failed to close light controller")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, config.WriteTimeout)
	defer cancel()

	return arcade.NewProcessor(reg, controller).Handle(ctx, inv)
}

func loadRegistry(config LightsConfig) (*registry.Registry, error) {
	switch {
	case config.SystemLightsFile == "" && config.GameLightsFile == "":
		if config.TrackballGamesFile != "" {
			return nil, &registry.ConfigError{
				Source: "TRACKBALL_GAMES_FILE",
				Cause:  errors.New("only used together with SYSTEM_LIGHTS_FILE and GAME_LIGHTS_FILE"),
			}
		}
		return registry.Embedded()
	case config.SystemLightsFile == "" || config.GameLightsFile == "":
		return nil, &registry.ConfigError{
			Source: "environment",
			Cause:  errors.New("SYSTEM_LIGHTS_FILE and GAME_LIGHTS_FILE must be set together"),
		}
	default:
		return registry.LoadFiles(config.SystemLightsFile, config.GameLightsFile, config.TrackballGamesFile)
	}
}

func openController(config LightsConfig) (lights.Controller, error) {
	if config.DryRun {
		return dryrun.New(), nil
	}

	address, err := strconv.ParseUint(config.I2CAddress, 0, 8)
	if err != nil || address < 0x03 || address > 0x77 {
		return nil, &registry.ConfigError{
			Source: "I2C_ADDRESS",
			Cause:  fmt.Errorf("%q is not a 7-bit device address", config.I2CAddress),
		}
	}

	c, err := i2c.New(i2c.Config{Bus: config.I2CBus, Address: uint8(address)})
	if err != nil {
		return nil, err
	}
	return c, nil
}
