package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	flag "github.com/spf13/pflag"

	"github.com/iburimskiy/pulse-visualization/internal/config"
	"github.com/iburimskiy/pulse-visualization/internal/game"
	"github.com/iburimskiy/pulse-visualization/internal/ingest"
	"github.com/iburimskiy/pulse-visualization/internal/log"
)

func main() {
	var (
		addr       = flag.String("addr", config.Endpoint, "analyzer websocket endpoint")
		legacy     = flag.Bool("legacy", false, "accept bare feature objects instead of typed envelopes")
		configPath = flag.String("config", "", "settings file (TOML); reloaded when it changes")
		logLevel   = flag.String("log-level", "info", "debug, info, warn, error or none")
		gradient   = flag.Bool("gradient", true, "stroke particles with a horizontal gradient")
		click      = flag.Bool("click", false, "play a short click on every beat")
		noPrompt   = flag.Bool("no-prompt", false, "do not offer a reconnect dialog when retries run out")
		maxRetries = flag.Int("max-retries", config.MaxRetries, "automatic reconnect budget")
		retryDelay = flag.Duration("retry-delay", config.ReconnectDelay, "delay between reconnect attempts")
	)
	flag.Parse()

	logger := log.New(os.Stderr, log.LevelFromString(*logLevel))

	settings := config.DefaultSettings()
	if *configPath != "" {
		s, err := config.LoadSettings(*configPath, settings)
		switch {
		case err == nil:
			settings = s
		case errors.Is(err, os.ErrNotExist):
			logger.Infof("no settings at %s, writing defaults", *configPath)
			if err := config.SaveSettings(*configPath, settings); err != nil {
				logger.Warnf("write settings: %v", err)
			}
		default:
			logger.Warnf("load settings: %v", err)
		}
	}
	if flag.CommandLine.Changed("gradient") {
		settings.Gradient = *gradient
	}

	mode := ingest.ModeEnvelope
	if *legacy {
		mode = ingest.ModeLegacy
	}
	logger.Infof("analyzer %s, %s frames, log level %s", *addr, mode, logger.Level())

	g := game.New(game.Options{
		URL:          *addr,
		Mode:         mode,
		Settings:     settings,
		SettingsPath: *configPath,
		MaxRetries:   *maxRetries,
		RetryDelay:   clampDelay(*retryDelay),
		Click:        *click,
		Prompt:       !*noPrompt,
		Log:          logger,
	})

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Pulse Visualizer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := game.Run(g); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func clampDelay(d time.Duration) time.Duration {
	if d < 100*time.Millisecond {
		return 100 * time.Millisecond
	}
	return d
}
