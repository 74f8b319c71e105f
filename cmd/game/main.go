package main

import (
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/fennweller/ember-city/internal/config"
	"github.com/fennweller/ember-city/internal/game"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	if err := config.Load("."); err != nil {
		logger.Fatal().Err(err).Msg("config unreadable")
	}
	if lvl, err := zerolog.ParseLevel(config.GetString("logLevel")); err == nil {
		logger = logger.Level(lvl)
	}

	wc := config.GetWindowConfig()
	ebiten.SetWindowTitle(wc.Title)
	ebiten.SetWindowSize(wc.Width, wc.Height)

	g := game.New(logger)
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal().Err(err).Msg("game loop exited")
	}
}
