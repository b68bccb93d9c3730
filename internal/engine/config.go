package engine

import (
	"dotfield/internal/dots"
	"dotfield/internal/influence"
	"dotfield/internal/palette"
	"dotfield/internal/theme"
)

// Config gathers the engine's tunables.
type Config struct {
	Layout    dots.Layout
	Influence influence.Params
	Gradient  palette.Gradient
	Theme     theme.Theme

	// FPS is the target simulation rate. Ticks that arrive sooner than
	// 90% of 1/FPS after the previous one are skipped. Zero disables the
	// throttle.
	FPS float64

	// Shader overrides the built-in Kage program when non-nil.
	Shader []byte
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Layout:    dots.DefaultLayout(),
		Influence: influence.DefaultParams(),
		Gradient:  palette.Default(),
		Theme:     theme.Dark,
		FPS:       60,
	}
}

const throttleSlack = 0.9

func (c Config) minInterval() float64 {
	if c.FPS <= 0 {
		return 0
	}
	return throttleSlack / c.FPS
}
