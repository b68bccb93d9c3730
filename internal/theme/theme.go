// Package theme carries the light/dark flag supplied by the host.
package theme

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme is either Light or Dark.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse accepts "light" or "dark" in any case.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("theme: unknown theme %q", s)
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Ink is the resting dot color: white on dark, black on light.
func (t Theme) Ink() colorful.Color {
	if t == Dark {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return colorful.Color{}
}

// Background is the page color the host paints behind the surface.
func (t Theme) Background() color.Color {
	if t == Dark {
		return colorful.Color{R: 0.04, G: 0.04, B: 0.05}
	}
	return colorful.Color{R: 0.98, G: 0.98, B: 0.97}
}

// Foreground is the card fill for the current theme.
func (t Theme) Foreground() color.Color {
	c := t.Ink().BlendRgb(colorful.Color{R: 0.5, G: 0.5, B: 0.5}, 0.85)
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xd0}
}

// Text is the label color on the card.
func (t Theme) Text() color.Color {
	return t.Ink()
}
