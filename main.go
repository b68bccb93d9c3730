package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"image/color"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"dotfield/internal/cue"
	"dotfield/internal/engine"
	"dotfield/internal/palette"
	"dotfield/internal/scene"
	"dotfield/internal/theme"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sampleRate   = 44100

	cardWidth  = 420
	cardHeight = 260
	linkHeight = 40
	buttonSize = 44
	stripSteps = 32
)

var (
	widthFlag    = flag.Int("width", windowWidth, "initial window width")
	heightFlag   = flag.Int("height", windowHeight, "initial window height")
	densityFlag  = flag.Float64("density", 4, "dot density (>1 packs more dots)")
	themeFlag    = flag.String("theme", "dark", "initial theme: light or dark")
	soundsFlag   = flag.String("sounds", "sounds", "directory or http(s) base URL holding the note mp3 files")
	muteFlag     = flag.Bool("mute", false, "disable click sounds")
	fpsFlag      = flag.Float64("fps", 60, "target simulation rate, 0 to tick every frame")
	gradientFlag = flag.String("gradient", "", "comma-separated hex colors for the influence gradient")
	shaderFlag   = flag.String("shader", "", "path to a Kage shader replacing the built-in one")
	debugFlag    = flag.Bool("debug", false, "verbose logging (also DEBUG=1)")
)

var links = []string{"github", "mastodon", "blog"}

// Game hosts the background engine under a foreground card, like a page
// hosting its animated backdrop.
type Game struct {
	log    *slog.Logger
	engine *engine.Engine
	poller engine.Poller
	theme  theme.Theme

	gradient palette.Gradient
	cues     *cue.Dispatcher
	muted    bool

	face   *text.GoTextFace
	card   *scene.Node
	toggle *scene.Node
	ow, oh int
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.setTheme(g.theme.Toggle())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.muted = !g.muted
		g.cues.SetMuted(g.muted)
		g.log.Info("sound", "muted", g.muted)
	}

	w, h, scale := g.engine.Size()
	for _, ev := range g.poller.Poll(w, h, scale) {
		if d, ok := ev.(engine.PointerDown); ok && g.toggle.Bounds.Contains(d.X, d.Y) {
			g.setTheme(g.theme.Toggle())
		}
		g.engine.HandleEvent(ev)
	}
	return g.engine.Update()
}

func (g *Game) setTheme(t theme.Theme) {
	g.theme = t
	g.engine.SetTheme(t)
	g.log.Debug("theme", "now", t)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.theme.Background())
	g.engine.Draw(screen)
	_, _, scale := g.engine.Size()
	g.drawOverlay(screen, float32(scale))
}

func (g *Game) drawOverlay(screen *ebiten.Image, scale float32) {
	fill := g.theme.Foreground()
	ink := g.theme.Text()

	rect := func(r scene.Rect, c color.Color) {
		vector.DrawFilledRect(screen, float32(r.MinX)*scale, float32(r.MinY)*scale,
			float32(r.Width())*scale, float32(r.Height())*scale, c, true)
	}
	label := func(s string, x, y float64, size float64) {
		f := *g.face
		f.Size = size * float64(scale)
		op := &text.DrawOptions{}
		op.GeoM.Translate(x*float64(scale), y*float64(scale))
		op.ColorScale.ScaleWithColor(ink)
		text.Draw(screen, s, &f, op)
	}

	c := g.card.Bounds
	rect(c, fill)
	label("dotfield", c.MinX+24, c.MinY+20, 24)

	// accent strip along the card's bottom edge, sampled from the dot gradient
	step := c.Width() / stripSteps
	for i := range stripSteps {
		x := c.MinX + float64(i)*step
		rect(scene.Rect{MinX: x, MinY: c.MaxY - 4, MaxX: x + step, MaxY: c.MaxY}, g.gradient.At(float64(i)/(stripSteps-1)))
	}

	for _, n := range g.card.Children() {
		rect(n.Bounds, fill)
		label(n.Name, n.Bounds.MinX+12, n.Bounds.MinY+10, 16)
	}
	rect(g.toggle.Bounds, fill)
	label("T", g.toggle.Bounds.MinX+16, g.toggle.Bounds.MinY+12, 16)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if outsideWidth != g.ow || outsideHeight != g.oh {
		g.ow, g.oh = outsideWidth, outsideHeight
		g.buildOverlay(float64(outsideWidth), float64(outsideHeight))
	}
	return g.engine.Layout(outsideWidth, outsideHeight, scale)
}

// buildOverlay lays out the card, its links and the theme button for a w x h
// window. All three are foreground content.
func (g *Game) buildOverlay(w, h float64) {
	root := scene.NewNode("page", scene.Rect{MaxX: w, MaxY: h})

	cw, ch := max(0, min(cardWidth, w-40)), max(0, min(cardHeight, h-120))
	x0, y0 := (w-cw)/2, (h-ch)/2
	g.card = root.Append(scene.NewNode("card", scene.Rect{MinX: x0, MinY: y0, MaxX: x0 + cw, MaxY: y0 + ch}))
	g.card.Foreground = true
	for i, name := range links {
		y := y0 + 70 + float64(i)*(linkHeight+12)
		g.card.Append(scene.NewNode(name, scene.Rect{MinX: x0 + 24, MinY: y, MaxX: x0 + cw - 24, MaxY: y + linkHeight}))
	}

	bx, by := (w-buttonSize)/2, h-buttonSize-24
	g.toggle = root.Append(scene.NewNode("theme", scene.Rect{MinX: bx, MinY: by, MaxX: bx + buttonSize, MaxY: by + buttonSize}))
	g.toggle.Foreground = true

	g.engine.SetOverlay(root)
}

// Close stops the engine, which also silences any playing cue.
func (g *Game) Close() {
	g.engine.Close()
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if *debugFlag || os.Getenv("DEBUG") == "1" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig(log *slog.Logger) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Layout.Density = *densityFlag
	cfg.FPS = *fpsFlag

	t, err := theme.Parse(*themeFlag)
	if err != nil {
		log.Warn("using dark theme", "err", err)
		t = theme.Dark
	}
	cfg.Theme = t

	if *gradientFlag != "" {
		g, err := palette.Parse(*gradientFlag)
		if err != nil {
			log.Warn("gradient", "err", err)
		}
		cfg.Gradient = g
	}
	if *shaderFlag != "" {
		src, err := os.ReadFile(*shaderFlag)
		if err != nil {
			log.Warn("using built-in shader", "err", err)
		} else {
			cfg.Shader = src
		}
	}
	return cfg
}

func main() {
	flag.Parse()
	log := newLogger()
	slog.SetDefault(log)
	cfg := loadConfig(log)

	// Initialize audio context
	audioContext := audio.NewContext(sampleRate)
	cues := cue.NewDispatcher(audioContext, cue.SourceFor(*soundsFlag, os.DirFS), log.With("component", "cue"))
	cues.SetMuted(*muteFlag)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if n := cues.Preload(ctx); n == 0 && !*muteFlag {
		log.Info("no note assets found, clicks will be silent", "sounds", *soundsFlag)
	}
	cancel()

	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Error("font", "err", err)
		os.Exit(1)
	}

	game := &Game{
		log:      log,
		engine:   engine.New(cfg, cues, log.With("component", "engine")),
		theme:    cfg.Theme,
		gradient: cfg.Gradient,
		cues:     cues,
		muted:    *muteFlag,
		face:     &text.GoTextFace{Source: src, Size: 16},
	}
	defer game.Close()

	ebiten.SetWindowSize(*widthFlag, *heightFlag)
	ebiten.SetWindowTitle("dotfield")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		// No usable graphics context: leave quietly.
		log.Warn("background unavailable", "err", err)
	}
}
