package cue

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
)

// voice is one playing sound.
type voice interface {
	SetVolume(float64)
	Play()
	IsPlaying() bool
	Close() error
}

// Dispatcher turns clicks into notes. All methods are no-ops on a nil
// Dispatcher, and playback problems are never reported to the caller.
type Dispatcher struct {
	log    *slog.Logger
	source Source

	decode   func(io.Reader) ([]byte, error)
	newVoice func([]byte) voice

	pcm    map[string][]byte
	voices []voice
	muted  bool
}

// NewDispatcher returns a dispatcher that decodes assets from src and plays
// them through ctx. Call Preload before the first Dispatch.
func NewDispatcher(ctx *audio.Context, src Source, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	rate := ctx.SampleRate()
	return &Dispatcher{
		log:    log,
		source: src,
		decode: func(r io.Reader) ([]byte, error) {
			raw, err := io.ReadAll(r)
			if err != nil {
				return nil, err
			}
			s, err := mp3.DecodeWithSampleRate(rate, bytes.NewReader(raw))
			if err != nil {
				return nil, err
			}
			return io.ReadAll(s)
		},
		newVoice: func(b []byte) voice { return ctx.NewPlayerFromBytes(b) },
		pcm:      make(map[string][]byte, len(Notes)),
	}
}

// Preload decodes every note into memory. Missing or broken assets are
// skipped; clicks that map to them stay silent. It returns the number of
// notes loaded.
func (d *Dispatcher) Preload(ctx context.Context) int {
	if d == nil {
		return 0
	}
	for _, note := range Notes {
		if ctx.Err() != nil {
			break
		}
		b, err := d.load(ctx, note)
		if err != nil {
			d.log.Debug("cue asset unavailable", "note", note, "err", err)
			continue
		}
		d.pcm[note] = b
	}
	d.log.Debug("cue assets loaded", "loaded", len(d.pcm), "total", len(Notes))
	return len(d.pcm)
}

func (d *Dispatcher) load(ctx context.Context, note string) ([]byte, error) {
	rc, err := d.source.Open(ctx, note)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return d.decode(rc)
}

// SetMuted turns playback off or on.
func (d *Dispatcher) SetMuted(m bool) {
	if d != nil {
		d.muted = m
	}
}

// Dispatch plays the note for a click at y on a surface of height h. It
// returns immediately; the audio runtime mixes the sound in the background.
func (d *Dispatcher) Dispatch(y, h float64) {
	if d == nil || d.muted {
		return
	}
	d.reap()
	note := Note(y, h)
	b, ok := d.pcm[note]
	if !ok {
		return
	}
	v := d.newVoice(b)
	v.SetVolume(Volume)
	v.Play()
	d.voices = append(d.voices, v)
}

// reap closes voices that finished playing.
func (d *Dispatcher) reap() {
	live := d.voices[:0]
	for _, v := range d.voices {
		if v.IsPlaying() {
			live = append(live, v)
			continue
		}
		if err := v.Close(); err != nil {
			d.log.Debug("cue close", "err", err)
		}
	}
	clear(d.voices[len(live):])
	d.voices = live
}

// Close stops and releases every voice.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	for _, v := range d.voices {
		_ = v.Close()
	}
	d.voices = nil
}
