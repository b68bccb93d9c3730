package cue

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestIndex(t *testing.T) {
	last := len(Notes) - 1
	for _, h := range []float64{1, 37, 800, 4000} {
		if got := Note(0, h); got != "A7" {
			t.Errorf("top of %v-tall surface = %s, want A7", h, got)
		}
		if got := Note(h, h); got != "A3" {
			t.Errorf("bottom of %v-tall surface = %s, want A3", h, got)
		}
	}
	tests := []struct {
		y, h float64
		want int
	}{
		{400, 800, 10},
		{-50, 800, last},
		{900, 800, 0},
		{0, 0, last},
		{20, 800, 20}, // 0.975*20 = 19.5 rounds up
	}
	for _, tt := range tests {
		if got := Index(tt.y, tt.h); got != tt.want {
			t.Errorf("Index(%v,%v) = %d, want %d", tt.y, tt.h, got, tt.want)
		}
	}
	for i := 1; i < len(Notes); i++ {
		if Index(float64(i), 1000) > Index(float64(i-1), 1000) {
			t.Fatal("pitch must not rise as y grows")
		}
	}
}

func TestAssetName(t *testing.T) {
	if got := FileName("C#5"); got != "C#5.mp3" {
		t.Errorf("FileName = %s", got)
	}
	if got := AssetName("C#5"); got != "C%235.mp3" {
		t.Errorf("AssetName = %s", got)
	}
	if got := AssetName("A3"); got != "A3.mp3" {
		t.Errorf("AssetName = %s", got)
	}
}

func TestDirSource(t *testing.T) {
	fsys := fstest.MapFS{"F#6.mp3": {Data: []byte("sharp")}}
	rc, err := DirSource{FS: fsys}.Open(context.Background(), "F#6")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "sharp" {
		t.Fatalf("read %q", b)
	}
	if _, err := (DirSource{FS: fsys}).Open(context.Background(), "A3"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing asset err = %v", err)
	}
}

func TestSourceForDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "A3.mp3"), []byte("low"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := SourceFor(dir, nil)
	if _, ok := src.(DirSource); !ok {
		t.Fatalf("SourceFor(%q) = %T, want DirSource", dir, src)
	}
	rc, err := src.Open(context.Background(), "A3")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "low" {
		t.Fatalf("read %q", b)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/sounds/C%235.mp3" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	src := SourceFor(srv.URL+"/sounds/", nil)
	rc, err := src.Open(context.Background(), "C#5")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "ok" {
		t.Fatalf("body = %q", b)
	}
	if _, err := src.Open(context.Background(), "A3"); err == nil {
		t.Fatal("expected error for 404")
	}
}

type fakeVoice struct {
	volume  float64
	playing bool
	closed  bool
	data    []byte
}

func (v *fakeVoice) SetVolume(x float64) { v.volume = x }
func (v *fakeVoice) Play()               { v.playing = true }
func (v *fakeVoice) IsPlaying() bool     { return v.playing }
func (v *fakeVoice) Close() error        { v.closed = true; return nil }

func newTestDispatcher(fsys fs.FS) (*Dispatcher, *[]*fakeVoice) {
	var made []*fakeVoice
	d := &Dispatcher{
		log:    discardLogger(),
		source: DirSource{FS: fsys},
		decode: func(r io.Reader) ([]byte, error) {
			b, err := io.ReadAll(r)
			if bytes.Equal(b, []byte("bad")) {
				return nil, errors.New("bad mp3")
			}
			return b, err
		},
		pcm: map[string][]byte{},
	}
	d.newVoice = func(b []byte) voice {
		v := &fakeVoice{data: b}
		made = append(made, v)
		return v
	}
	return d, &made
}

func TestDispatcher(t *testing.T) {
	d, made := newTestDispatcher(fstest.MapFS{
		"A7.mp3": {Data: []byte("high")},
		"A3.mp3": {Data: []byte("low")},
		"E4.mp3": {Data: []byte("bad")},
	})
	if n := d.Preload(context.Background()); n != 2 {
		t.Fatalf("loaded %d notes, want 2", n)
	}

	d.Dispatch(0, 800)
	d.Dispatch(800, 800)
	d.Dispatch(400, 800) // C#6 has no asset
	if len(*made) != 2 {
		t.Fatalf("played %d voices, want 2", len(*made))
	}
	if v := (*made)[0]; string(v.data) != "high" || v.volume != Volume || !v.playing {
		t.Fatalf("voice 0 = %+v", v)
	}

	(*made)[0].playing = false
	d.Dispatch(800, 800)
	if !(*made)[0].closed || len(d.voices) != 2 {
		t.Fatalf("finished voice not reaped: closed=%v live=%d", (*made)[0].closed, len(d.voices))
	}

	d.SetMuted(true)
	d.Dispatch(0, 800)
	if len(*made) != 3 {
		t.Fatal("muted dispatcher played")
	}

	d.Close()
	for i, v := range *made {
		if !v.closed {
			t.Errorf("voice %d not closed", i)
		}
	}
}

func TestNilDispatcher(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(0, 100)
	d.SetMuted(true)
	d.Close()
	if d.Preload(context.Background()) != 0 {
		t.Fatal("nil Preload")
	}
}
