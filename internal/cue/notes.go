// Package cue plays a short note for each background click, pitched by how
// high on the surface the click landed.
package cue

import (
	"math"
	"net/url"
)

// Notes runs from the lowest pitch to the highest.
var Notes = [...]string{
	"A3", "E4",
	"A4", "B4",
	"C#5", "E5", "F#5", "G#5",
	"A5", "B5",
	"C#6", "E6", "F#6", "G#6",
	"A6", "B6",
	"C#7", "E7", "F#7", "G#7",
	"A7",
}

// Volume is the playback volume of every cue.
const Volume = 0.25

// Index maps a vertical click offset y on a surface of height h to a note
// index: the top edge gives the highest note, the bottom the lowest.
func Index(y, h float64) int {
	h = math.Max(1, h)
	t := 1 - math.Max(0, math.Min(1, y/h))
	idx := int(math.Round(t * float64(len(Notes)-1)))
	return max(0, min(len(Notes)-1, idx))
}

// Note returns the note name for a click at y on a surface of height h.
func Note(y, h float64) string { return Notes[Index(y, h)] }

// FileName is the asset file for note, e.g. "C#5.mp3".
func FileName(note string) string { return note + ".mp3" }

// AssetName is FileName escaped for use in a URL path, e.g. "C%235.mp3".
func AssetName(note string) string { return url.PathEscape(FileName(note)) }
