package engine

import (
	"reflect"
	"testing"

	"dotfield/internal/interact"
)

func TestPollerDiff(t *testing.T) {
	var p Poller
	steps := []struct {
		name  string
		state inputState
		want  []Event
	}{
		{
			name:  "first frame inside",
			state: inputState{focused: true, cursor: [2]float64{10, 20}, inside: true},
			want:  []Event{PointerMove{X: 10, Y: 20, Kind: interact.Mouse}},
		},
		{
			name:  "no change",
			state: inputState{focused: true, cursor: [2]float64{10, 20}, inside: true},
			want:  nil,
		},
		{
			name:  "click without moving",
			state: inputState{focused: true, cursor: [2]float64{10, 20}, inside: true, presses: 1},
			want:  []Event{PointerDown{X: 10, Y: 20, Kind: interact.Mouse}},
		},
		{
			name:  "leave window",
			state: inputState{focused: true, cursor: [2]float64{-5, 20}},
			want:  []Event{PointerOut{}},
		},
		{
			name:  "still outside",
			state: inputState{focused: true, cursor: [2]float64{-9, 20}},
			want:  nil,
		},
		{
			name:  "touch",
			state: inputState{focused: true, cursor: [2]float64{-9, 20}, touches: [][2]float64{{3, 4}}},
			want:  []Event{PointerDown{X: 3, Y: 4, Kind: interact.Touch}},
		},
		{
			name:  "blur",
			state: inputState{cursor: [2]float64{50, 50}, inside: true},
			want:  []Event{Blur{}},
		},
		{
			name:  "still blurred",
			state: inputState{cursor: [2]float64{60, 50}, inside: true},
			want:  nil,
		},
		{
			name:  "refocus and move",
			state: inputState{focused: true, cursor: [2]float64{70, 50}, inside: true},
			want:  []Event{PointerMove{X: 70, Y: 50, Kind: interact.Mouse}},
		},
	}
	for _, st := range steps {
		got := p.diff(&st.state, nil)
		if !reflect.DeepEqual(got, st.want) {
			t.Fatalf("%s: got %#v, want %#v", st.name, got, st.want)
		}
	}
}

func TestPollerStartsBlurred(t *testing.T) {
	var p Poller
	got := p.diff(&inputState{}, nil)
	if !reflect.DeepEqual(got, []Event{Blur{}}) {
		t.Fatalf("got %#v", got)
	}
}
