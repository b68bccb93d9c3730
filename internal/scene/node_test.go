package scene

import "testing"

func buildPage() (root, card, link *Node) {
	root = NewNode("page", Rect{0, 0, 800, 600})
	card = root.Append(NewNode("card", Rect{200, 150, 600, 450}))
	card.Foreground = true
	link = card.Append(NewNode("link", Rect{250, 200, 550, 240}))
	root.Append(NewNode("toolbar", Rect{350, 550, 450, 590})).Foreground = true
	return root, card, link
}

func TestHitTest(t *testing.T) {
	root, card, link := buildPage()
	tests := []struct {
		x, y float64
		want *Node
	}{
		{10, 10, root},
		{210, 160, card},
		{300, 220, link},
		{900, 10, nil},
	}
	for _, tt := range tests {
		if got := root.HitTest(tt.x, tt.y); got != tt.want {
			t.Errorf("HitTest(%v,%v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestClosestForeground(t *testing.T) {
	root, card, link := buildPage()
	if got := link.Closest(IsForeground); got != card {
		t.Fatalf("Closest from link = %v, want card", got)
	}
	if root.Closest(IsForeground) != nil {
		t.Fatal("root is not foreground")
	}

	for _, tt := range []struct {
		x, y float64
		want bool
	}{
		{300, 220, true}, // link inside card
		{210, 440, true},
		{400, 570, true}, // toolbar
		{100, 100, false},
		{-5, -5, false},
	} {
		if got := InForeground(root, tt.x, tt.y); got != tt.want {
			t.Errorf("InForeground(%v,%v) = %v", tt.x, tt.y, got)
		}
	}
}

func TestAppendReparents(t *testing.T) {
	root, card, link := buildPage()
	root.Append(link)
	if link.Parent() != root || len(card.Children()) != 0 {
		t.Fatal("link not moved to root")
	}
	if link.Closest(IsForeground) != nil {
		t.Fatal("reparented link should no longer be foreground")
	}
}
