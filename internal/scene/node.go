// Package scene models the host's overlay elements so pointer events can be
// hit-tested against them, the way a page marks its content card.
package scene

// Rect is an axis-aligned rectangle in surface pixels. Max is inclusive.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether (x,y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && y >= r.MinY && x <= r.MaxX && y <= r.MaxY
}

// Width and Height of r.
func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Node is an element in the overlay tree.
type Node struct {
	Name       string
	Bounds     Rect
	Foreground bool // marks content that swallows background clicks

	parent   *Node
	children []*Node
}

// NewNode returns a detached node.
func NewNode(name string, bounds Rect) *Node {
	return &Node{Name: name, Bounds: bounds}
}

// Append adds c as the last child of n and returns c.
func (n *Node) Append(c *Node) *Node {
	if c.parent != nil {
		c.parent.remove(c)
	}
	c.parent = n
	n.children = append(n.children, c)
	return c
}

func (n *Node) remove(c *Node) {
	for i, x := range n.children {
		if x == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// Parent returns n's parent or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns n's children in paint order.
func (n *Node) Children() []*Node { return n.children }

// HitTest returns the topmost node under (x,y), or nil. Later children are
// painted above earlier ones.
func (n *Node) HitTest(x, y float64) *Node {
	if n == nil || !n.Bounds.Contains(x, y) {
		return nil
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if hit := n.children[i].HitTest(x, y); hit != nil {
			return hit
		}
	}
	return n
}

// Closest walks from n up through its ancestors and returns the first node
// that satisfies match.
func (n *Node) Closest(match func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if match(cur) {
			return cur
		}
	}
	return nil
}

// IsForeground matches nodes marked as foreground content.
func IsForeground(n *Node) bool { return n.Foreground }

// InForeground reports whether the target at (x,y) sits inside a foreground
// region of root.
func InForeground(root *Node, x, y float64) bool {
	return root.HitTest(x, y).Closest(IsForeground) != nil
}
