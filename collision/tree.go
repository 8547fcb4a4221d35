package collision

import (
	"fmt"
	"log"
	"math"

	"github.com/milk9111/collide2d/geom"
)

// TreeNode is a node of the DynamicTree. Leaves hold exactly one collider;
// internal nodes hold two children and no collider.
type TreeNode struct {
	Parent   *TreeNode
	Left     *TreeNode
	Right    *TreeNode
	Bounds   geom.BoundingBox
	Height   int
	Collider Collider
}

func (n *TreeNode) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// InfiniteBounds covers the whole plane.
func InfiniteBounds() geom.BoundingBox {
	return geom.NewBoundingBox(-math.MaxFloat64, -math.MaxFloat64, math.MaxFloat64, math.MaxFloat64)
}

// DynamicTree is a bounding volume hierarchy over collider boxes. Leaves
// store fattened boxes so small movements do not reshape the tree.
type DynamicTree struct {
	cfg         DynamicTreeConfig
	worldBounds geom.BoundingBox

	root  *TreeNode
	nodes map[int]*TreeNode
}

func NewDynamicTree(cfg DynamicTreeConfig, worldBounds geom.BoundingBox) *DynamicTree {
	return &DynamicTree{
		cfg:         cfg,
		worldBounds: worldBounds,
		nodes:       make(map[int]*TreeNode),
	}
}

// SetConfig replaces the fattening parameters used by later updates.
func (t *DynamicTree) SetConfig(cfg DynamicTreeConfig) {
	t.cfg = cfg
}

func (t *DynamicTree) Root() *TreeNode {
	return t.root
}

// Len is the number of tracked colliders.
func (t *DynamicTree) Len() int {
	return len(t.nodes)
}

func (t *DynamicTree) Height() int {
	if t.root == nil {
		return 0
	}
	return t.root.Height
}

// Tracks reports whether c has a leaf.
func (t *DynamicTree) Tracks(c Collider) bool {
	_, ok := t.nodes[c.ID()]
	return ok
}

// TrackCollider inserts a leaf for c.
func (t *DynamicTree) TrackCollider(c Collider) {
	if _, ok := t.nodes[c.ID()]; ok {
		return
	}
	node := &TreeNode{Collider: c, Bounds: t.fatten(c, c.Bounds())}
	t.nodes[c.ID()] = node
	t.insert(node)
}

// UntrackCollider removes c's leaf if present.
func (t *DynamicTree) UntrackCollider(c Collider) {
	node, ok := t.nodes[c.ID()]
	if !ok {
		return
	}
	t.remove(node)
	delete(t.nodes, c.ID())
}

// UpdateCollider re-inserts c when its tight bounds escaped the stored box.
// It reports whether the tree changed.
func (t *DynamicTree) UpdateCollider(c Collider) bool {
	node, ok := t.nodes[c.ID()]
	if !ok {
		return false
	}

	b := c.Bounds()
	if !t.worldBounds.Contains(b) {
		log.Printf("collision: collider %d left the world bounds and is no longer tracked", c.ID())
		t.UntrackCollider(c)
		return false
	}
	if node.Bounds.Contains(b) {
		return false
	}

	t.remove(node)
	b = t.fatten(c, b)
	node.Bounds = b
	t.insert(node)
	return true
}

// fatten pads b by the configured amount and stretches it along the owner's
// velocity.
func (t *DynamicTree) fatten(c Collider, b geom.BoundingBox) geom.BoundingBox {
	b = b.Pad(t.cfg.BoundsPadding)
	body := c.Owner()
	if body == nil || body.Motion == nil {
		return b
	}
	// one 32ms frame of travel
	dx := body.Motion.Vel.X * 32 / 1000 * t.cfg.VelocityMultiplier
	dy := body.Motion.Vel.Y * 32 / 1000 * t.cfg.VelocityMultiplier
	if dx < 0 {
		b.Left += dx
	} else {
		b.Right += dx
	}
	if dy < 0 {
		b.Top += dy
	} else {
		b.Bottom += dy
	}
	return b
}

func (t *DynamicTree) insert(leaf *TreeNode) {
	if t.root == nil {
		t.root = leaf
		leaf.Parent = nil
		return
	}

	// find the cheapest sibling by perimeter
	leafBounds := leaf.Bounds
	sibling := t.root
	for !sibling.IsLeaf() {
		left := sibling.Left
		right := sibling.Right

		area := sibling.Bounds.Perimeter()
		combinedArea := sibling.Bounds.Combine(leafBounds).Perimeter()

		// cost of a new parent for this node and the leaf
		cost := 2 * combinedArea
		// minimum cost of pushing the leaf further down
		inheritanceCost := 2 * (combinedArea - area)

		leftCost := descendCost(left, leafBounds, inheritanceCost)
		rightCost := descendCost(right, leafBounds, inheritanceCost)

		if cost < leftCost && cost < rightCost {
			break
		}
		if leftCost < rightCost {
			sibling = left
		} else {
			sibling = right
		}
	}

	oldParent := sibling.Parent
	newParent := &TreeNode{
		Parent: oldParent,
		Bounds: leafBounds.Combine(sibling.Bounds),
		Height: sibling.Height + 1,
		Left:   sibling,
		Right:  leaf,
	}
	if oldParent != nil {
		if oldParent.Left == sibling {
			oldParent.Left = newParent
		} else {
			oldParent.Right = newParent
		}
	} else {
		t.root = newParent
	}
	sibling.Parent = newParent
	leaf.Parent = newParent

	t.refit(leaf.Parent)
}

func descendCost(node *TreeNode, leafBounds geom.BoundingBox, inheritanceCost float64) float64 {
	combined := leafBounds.Combine(node.Bounds).Perimeter()
	if node.IsLeaf() {
		return combined + inheritanceCost
	}
	return combined - node.Bounds.Perimeter() + inheritanceCost
}

func (t *DynamicTree) remove(leaf *TreeNode) {
	defer func() {
		leaf.Parent = nil
	}()
	if leaf == t.root {
		t.root = nil
		return
	}

	parent := leaf.Parent
	grandParent := parent.Parent
	sibling := parent.Left
	if sibling == leaf {
		sibling = parent.Right
	}

	if grandParent == nil {
		t.root = sibling
		sibling.Parent = nil
		return
	}

	if grandParent.Left == parent {
		grandParent.Left = sibling
	} else {
		grandParent.Right = sibling
	}
	sibling.Parent = grandParent
	t.refit(grandParent)
}

// refit walks up from node fixing heights and boxes, rebalancing as it goes.
func (t *DynamicTree) refit(node *TreeNode) {
	for node != nil {
		node = t.balance(node)
		if node.Left == nil || node.Right == nil {
			panic(fmt.Sprintf("collision: internal tree node missing a child (height %d)", node.Height))
		}
		node.Height = 1 + max(node.Left.Height, node.Right.Height)
		node.Bounds = node.Left.Bounds.Combine(node.Right.Bounds)
		node = node.Parent
	}
}

// balance performs a left or right rotation if a is imbalanced and returns
// the new subtree root.
func (t *DynamicTree) balance(a *TreeNode) *TreeNode {
	if a.IsLeaf() || a.Height < 2 {
		return a
	}

	b := a.Left
	c := a.Right
	balance := c.Height - b.Height

	// rotate c up
	if balance > 1 {
		f := c.Left
		g := c.Right

		c.Left = a
		c.Parent = a.Parent
		a.Parent = c
		t.replaceChild(c.Parent, a, c)

		if f.Height > g.Height {
			c.Right = f
			a.Right = g
			g.Parent = a
			a.Bounds = b.Bounds.Combine(g.Bounds)
			c.Bounds = a.Bounds.Combine(f.Bounds)
			a.Height = 1 + max(b.Height, g.Height)
			c.Height = 1 + max(a.Height, f.Height)
		} else {
			c.Right = g
			a.Right = f
			f.Parent = a
			a.Bounds = b.Bounds.Combine(f.Bounds)
			c.Bounds = a.Bounds.Combine(g.Bounds)
			a.Height = 1 + max(b.Height, f.Height)
			c.Height = 1 + max(a.Height, g.Height)
		}
		return c
	}

	// rotate b up
	if balance < -1 {
		d := b.Left
		e := b.Right

		b.Left = a
		b.Parent = a.Parent
		a.Parent = b
		t.replaceChild(b.Parent, a, b)

		if d.Height > e.Height {
			b.Right = d
			a.Left = e
			e.Parent = a
			a.Bounds = c.Bounds.Combine(e.Bounds)
			b.Bounds = a.Bounds.Combine(d.Bounds)
			a.Height = 1 + max(c.Height, e.Height)
			b.Height = 1 + max(a.Height, d.Height)
		} else {
			b.Right = e
			a.Left = d
			d.Parent = a
			a.Bounds = c.Bounds.Combine(d.Bounds)
			b.Bounds = a.Bounds.Combine(e.Bounds)
			a.Height = 1 + max(c.Height, d.Height)
			b.Height = 1 + max(a.Height, e.Height)
		}
		return b
	}

	return a
}

func (t *DynamicTree) replaceChild(parent, old, replacement *TreeNode) {
	if parent == nil {
		t.root = replacement
		return
	}
	if parent.Left == old {
		parent.Left = replacement
	} else {
		parent.Right = replacement
	}
}

// Query calls visitor for every tracked collider, other than c itself, whose
// stored box overlaps c's bounds. A visitor returning true stops the walk.
func (t *DynamicTree) Query(c Collider, visitor func(Collider) bool) {
	bounds := c.Bounds()
	var walk func(n *TreeNode) bool
	walk = func(n *TreeNode) bool {
		if n == nil || !n.Bounds.Overlaps(bounds, 0) {
			return false
		}
		if n.IsLeaf() {
			if n.Collider.ID() == c.ID() {
				return false
			}
			return visitor(n.Collider)
		}
		return walk(n.Left) || walk(n.Right)
	}
	walk(t.root)
}

// QueryBounds is Query against an arbitrary box.
func (t *DynamicTree) QueryBounds(bounds geom.BoundingBox, visitor func(Collider) bool) {
	var walk func(n *TreeNode) bool
	walk = func(n *TreeNode) bool {
		if n == nil || !n.Bounds.Overlaps(bounds, 0) {
			return false
		}
		if n.IsLeaf() {
			return visitor(n.Collider)
		}
		return walk(n.Left) || walk(n.Right)
	}
	walk(t.root)
}

// RayCastQuery visits colliders whose stored box the ray enters within max.
// A visitor returning true stops the walk.
func (t *DynamicTree) RayCastQuery(ray geom.Ray, max float64, visitor func(Collider) bool) error {
	if !geom.IsValid(ray.Dir) || ray.Dir.LengthSq() == 0 {
		return fmt.Errorf("collision: ray direction %v: %w", ray.Dir, ErrDegenerateRay)
	}
	var walk func(n *TreeNode) bool
	walk = func(n *TreeNode) bool {
		if n == nil || !n.Bounds.RayCast(ray, max) {
			return false
		}
		if n.IsLeaf() {
			return visitor(n.Collider)
		}
		return walk(n.Left) || walk(n.Right)
	}
	walk(t.root)
	return nil
}

// Debug draws every node box.
func (t *DynamicTree) Debug(r DebugRenderer) {
	var walk func(n *TreeNode)
	walk = func(n *TreeNode) {
		if n == nil {
			return
		}
		if n.IsLeaf() {
			r.DrawRect(n.Bounds, ColorCollider)
			return
		}
		r.DrawRect(n.Bounds, ColorTreeNode)
		walk(n.Left)
		walk(n.Right)
	}
	walk(t.root)
}
