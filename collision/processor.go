package collision

import (
	"log"
	"math"
	"sort"
	"time"

	"github.com/milk9111/collide2d/geom"
)

// DynamicTreeProcessor turns tracked colliders into pairs and contacts.
// Composites are expanded; only their children live in the tree.
type DynamicTreeProcessor struct {
	cfg  Config
	tree *DynamicTree

	pairs    []*Pair
	pairHash map[string]struct{}
}

func NewDynamicTreeProcessor(cfg Config) *DynamicTreeProcessor {
	return &DynamicTreeProcessor{
		cfg:      cfg,
		tree:     NewDynamicTree(cfg.DynamicTree, InfiniteBounds()),
		pairHash: make(map[string]struct{}),
	}
}

// SetConfig applies cfg from the next call on.
func (p *DynamicTreeProcessor) SetConfig(cfg Config) {
	p.cfg = cfg
	p.tree.SetConfig(cfg.DynamicTree)
}

func (p *DynamicTreeProcessor) Tree() *DynamicTree {
	return p.tree
}

// Track adds c, or each child of a composite, to the tree.
func (p *DynamicTreeProcessor) Track(c Collider) {
	if c == nil {
		log.Printf("collision: cannot track a nil collider")
		return
	}
	for _, leaf := range leaves(c) {
		p.tree.TrackCollider(leaf)
	}
}

// Untrack removes c, or each child of a composite, from the tree.
func (p *DynamicTreeProcessor) Untrack(c Collider) {
	if c == nil {
		log.Printf("collision: cannot untrack a nil collider")
		return
	}
	for _, leaf := range leaves(c) {
		p.tree.UntrackCollider(leaf)
	}
}

func leaves(c Collider) []Collider {
	if comp, ok := c.(*Composite); ok {
		return comp.children
	}
	return []Collider{c}
}

func expand(colliders []Collider) []Collider {
	out := make([]Collider, 0, len(colliders))
	for _, c := range colliders {
		if c == nil {
			continue
		}
		out = append(out, leaves(c)...)
	}
	return out
}

// Update refreshes tree leaves and returns how many were re-inserted.
func (p *DynamicTreeProcessor) Update(colliders []Collider) int {
	updated := 0
	for _, c := range expand(colliders) {
		if p.tree.UpdateCollider(c) {
			updated++
		}
	}
	return updated
}

func (p *DynamicTreeProcessor) pairExists(a, b Collider) bool {
	_, ok := p.pairHash[PairHash(a.ID(), b.ID())]
	return ok
}

func (p *DynamicTreeProcessor) addPair(a, b Collider) {
	pair := NewPair(a, b)
	if _, ok := p.pairHash[pair.ID]; ok {
		return
	}
	p.pairHash[pair.ID] = struct{}{}
	p.pairs = append(p.pairs, pair)
}

// Broadphase returns candidate pairs for this frame. Fast Active bodies are
// also ray cast along their velocity; on a hit the pair is added and the body
// is moved to touch the hit surface. stats may be nil.
func (p *DynamicTreeProcessor) Broadphase(colliders []Collider, elapsed time.Duration, stats *Stats) []*Pair {
	start := time.Now()
	seconds := elapsed.Seconds()

	potential := make([]Collider, 0, len(colliders))
	for _, c := range expand(colliders) {
		body := c.Owner()
		if body.Active() && body.CollisionType != PreventCollision {
			potential = append(potential, c)
		}
	}

	p.pairs = nil
	clear(p.pairHash)

	for _, c := range potential {
		p.tree.Query(c, func(other Collider) bool {
			if !p.pairExists(c, other) && CanCollide(c, other) {
				p.addPair(c, other)
			}
			// never stop early, every neighbour must be seen
			return false
		})
	}
	if stats != nil {
		stats.Pairs = len(p.pairs)
	}

	if p.cfg.CheckForFastBodies {
		for _, c := range potential {
			p.checkFastBody(c, seconds, stats)
		}
	}

	if stats != nil {
		stats.Broadphase = time.Since(start)
	}
	return p.pairs
}

func (p *DynamicTreeProcessor) checkFastBody(c Collider, seconds float64, stats *Stats) {
	body := c.Owner()
	if body.CollisionType != Active {
		return
	}
	eps := p.cfg.SurfaceEpsilon

	// furthest the body can travel next frame
	updateDistance := body.Vel().Length()*seconds + body.Acc().Length()*0.5*seconds*seconds

	bounds := c.Bounds()
	minDimension := math.Min(bounds.Width(), bounds.Height())
	if !p.cfg.DisableMinimumSpeedForFastBody && updateDistance <= minDimension/2 {
		return
	}
	if stats != nil {
		stats.FastBodies++
	}
	if body.Vel().LengthSq() == 0 {
		return
	}

	// integration already ran; resting bodies may be slightly inside a
	// surface at the new position, so cast from where the body came from
	updateVec := body.Pos().Sub(body.OldPos)
	center := c.Center()
	furthestPoint := c.FurthestPoint(body.Vel())
	origin := furthestPoint.Sub(updateVec)

	ray := geom.NewRay(origin, body.Vel())
	ray.Pos = ray.Pos.Add(ray.Dir.Mult(-2 * eps))

	var minCollider Collider
	minTranslate := geom.V(math.Inf(1), math.Inf(1))
	err := p.tree.RayCastQuery(ray, updateDistance+2*eps, func(other Collider) bool {
		if p.pairExists(c, other) || !CanCollide(c, other) {
			return false
		}
		hit, ok := other.RayCast(ray, updateDistance+10*eps)
		if !ok {
			return false
		}
		if translate := hit.Sub(origin); translate.Length() < minTranslate.Length() {
			minTranslate = translate
			minCollider = other
		}
		return false
	})
	if err != nil || minCollider == nil || !geom.IsValid(minTranslate) {
		return
	}

	p.addPair(c, minCollider)

	// put the collider just inside the surface it would have tunneled through
	shift := center.Sub(furthestPoint)
	newCenter := origin.Add(shift).Add(minTranslate).Add(ray.Dir.Mult(10 * eps))
	body.SetPos(body.Pos().Add(newCenter.Sub(center)))
	c.Update(body.Transform)
	if stats != nil {
		stats.FastBodyCollisions++
	}
}

// Narrowphase collides every pair. The first unknown shape pair aborts.
func (p *DynamicTreeProcessor) Narrowphase(pairs []*Pair, stats *Stats) ([]*Contact, error) {
	start := time.Now()
	var contacts []*Contact
	for _, pair := range pairs {
		found, err := pair.Collide()
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, found...)
		if stats != nil {
			for _, c := range found {
				stats.Contacts[c.ID] = c
			}
		}
	}
	if stats != nil {
		stats.Collisions += len(contacts)
		stats.Narrowphase = time.Since(start)
	}
	return contacts, nil
}

// RayCastOptions narrows a world ray query.
type RayCastOptions struct {
	// MaxDistance of zero means unlimited.
	MaxDistance float64
	// Mask filters by body group category; zero accepts every group.
	Mask uint32
	// SearchAllColliders returns every hit instead of only the nearest.
	SearchAllColliders bool
	Filter             func(RayCastHit) bool
}

type RayCastHit struct {
	Distance float64
	Point    geom.Vector
	Collider Collider
	Body     *Body
}

// RayCast returns hits sorted by distance.
func (p *DynamicTreeProcessor) RayCast(ray geom.Ray, opts RayCastOptions) ([]RayCastHit, error) {
	maxDistance := opts.MaxDistance
	if maxDistance <= 0 {
		maxDistance = math.MaxFloat64
	}

	var hits []RayCastHit
	err := p.tree.RayCastQuery(ray, maxDistance, func(c Collider) bool {
		body := c.Owner()
		if opts.Mask != 0 && body != nil && body.Group.Category&opts.Mask == 0 {
			return false
		}
		point, ok := c.RayCast(ray, maxDistance)
		if !ok {
			return false
		}
		hit := RayCastHit{
			Distance: point.Distance(ray.Pos),
			Point:    point,
			Collider: c,
			Body:     body,
		}
		if opts.Filter != nil && !opts.Filter(hit) {
			return false
		}
		hits = append(hits, hit)
		return false
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if !opts.SearchAllColliders && len(hits) > 1 {
		hits = hits[:1]
	}
	return hits, nil
}

// Debug draws the tree.
func (p *DynamicTreeProcessor) Debug(r DebugRenderer) {
	p.tree.Debug(r)
}
