// Package broadphase implements the uniform spatial-hash grid
// (spec.md §4.8): a map from cell coordinates to the ids occupying each
// cell, per-body region tracking so a body whose cell range did not
// change is skipped, and refcounted
// candidate pairs so a body leaving a shared cell doesn't evict a pair
// still shared by another cell.
package broadphase

import (
	"math"
	"sort"

	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/geometry"
)

// cellKey addresses one bucket of the grid in 2D cell coordinates.
type cellKey struct {
	X, Y int
}

// pairKey canonically orders two body ids so (a,b) and (b,a) hash the
// same refcounted entry.
type pairKey struct {
	A, B uint64
}

func newPairKey(a, b uint64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{A: a, B: b}
}

// Grid is a uniform spatial hash over body bounds.
type Grid struct {
	cellSize float64
	cells    map[cellKey][]uint64

	regions map[uint64]body.Region
	bodies  map[uint64]*body.Body

	pairRefs map[pairKey]int
}

// New creates a Grid with the given cell size (world units per cell).
func New(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 100
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]uint64),
		regions:  make(map[uint64]body.Region),
		bodies:   make(map[uint64]*body.Body),
		pairRefs: make(map[pairKey]int),
	}
}

func (g *Grid) cellRange(b geometry.Bounds) (minX, minY, maxX, maxY int) {
	minX = int(math.Floor(b.Min[0] / g.cellSize))
	minY = int(math.Floor(b.Min[1] / g.cellSize))
	maxX = int(math.Floor(b.Max[0] / g.cellSize))
	maxY = int(math.Floor(b.Max[1] / g.cellSize))
	return
}

// Update registers or moves b within the grid. If b already has a valid
// region and its cell range is unchanged, this is a no-op (spec.md §4.8's
// "skip bodies whose region did not change"); otherwise b is removed from
// every cell of its old range and inserted into every cell of its new
// range, including cells the two ranges share.
func (g *Grid) Update(b *body.Body) {
	minX, minY, maxX, maxY := g.cellRange(b.Bounds)
	next := body.Region{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY, Valid: true}

	prev, tracked := g.regions[b.ID]
	if tracked && prev.Equal(next) {
		return
	}

	if tracked {
		g.removeFromRegion(b.ID, prev)
	}
	g.insertIntoRegion(b.ID, next)

	g.regions[b.ID] = next
	g.bodies[b.ID] = b
	b.Region = next
}

// Remove fully evicts b from the grid, decrementing every pair refcount
// it was contributing to.
func (g *Grid) Remove(b *body.Body) {
	region, ok := g.regions[b.ID]
	if !ok {
		return
	}
	g.removeFromRegion(b.ID, region)
	delete(g.regions, b.ID)
	delete(g.bodies, b.ID)
}

func (g *Grid) insertIntoRegion(id uint64, r body.Region) {
	for x := r.MinX; x <= r.MaxX; x++ {
		for y := r.MinY; y <= r.MaxY; y++ {
			key := cellKey{x, y}
			occupants := g.cells[key]
			for _, other := range occupants {
				g.incPair(id, other)
			}
			g.cells[key] = append(occupants, id)
		}
	}
}

func (g *Grid) removeFromRegion(id uint64, r body.Region) {
	for x := r.MinX; x <= r.MaxX; x++ {
		for y := r.MinY; y <= r.MaxY; y++ {
			key := cellKey{x, y}
			occupants := g.cells[key]
			idx := -1
			for i, v := range occupants {
				if v == id {
					idx = i
					break
				}
			}
			if idx < 0 {
				continue
			}
			occupants = append(occupants[:idx], occupants[idx+1:]...)
			if len(occupants) == 0 {
				delete(g.cells, key)
			} else {
				g.cells[key] = occupants
			}
			for _, other := range occupants {
				g.decPair(id, other)
			}
		}
	}
}

func (g *Grid) incPair(a, b uint64) {
	if a == b {
		return
	}
	g.pairRefs[newPairKey(a, b)]++
}

func (g *Grid) decPair(a, b uint64) {
	if a == b {
		return
	}
	key := newPairKey(a, b)
	g.pairRefs[key]--
	if g.pairRefs[key] <= 0 {
		delete(g.pairRefs, key)
	}
}

// Pairs returns every candidate pair with a positive refcount, except
// pairs of two static bodies, of two sleeping bodies, or whose collision
// filters rule out a collision, ordered
// deterministically by (lower id, higher id) so downstream consumers
// (the pair cache) see a stable iteration order.
func (g *Grid) Pairs() []PairCandidate {
	out := make([]PairCandidate, 0, len(g.pairRefs))
	for k := range g.pairRefs {
		a, b := g.bodies[k.A], g.bodies[k.B]
		if a == nil || b == nil {
			continue
		}
		if a.IsStatic && b.IsStatic {
			continue
		}
		if a.IsSleeping && b.IsSleeping {
			continue
		}
		if !body.CanCollide(a.Filter, b.Filter) {
			continue
		}
		out = append(out, PairCandidate{BodyA: a, BodyB: b})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BodyA.ID != out[j].BodyA.ID {
			return out[i].BodyA.ID < out[j].BodyA.ID
		}
		return out[i].BodyB.ID < out[j].BodyB.ID
	})
	return out
}

// PairCandidate is a broadphase-confirmed, as-yet-unverified pair passed
// on to the narrowphase for a precise SAT test.
type PairCandidate struct {
	BodyA, BodyB *body.Body
}
