// Package composite implements the tree container that groups bodies,
// constraints and nested composites into a single movable, addable,
// removable unit (spec.md §4.6).
package composite

import (
	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/constraint"
	"github.com/ionspark/vela2d/entity"
	"github.com/ionspark/vela2d/vector"
)

// Composite groups bodies, constraints and sub-composites under one
// label. IsModified is set whenever the tree's membership changes and is
// cleared by the engine after it re-derives broadphase/solver working
// sets from the flattened tree.
type Composite struct {
	ID    uint64
	Label string

	Parent *Composite

	Bodies      []*body.Body
	Constraints []*constraint.Constraint
	Composites  []*Composite

	IsModified bool
}

func (c *Composite) EntityID() uint64        { return c.ID }
func (c *Composite) EntityKind() entity.Kind { return entity.KindComposite }

// New creates an empty composite.
func New(label string, ids *entity.IDAllocator) *Composite {
	return &Composite{ID: ids.Next(), Label: label}
}

// Add inserts one or more entities (bodies, constraints or composites)
// into c, tagging c as modified. Unrecognised entity kinds are ignored.
func Add(c *Composite, items ...entity.Entity) {
	for _, it := range items {
		switch v := it.(type) {
		case *body.Body:
			c.Bodies = append(c.Bodies, v)
		case *constraint.Constraint:
			c.Constraints = append(c.Constraints, v)
		case *Composite:
			v.Parent = c
			c.Composites = append(c.Composites, v)
		}
	}
	c.setModified(true)
}

// Remove deletes one or more entities from c (searching only c's direct
// membership, not nested composites), tagging c as modified if anything
// was actually removed.
func Remove(c *Composite, items ...entity.Entity) {
	removed := false
	for _, it := range items {
		switch v := it.(type) {
		case *body.Body:
			if idx := indexOfBody(c.Bodies, v); idx >= 0 {
				c.Bodies = append(c.Bodies[:idx], c.Bodies[idx+1:]...)
				removed = true
			}
		case *constraint.Constraint:
			if idx := indexOfConstraint(c.Constraints, v); idx >= 0 {
				c.Constraints = append(c.Constraints[:idx], c.Constraints[idx+1:]...)
				removed = true
			}
		case *Composite:
			if idx := indexOfComposite(c.Composites, v); idx >= 0 {
				c.Composites = append(c.Composites[:idx], c.Composites[idx+1:]...)
				v.Parent = nil
				removed = true
			}
		}
	}
	if removed {
		c.setModified(true)
	}
}

func indexOfBody(list []*body.Body, target *body.Body) int {
	for i, b := range list {
		if b == target {
			return i
		}
	}
	return -1
}

func indexOfConstraint(list []*constraint.Constraint, target *constraint.Constraint) int {
	for i, cn := range list {
		if cn == target {
			return i
		}
	}
	return -1
}

func indexOfComposite(list []*Composite, target *Composite) int {
	for i, sub := range list {
		if sub == target {
			return i
		}
	}
	return -1
}

// setModified tags c as modified and, if propagate is true, walks up to
// the parent so a change deep in the tree is visible from the root
// without a full re-walk every engine step.
func (c *Composite) setModified(propagate bool) {
	c.IsModified = true
	if propagate && c.Parent != nil {
		c.Parent.setModified(true)
	}
}

// SetModified directly assigns c.IsModified without touching the parent
// chain. Engine.Step calls this with false on the root once it has
// flattened the tree for the step; calling it repeatedly with the same
// flag is idempotent.
func (c *Composite) SetModified(flag bool) {
	c.IsModified = flag
}

// Clear empties c's membership. If keepStatic is true, static bodies are
// retained. If deep is true, nested composites are cleared recursively
// and then removed too; otherwise they are detached as-is.
func Clear(c *Composite, keepStatic, deep bool) {
	if keepStatic {
		kept := c.Bodies[:0:0]
		for _, b := range c.Bodies {
			if b.IsStatic {
				kept = append(kept, b)
			}
		}
		c.Bodies = kept
	} else {
		c.Bodies = nil
	}

	c.Constraints = nil

	if deep {
		for _, sub := range c.Composites {
			Clear(sub, keepStatic, true)
		}
	}
	c.Composites = nil

	c.setModified(true)
}

// AllBodies flattens c and every nested composite's bodies into one slice.
func AllBodies(c *Composite) []*body.Body {
	out := append([]*body.Body{}, c.Bodies...)
	for _, sub := range c.Composites {
		out = append(out, AllBodies(sub)...)
	}
	return out
}

// AllConstraints flattens c and every nested composite's constraints.
func AllConstraints(c *Composite) []*constraint.Constraint {
	out := append([]*constraint.Constraint{}, c.Constraints...)
	for _, sub := range c.Composites {
		out = append(out, AllConstraints(sub)...)
	}
	return out
}

// AllComposites returns c, then every nested composite, depth-first.
func AllComposites(c *Composite) []*Composite {
	out := []*Composite{c}
	for _, sub := range c.Composites {
		out = append(out, AllComposites(sub)...)
	}
	return out
}

// Translate shifts every body directly and transitively owned by c by
// delta (constraints follow implicitly since they reference body
// positions, not copies).
func Translate(c *Composite, delta vector.Vector) {
	for _, b := range AllBodies(c) {
		b.Translate(delta)
	}
}

// Rotate rotates every body owned by c by angle about point.
func Rotate(c *Composite, angle float64, point vector.Vector) {
	for _, b := range AllBodies(c) {
		offset := vector.Sub(b.Position, point)
		b.SetPosition(vector.Add(point, vector.Rotate(offset, angle)))
		b.Rotate(angle)
	}
}

// Scale scales every body owned by c about point.
func Scale(c *Composite, scaleX, scaleY float64, point vector.Vector) {
	for _, b := range AllBodies(c) {
		offset := vector.Sub(b.Position, point)
		b.SetPosition(vector.New(point[0]+offset[0]*scaleX, point[1]+offset[1]*scaleY))
		b.Scale(scaleX, scaleY)
	}
}

// Move is an alias for Translate, under the name the construction API
// (spec.md §6) gives the operation.
func Move(c *Composite, delta vector.Vector) {
	Translate(c, delta)
}
