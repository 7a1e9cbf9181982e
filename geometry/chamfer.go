package geometry

import (
	"math"

	"github.com/ionspark/vela2d/vector"
)

// Chamfer replaces each vertex of verts with a rounded arc of the given
// radius, returning a new, denser ring. radii supplies one radius per
// vertex (cycled if shorter than verts); quality is the number of segments
// per arc, or -1 to auto-derive an even quality from the radius per
// spec.md §4.2: clamp(radius^0.32 * 1.75, qmin, qmax), rounded to the
// nearest integer and, if that is odd, raised by one to the next even
// integer.
func Chamfer(verts Vertices, radii []float64, quality float64, qmin, qmax int) Vertices {
	if len(radii) == 0 || len(verts) < 3 {
		return verts.Clone()
	}

	out := make(Vertices, 0, len(verts)*4)
	n := len(verts)

	for i := 0; i < n; i++ {
		prev := verts[(i-1+n)%n]
		cur := verts[i]
		next := verts[(i+1)%n]

		radius := radii[i%len(radii)]
		if radius <= 0 {
			out = append(out, cur)
			continue
		}

		segments := int(quality)
		if quality < 0 {
			segments = autoChamferQuality(radius, qmin, qmax)
		}
		if segments < 1 {
			segments = 1
		}

		toPrev := vector.Normalise(vector.New(prev.X-cur.X, prev.Y-cur.Y))
		toNext := vector.Normalise(vector.New(next.X-cur.X, next.Y-cur.Y))

		startAngle := math.Atan2(toPrev[1], toPrev[0])
		endAngle := math.Atan2(toNext[1], toNext[0])

		// Walk the short way around from the prev-facing direction to the
		// next-facing direction.
		delta := endAngle - startAngle
		for delta <= -math.Pi {
			delta += 2 * math.Pi
		}
		for delta > math.Pi {
			delta -= 2 * math.Pi
		}

		// Arc centre is pulled inward along the angle bisector so the arc
		// is tangent to both adjacent edges.
		half := delta / 2
		bisector := startAngle + half
		inset := radius / math.Cos(half)
		if math.IsInf(inset, 0) || math.IsNaN(inset) {
			inset = radius
		}
		centre := vector.New(cur.X+math.Cos(bisector)*inset, cur.Y+math.Sin(bisector)*inset)

		for s := 0; s <= segments; s++ {
			t := float64(s) / float64(segments)
			angle := startAngle + delta*t
			out = append(out, Vertex{
				X:      centre[0] - math.Cos(angle)*radius,
				Y:      centre[1] - math.Sin(angle)*radius,
				BodyID: cur.BodyID,
			})
		}
	}

	for i := range out {
		out[i].Index = i + 1
	}
	return out
}

func autoChamferQuality(radius float64, qmin, qmax int) int {
	q := math.Pow(radius, 0.32) * 1.75
	if q < float64(qmin) {
		q = float64(qmin)
	}
	if q > float64(qmax) {
		q = float64(qmax)
	}
	rounded := int(math.Round(q))
	if rounded%2 != 0 {
		rounded++
	}
	return rounded
}
