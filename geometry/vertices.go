package geometry

import (
	"math"
	"sort"
	"strconv"

	"github.com/ionspark/vela2d/vector"
)

// Area returns the polygon's area via the shoelace formula. Unless signed
// is true, the absolute value is returned.
func Area(verts Vertices, signed bool) float64 {
	sum := 0.0
	n := len(verts)
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	area := sum / 2
	if signed {
		return area
	}
	return math.Abs(area)
}

// Centre returns the area-weighted centroid of the polygon (not the mean
// of its vertices) via the cross-product shoelace formula.
func Centre(verts Vertices) vector.Vector {
	n := len(verts)
	if n == 0 {
		return vector.Zero
	}

	var cx, cy, areaSum float64
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		cross := a.X*b.Y - b.X*a.Y
		areaSum += cross
		cx += (a.X + b.X) * cross
		cy += (a.Y + b.Y) * cross
	}

	if math.Abs(areaSum) < 1e-12 {
		// Degenerate polygon: fall back to the vertex mean.
		for _, v := range verts {
			cx += v.X
			cy += v.Y
		}
		return vector.New(cx/float64(n), cy/float64(n))
	}

	factor := 1.0 / (3.0 * areaSum)
	return vector.New(cx*factor, cy*factor)
}

// Inertia computes the polygon's second moment of area scaled to the given
// mass via the Bourke formula. verts must be expressed relative to the
// body's own origin (i.e. already centred).
func Inertia(verts Vertices, mass float64) float64 {
	n := len(verts)
	if n == 0 {
		return 0
	}

	var numerator, denominator float64
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		cross := math.Abs(a.X*b.Y - b.X*a.Y)

		numerator += cross * (a.X*a.X + a.X*b.X + b.X*b.X + a.Y*a.Y + a.Y*b.Y + b.Y*b.Y)
		denominator += cross
	}

	if denominator == 0 {
		return 0
	}

	return (mass / 6.0) * (numerator / denominator)
}

// Translate shifts every vertex of verts by delta, in place.
func Translate(verts Vertices, delta vector.Vector) {
	for i := range verts {
		verts[i].X += delta[0]
		verts[i].Y += delta[1]
	}
}

// Rotate rotates every vertex of verts by angle about point, in place.
func Rotate(verts Vertices, angle float64, point vector.Vector) {
	c, s := math.Cos(angle), math.Sin(angle)
	for i := range verts {
		dx := verts[i].X - point[0]
		dy := verts[i].Y - point[1]
		verts[i].X = point[0] + dx*c - dy*s
		verts[i].Y = point[1] + dx*s + dy*c
	}
}

// Scale scales every vertex of verts about point by (scaleX, scaleY), in
// place.
func Scale(verts Vertices, scaleX, scaleY float64, point vector.Vector) {
	for i := range verts {
		verts[i].X = point[0] + (verts[i].X-point[0])*scaleX
		verts[i].Y = point[1] + (verts[i].Y-point[1])*scaleY
	}
}

// Contains reports whether point lies on the inside of every edge of the
// clockwise-ordered ring verts (a half-plane test per edge).
func Contains(verts Vertices, point vector.Vector) bool {
	n := len(verts)
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]

		// Clockwise ring: "inside" is to the right of each directed edge,
		// i.e. the cross product of (point-a) and the edge must be <= 0.
		if (point[0]-a.X)*(b.Y-a.Y)-(point[1]-a.Y)*(b.X-a.X) > 0 {
			return false
		}
	}
	return true
}

// ClockwiseSort reorders verts in place by angle around their mean point.
// Screen-space y-down convention makes this produce a clockwise ring, as
// used throughout the core.
func ClockwiseSort(verts Vertices) {
	if len(verts) == 0 {
		return
	}
	var mx, my float64
	for _, v := range verts {
		mx += v.X
		my += v.Y
	}
	mx /= float64(len(verts))
	my /= float64(len(verts))

	sort.Slice(verts, func(i, j int) bool {
		ai := math.Atan2(verts[i].Y-my, verts[i].X-mx)
		aj := math.Atan2(verts[j].Y-my, verts[j].X-mx)
		return ai < aj
	})
}

// IsConvex reports whether verts describes a convex polygon. It returns
// nil for fewer than 3 vertices or when all cross products vanish
// (degenerate polygon).
func IsConvex(verts Vertices) *bool {
	n := len(verts)
	if n < 3 {
		return nil
	}

	var sawPositive, sawNegative bool
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		c := verts[(i+2)%n]

		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if cross > 1e-12 {
			sawPositive = true
		} else if cross < -1e-12 {
			sawNegative = true
		}
	}

	if !sawPositive && !sawNegative {
		return nil
	}
	result := sawPositive != sawNegative
	return &result
}

// Hull returns the convex hull of points in clockwise order, via Andrew's
// monotone chain algorithm.
func Hull(points []vector.Vector) []vector.Vector {
	pts := make([]vector.Vector, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})
	pts = dedupPoints(pts)
	if len(pts) < 3 {
		return pts
	}

	cross := func(o, a, b vector.Vector) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	// Build lower and upper chains; for a clockwise result in a y-down
	// coordinate system we build the lower (by x) chain keeping left
	// turns, matching the teacher-free monotone-chain textbook algorithm.
	n := len(pts)
	hull := make([]vector.Vector, 0, 2*n)

	for i := 0; i < n; i++ {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], pts[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pts[i])
	}

	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], pts[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pts[i])
	}

	hull = hull[:len(hull)-1]

	// The chain above is counter-clockwise in standard (y-up) orientation,
	// which is the clockwise y-down winding ClockwiseSort, Contains and
	// the body factories use.
	return hull
}

func dedupPoints(pts []vector.Vector) []vector.Vector {
	out := pts[:0:0]
	for i, p := range pts {
		if i > 0 && p[0] == pts[i-1][0] && p[1] == pts[i-1][1] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FromPath parses a whitespace/comma separated "x y" pair list, with an
// optional leading "L" token, into raw points.
func FromPath(path string) []vector.Vector {
	fields := make([]string, 0, 32)
	cur := make([]byte, 0, 16)
	flush := func() {
		if len(cur) > 0 {
			fields = append(fields, string(cur))
			cur = cur[:0]
		}
	}
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		default:
			cur = append(cur, c)
		}
	}
	flush()

	if len(fields) > 0 && (fields[0] == "L" || fields[0] == "l") {
		fields = fields[1:]
	}

	points := make([]vector.Vector, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		x, errX := strconv.ParseFloat(fields[i], 64)
		y, errY := strconv.ParseFloat(fields[i+1], 64)
		if errX != nil || errY != nil {
			continue
		}
		points = append(points, vector.New(x, y))
	}
	return points
}
