package sim

import "math"

// AABB is an axis-aligned bounding volume. X/Y span the ground plane,
// Z is height above it (MinZ is ground level for every building).
type AABB struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// Center returns the volume's midpoint.
func (a AABB) Center() (x, y, z float64) {
	return (a.MinX + a.MaxX) / 2, (a.MinY + a.MaxY) / 2, (a.MinZ + a.MaxZ) / 2
}

// ClosestXY returns the point on the ground-plane rectangle nearest to (x,y).
// A point inside the rectangle maps to itself.
func (a AABB) ClosestXY(x, y float64) (cx, cy float64) {
	return clamp(x, a.MinX, a.MaxX), clamp(y, a.MinY, a.MaxY)
}

// ContainsXY reports whether (x,y) lies inside the ground-plane rectangle.
func (a AABB) ContainsXY(x, y float64) bool {
	return x >= a.MinX && x <= a.MaxX && y >= a.MinY && y <= a.MaxY
}

// OverlapsXY reports whether two ground-plane rectangles intersect.
func (a AABB) OverlapsXY(b AABB) bool {
	return a.MinX <= b.MaxX && a.MaxX >= b.MinX && a.MinY <= b.MaxY && a.MaxY >= b.MinY
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeAngle wraps an angle to [-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// HeadingTo returns the angle in radians from (ox,oy) toward (tx,ty).
func HeadingTo(ox, oy, tx, ty float64) float64 {
	return math.Atan2(ty-oy, tx-ox)
}

func dist2D(ax, ay, bx, by float64) float64 {
	dx := bx - ax
	dy := by - ay
	return math.Sqrt(dx*dx + dy*dy)
}
