// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import "github.com/golang/geo/r3"

// Two faces self-intersect when their point sets share more than the
// simplex spanned by their common vertex indices: anything beyond the
// empty set for disjoint faces, beyond the shared vertex for
// vertex-adjacent faces, beyond the shared edge for edge-adjacent
// faces. The tests below decide this with orientation predicates only;
// no intermediate point is ever constructed, so the exact fallback in
// predicate.go keeps every branch reliable.

// trianglesIntersect reports whether two faces intersect beyond their
// shared simplex, and whether they are coplanar. The vertices are
// ordered so the first `shared` entries of ta and tb coincide. Both
// faces must be non-degenerate.
func trianglesIntersect(ta, tb [3]r3.Vector, shared int) (hit, coplanar bool) {
	switch shared {
	case 2:
		return foldOver(ta, tb)
	case 1:
		return coneOverlap(ta, tb)
	default:
		return disjointOverlap(ta, tb)
	}
}

// foldOver handles edge-adjacent faces (e₁,e₂,c) and (e₁,e₂,d). When
// the faces span distinct planes their intersection is exactly the
// shared edge. In a common plane the faces overlap iff c and d lie
// strictly on the same side of the edge: the configuration produced
// when a mapping folds one face back across the other.
func foldOver(ta, tb [3]r3.Vector) (hit, coplanar bool) {
	if orient3(ta[0], ta[1], ta[2], tb[2]) != 0 {
		return false, false
	}
	return orientRef(ta[0], ta[1], tb[2], ta) > 0, true
}

// coneOverlap handles vertex-adjacent faces (v,p₁,p₂) and (v,q₁,q₂).
// Both point sets are convex and contain v, so their intersection
// exceeds {v} iff the tangent wedges at v admit a common direction of
// positive extent.
func coneOverlap(ta, tb [3]r3.Vector) (hit, coplanar bool) {
	if orient3(ta[0], ta[1], ta[2], tb[1]) == 0 && orient3(ta[0], ta[1], ta[2], tb[2]) == 0 {
		// One plane: the wedges overlap beyond v iff a boundary ray of
		// one lies inside the closed wedge of the other.
		hit = rayInWedge(tb[1], ta) || rayInWedge(tb[2], ta) ||
			rayInWedge(ta[1], tb) || rayInWedge(ta[2], tb)
		return hit, true
	}
	// Distinct planes: any common direction lies along u = n₁×n₂, so
	// only ±u can sit inside both wedges.
	hit = dirInWedges(ta, tb, 1) || dirInWedges(ta, tb, -1)
	return hit, false
}

// rayInWedge reports whether the direction t[0]→p lies inside the
// closed wedge of face t at its first vertex, for p coplanar with t.
func rayInWedge(p r3.Vector, t [3]r3.Vector) bool {
	return orientRef(t[0], t[1], p, t) >= 0 && orientRef(t[0], p, t[2], t) >= 0
}

// dirInWedges reports whether s·(n₁×n₂) lies inside the closed wedges
// of both faces at the shared vertex.
func dirInWedges(ta, tb [3]r3.Vector, s int) bool {
	if s*coneSign(ta[0], ta[1], ta, tb) < 0 || s*coneSign(ta[0], ta[2], ta, tb) > 0 {
		return false
	}
	// n₁×n₂ seen from face b is the negated n₂×n₁.
	return s*coneSign(tb[0], tb[1], tb, ta) <= 0 && s*coneSign(tb[0], tb[2], tb, ta) >= 0
}

// disjointOverlap handles faces with no shared vertex index. Any
// common point counts, including touching contact: a coincidence of
// coordinates between distinct indices is a collapsed region of the
// surface, not shared connectivity.
func disjointOverlap(ta, tb [3]r3.Vector) (hit, coplanar bool) {
	var sb [3]int
	for i := range tb {
		sb[i] = orient3(ta[0], ta[1], ta[2], tb[i])
	}
	if sb[0] == 0 && sb[1] == 0 && sb[2] == 0 {
		return coplanarOverlap(ta, tb), true
	}
	if sb[0] > 0 && sb[1] > 0 && sb[2] > 0 || sb[0] < 0 && sb[1] < 0 && sb[2] < 0 {
		return false, false
	}
	var sa [3]int
	for i := range ta {
		sa[i] = orient3(tb[0], tb[1], tb[2], ta[i])
	}
	if sa[0] > 0 && sa[1] > 0 && sa[2] > 0 || sa[0] < 0 && sa[1] < 0 && sa[2] < 0 {
		return false, false
	}
	// A nonempty intersection of non-coplanar triangles has a boundary
	// point on some edge, so edge-versus-triangle tests are complete.
	for i := 0; i < 3; i++ {
		if segTriangle(ta[i], ta[(i+1)%3], tb) || segTriangle(tb[i], tb[(i+1)%3], ta) {
			return true, false
		}
	}
	return false, false
}

// segTriangle reports whether segment ab meets triangle t in at least
// one point.
func segTriangle(a, b r3.Vector, t [3]r3.Vector) bool {
	sa := orient3(t[0], t[1], t[2], a)
	sb := orient3(t[0], t[1], t[2], b)
	switch {
	case sa == 0 && sb == 0:
		return segTriangle2(a, b, t)
	case sa == 0:
		return pointInTriangle2(a, t)
	case sb == 0:
		return pointInTriangle2(b, t)
	case sa == sb:
		return false
	}
	// The endpoints straddle the plane; the crossing lands inside the
	// triangle iff the line ab passes every edge on a consistent side.
	s1 := orient3(a, b, t[0], t[1])
	s2 := orient3(a, b, t[1], t[2])
	s3 := orient3(a, b, t[2], t[0])
	return s1 >= 0 && s2 >= 0 && s3 >= 0 || s1 <= 0 && s2 <= 0 && s3 <= 0
}

// segTriangle2 tests a segment lying in the plane of triangle t.
func segTriangle2(a, b r3.Vector, t [3]r3.Vector) bool {
	if pointInTriangle2(a, t) || pointInTriangle2(b, t) {
		return true
	}
	for i := 0; i < 3; i++ {
		if segmentsCross(a, b, t[i], t[(i+1)%3], t) {
			return true
		}
	}
	return false
}

// coplanarOverlap tests two triangles lying in a common plane.
func coplanarOverlap(ta, tb [3]r3.Vector) bool {
	for i := range tb {
		if pointInTriangle2(tb[i], ta) {
			return true
		}
	}
	for i := range ta {
		if pointInTriangle2(ta[i], tb) {
			return true
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if segmentsCross(ta[i], ta[(i+1)%3], tb[j], tb[(j+1)%3], ta) {
				return true
			}
		}
	}
	return false
}

// pointInTriangle2 reports closed containment of p in triangle t, for
// p coplanar with t.
func pointInTriangle2(p r3.Vector, t [3]r3.Vector) bool {
	return orientRef(t[0], t[1], p, t) >= 0 &&
		orientRef(t[1], t[2], p, t) >= 0 &&
		orientRef(t[2], t[0], p, t) >= 0
}

// segmentsCross reports whether coplanar segments ab and cd share a
// point. Orientations are measured against the plane of ref.
func segmentsCross(a, b, c, d r3.Vector, ref [3]r3.Vector) bool {
	o1 := orientRef(a, b, c, ref)
	o2 := orientRef(a, b, d, ref)
	o3 := orientRef(c, d, a, ref)
	o4 := orientRef(c, d, b, ref)
	if o1*o2 < 0 && o3*o4 < 0 {
		return true
	}
	switch {
	case o1 == 0 && onSegment(a, b, c):
		return true
	case o2 == 0 && onSegment(a, b, d):
		return true
	case o3 == 0 && onSegment(c, d, a):
		return true
	case o4 == 0 && onSegment(c, d, b):
		return true
	}
	return false
}

// onSegment reports whether p, already collinear with ab, lies between
// a and b. Pure coordinate comparisons, no arithmetic.
func onSegment(a, b, p r3.Vector) bool {
	return between(a.X, b.X, p.X) && between(a.Y, b.Y, p.Y) && between(a.Z, b.Z, p.Z)
}

func between(a, b, p float64) bool {
	return min(a, b) <= p && p <= max(a, b)
}

// degenerate reports whether a face has collinear (or coincident)
// vertices: all three coordinate projections of its normal vanish.
func degenerate(t [3]r3.Vector) bool {
	return orient2(t[0].Y, t[0].Z, t[1].Y, t[1].Z, t[2].Y, t[2].Z) == 0 &&
		orient2(t[0].Z, t[0].X, t[1].Z, t[1].X, t[2].Z, t[2].X) == 0 &&
		orient2(t[0].X, t[0].Y, t[1].X, t[1].Y, t[2].X, t[2].Y) == 0
}
