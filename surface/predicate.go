// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"math"
	"math/big"

	"github.com/golang/geo/r3"
)

// Orientation predicates over float64 coordinates.
//
// Every sign decision runs a floating-point fast path guarded by a
// forward error bound on the evaluated polynomial. When the magnitude
// of the result does not clear the bound, the same polynomial is
// re-evaluated in exact rational arithmetic: a float64 converts to a
// big.Rat without loss, so the fallback sign is always correct.
const (
	// epsilon is the double-precision unit roundoff 2⁻⁵³.
	epsilon = 0x1p-53

	// ccwErrBound and o3dErrBound are the static filter constants for
	// the 2-D and 3-D orientation determinants (Shewchuk, Adaptive
	// Precision Floating-Point Arithmetic, 1997). A determinant whose
	// magnitude exceeds bound·permanent carries the exact sign.
	ccwErrBound = (3 + 16*epsilon) * epsilon
	o3dErrBound = (7 + 56*epsilon) * epsilon

	// compositeErrBound guards the degree-4 and degree-5 in-plane
	// predicates. The forward error of those expressions stays below
	// ~2⁻⁴⁶·permanent, so 2⁻³³ never lets a wrong sign through the
	// fast path.
	compositeErrBound = 0x1p-33
)

func sgn(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// orient2 returns the sign of
//
//	│ bx−ax  by−ay │
//	│ cx−ax  cy−ay │
//
// positive when (a,b,c) turn counterclockwise.
func orient2(ax, ay, bx, by, cx, cy float64) int {
	detL := (bx - ax) * (cy - ay)
	detR := (by - ay) * (cx - ax)
	det := detL - detR
	mag := math.Abs(detL) + math.Abs(detR)
	if mag == 0 {
		return 0
	}
	if math.Abs(det) > ccwErrBound*mag {
		return sgn(det)
	}
	var bax, bay, cax, cay, l, r big.Rat
	bax.Sub(rat(bx), rat(ax))
	bay.Sub(rat(by), rat(ay))
	cax.Sub(rat(cx), rat(ax))
	cay.Sub(rat(cy), rat(ay))
	l.Mul(&bax, &cay)
	r.Mul(&bay, &cax)
	return l.Sub(&l, &r).Sign()
}

// orient3 returns the sign of (b−a)·((c−a)×(d−a)): positive when d
// lies on the side of plane (a,b,c) toward which the normal
// (b−a)×(c−a) points, zero when d lies in that plane.
func orient3(a, b, c, d r3.Vector) int {
	ab, ac, ad := b.Sub(a), c.Sub(a), d.Sub(a)
	cx := ac.Y*ad.Z - ac.Z*ad.Y
	cy := ac.Z*ad.X - ac.X*ad.Z
	cz := ac.X*ad.Y - ac.Y*ad.X
	det := ab.X*cx + ab.Y*cy + ab.Z*cz
	mag := math.Abs(ab.X)*(math.Abs(ac.Y*ad.Z)+math.Abs(ac.Z*ad.Y)) +
		math.Abs(ab.Y)*(math.Abs(ac.Z*ad.X)+math.Abs(ac.X*ad.Z)) +
		math.Abs(ab.Z)*(math.Abs(ac.X*ad.Y)+math.Abs(ac.Y*ad.X))
	if mag == 0 {
		return 0
	}
	if math.Abs(det) > o3dErrBound*mag {
		return sgn(det)
	}
	return ratDiff(b, a).dot(ratDiff(c, a).cross(ratDiff(d, a))).Sign()
}

// orientRef returns the orientation of (p,q,r) within the plane of the
// reference face: the sign of ((q−p)×(r−p))·n with n the face normal
// (ref[1]−ref[0])×(ref[2]−ref[0]). For points in that plane this is
// the 2-D orientation measured against n; the reference face itself
// always orients positively.
func orientRef(p, q, r r3.Vector, ref [3]r3.Vector) int {
	pq, pr := q.Sub(p), r.Sub(p)
	e1, e2 := ref[1].Sub(ref[0]), ref[2].Sub(ref[0])
	val := pq.Cross(pr).Dot(e1.Cross(e2))
	mag := magDot(magCross(pq, pr), magCross(e1, e2))
	if mag == 0 {
		return 0
	}
	if math.Abs(val) > compositeErrBound*mag {
		return sgn(val)
	}
	n := ratDiff(ref[1], ref[0]).cross(ratDiff(ref[2], ref[0]))
	return ratDiff(q, p).cross(ratDiff(r, p)).dot(n).Sign()
}

// coneSign orients the wedge edge v→p against the intersection
// direction u = n₁×n₂ of two face planes, within the plane of the
// first face: the sign of ((p−v)×u)·n₁.
func coneSign(v, p r3.Vector, f1, f2 [3]r3.Vector) int {
	d := p.Sub(v)
	e1, e2 := f1[1].Sub(f1[0]), f1[2].Sub(f1[0])
	g1, g2 := f2[1].Sub(f2[0]), f2[2].Sub(f2[0])
	n1 := e1.Cross(e2)
	n2 := g1.Cross(g2)
	u := n1.Cross(n2)
	val := d.Cross(u).Dot(n1)
	m1 := magCross(e1, e2)
	mu := magCross(m1, magCross(g1, g2))
	mag := magDot(magCross(d, mu), m1)
	if mag == 0 {
		return 0
	}
	if math.Abs(val) > compositeErrBound*mag {
		return sgn(val)
	}
	rn1 := ratDiff(f1[1], f1[0]).cross(ratDiff(f1[2], f1[0]))
	rn2 := ratDiff(f2[1], f2[0]).cross(ratDiff(f2[2], f2[0]))
	return ratDiff(p, v).cross(rn1.cross(rn2)).dot(rn1).Sign()
}

// magCross and magDot mirror Cross and Dot with every product summed
// by magnitude, giving the permanent-style bound used by the filters.
// The inputs need not be pre-folded: negative components contribute
// their absolute values.
func magCross(a, b r3.Vector) r3.Vector {
	ax, ay, az := math.Abs(a.X), math.Abs(a.Y), math.Abs(a.Z)
	bx, by, bz := math.Abs(b.X), math.Abs(b.Y), math.Abs(b.Z)
	return r3.Vector{
		X: ay*bz + az*by,
		Y: az*bx + ax*bz,
		Z: ax*by + ay*bx,
	}
}

func magDot(a, b r3.Vector) float64 {
	return math.Abs(a.X)*math.Abs(b.X) +
		math.Abs(a.Y)*math.Abs(b.Y) +
		math.Abs(a.Z)*math.Abs(b.Z)
}

// ratVec is a 3-vector over exact rationals.
type ratVec struct{ x, y, z big.Rat }

func rat(f float64) *big.Rat { return new(big.Rat).SetFloat64(f) }

// ratDiff returns a−b componentwise, exactly.
func ratDiff(a, b r3.Vector) *ratVec {
	v := new(ratVec)
	v.x.Sub(rat(a.X), rat(b.X))
	v.y.Sub(rat(a.Y), rat(b.Y))
	v.z.Sub(rat(a.Z), rat(b.Z))
	return v
}

func (v *ratVec) cross(w *ratVec) *ratVec {
	var s, t big.Rat
	c := new(ratVec)
	c.x.Sub(s.Mul(&v.y, &w.z), t.Mul(&v.z, &w.y))
	c.y.Sub(s.Mul(&v.z, &w.x), t.Mul(&v.x, &w.z))
	c.z.Sub(s.Mul(&v.x, &w.y), t.Mul(&v.y, &w.x))
	return c
}

func (v *ratVec) dot(w *ratVec) *big.Rat {
	var t big.Rat
	s := new(big.Rat)
	s.Add(s, t.Mul(&v.x, &w.x))
	s.Add(s, t.Mul(&v.y, &w.y))
	s.Add(s, t.Mul(&v.z, &w.z))
	return s
}
