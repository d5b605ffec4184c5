// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backtrack

import (
	"math/cmplx"

	"github.com/golang/geo/r3"
)

// A trial is feasible when the Beltrami coefficient stays strictly
// inside the unit disk, the embedding stays inside the closed unit
// disk, and the lifted surface is free of self-intersections. The
// magnitude screens run on negated comparisons so a NaN anywhere
// fails them.

// feasible screens the current workspace trial. It consumes no energy
// evaluation; the intersection predicate only runs once both
// magnitude bounds hold.
func (d *searchDriver[I]) feasible() bool {
	ws := d.ws
	if !allAbsBelow(ws.mu, one) || !allAbsWithin(ws.w, one) {
		return false
	}
	if !d.spec.param.CheckSelfIntersections {
		return true
	}
	liftPlane(ws.w, ws.pts)
	return !d.spec.intersect(ws.pts, d.spec.faces)
}

// allAbsBelow reports whether |vᵢ| < bound strictly for all i.
func allAbsBelow(v []complex128, bound float64) bool {
	for _, c := range v {
		if !(cmplx.Abs(c) < bound) {
			return false
		}
	}
	return true
}

// allAbsWithin reports whether |vᵢ| ≤ bound for all i.
func allAbsWithin(v []complex128, bound float64) bool {
	for _, c := range v {
		if !(cmplx.Abs(c) <= bound) {
			return false
		}
	}
	return true
}

// liftPlane writes the planar lift (𝚁𝚎 wᵢ, 𝙸𝚖 wᵢ, 0) into pts.
func liftPlane(w []complex128, pts []r3.Vector) {
	for i, c := range w {
		pts[i] = r3.Vector{X: real(c), Y: imag(c)}
	}
}
