// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backtrack

import (
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"
)

// buildCandidate writes the trial fields for step λ into the
// workspace buffers:
//
//	𝐱 = 𝐱ₚ + λ·𝐝𝐱
//	𝐰 = 𝐰ₚ + λ·𝐝𝐰
//
// after which boundary vertices are clipped back onto the unit circle
// and pinned vertices are restored to their base values. Pinning runs
// last and overrides the clip. The base slices are read only.
func (d *searchDriver[I]) buildCandidate(step float64) {
	ws := d.ws
	floats.AddScaledTo(ws.x, d.base.X, step, d.dir.X)
	cmplxs.AddScaledTo(ws.w, d.base.W, complex(step, 0), d.dir.W)
	ClipToUnitCircle(d.spec.boundary, ws.w)
	for _, i := range d.spec.fixed {
		ws.w[i] = d.base.W[i]
	}
}

// ClipToUnitCircle projects the given entries of w onto the unit
// circle in place. A zero entry divides to a non-finite value, which
// the feasibility screen rejects; clipping never invents a direction
// for it.
func ClipToUnitCircle[I Index](boundary []I, w []complex128) {
	for _, i := range boundary {
		w[i] /= complex(cmplx.Abs(w[i]), 0)
	}
}
