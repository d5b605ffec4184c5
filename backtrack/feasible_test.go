// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backtrack

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
)

func TestAbsScreens(t *testing.T) {

	nan := complex(math.NaN(), 0)
	inf := complex(math.Inf(1), 0)

	tests := []struct {
		name  string
		v     []complex128
		below bool // all |vᵢ| < 1
		with  bool // all |vᵢ| ≤ 1
	}{
		{"empty", nil, true, true},
		{"interior", []complex128{0, 0.5i, -0.3 + 0.4i}, true, true},
		{"unit entry", []complex128{0.5, 1}, false, true},
		{"unit magnitude", []complex128{0.6 + 0.8i}, false, true},
		{"outside", []complex128{1.2}, false, false},
		{"nan", []complex128{0.1, nan}, false, false},
		{"inf", []complex128{inf}, false, false},
		{"nan imaginary", []complex128{complex(0, math.NaN())}, false, false},
	}

	for _, tt := range tests {
		if got := allAbsBelow(tt.v, one); got != tt.below {
			t.Errorf("TestAbsScreens %s: allAbsBelow got %v want %v", tt.name, got, tt.below)
		}
		if got := allAbsWithin(tt.v, one); got != tt.with {
			t.Errorf("TestAbsScreens %s: allAbsWithin got %v want %v", tt.name, got, tt.with)
		}
	}
}

func TestLiftPlane(t *testing.T) {
	w := []complex128{0.5 + 0.25i, -1i, 2}
	pts := make([]r3.Vector, 3)
	liftPlane(w, pts)
	want := []r3.Vector{
		{X: 0.5, Y: 0.25},
		{Y: -1},
		{X: 2},
	}
	if diff := cmp.Diff(want, pts); diff != "" {
		t.Fatalf("TestLiftPlane: lift mismatch\n%s", diff)
	}
}

func TestFeasibleShortCircuit(t *testing.T) {

	calls := 0
	spec := &searchSpec[int]{
		n:     3,
		faces: [][3]int{{0, 1, 2}},
		param: Param{CheckSelfIntersections: true},
		intersect: func(pts []r3.Vector, faces [][3]int) bool {
			calls++
			return false
		},
	}
	ws := &Workspace{
		n:   3,
		mu:  []complex128{1.5, 0, 0},
		w:   []complex128{0, 0.5, 0.5i},
		pts: make([]r3.Vector, 3),
	}
	d := &searchDriver[int]{spec: spec, ws: ws}

	// The distortion bound fails first; the predicate must not run.
	switch {
	case d.feasible():
		t.Fatal("TestFeasibleShortCircuit: distortion bound ignored")
	case calls != 0:
		t.Fatal("TestFeasibleShortCircuit: predicate ran on infeasible magnitudes")
	}

	ws.mu[0] = 0
	switch {
	case !d.feasible():
		t.Fatal("TestFeasibleShortCircuit: clean trial rejected")
	case calls != 1:
		t.Fatal("TestFeasibleShortCircuit: predicate skipped")
	}

	// Disabling the check skips the predicate entirely.
	spec.param.CheckSelfIntersections = false
	if !d.feasible() || calls != 1 {
		t.Fatal("TestFeasibleShortCircuit: disabled check still ran predicate")
	}

	// An intersecting lift is infeasible.
	spec.param.CheckSelfIntersections = true
	spec.intersect = func(pts []r3.Vector, faces [][3]int) bool { return true }
	if d.feasible() {
		t.Fatal("TestFeasibleShortCircuit: intersecting trial accepted")
	}
}
