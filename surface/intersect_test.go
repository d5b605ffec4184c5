// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// quad builds the unit square split along its diagonal, with the last
// vertex movable to fold the second face across the first.
func quad(last r3.Vector) ([]r3.Vector, [][3]int) {
	pts := []r3.Vector{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, last,
	}
	return pts, [][3]int{{0, 1, 2}, {0, 2, 3}}
}

func TestIntersectsQuad(t *testing.T) {
	cases := []struct {
		name string
		last r3.Vector
		want bool
	}{
		{"proper", r3.Vector{X: 0, Y: 1}, false},
		{"folded", r3.Vector{X: 0.9, Y: 0.1}, true},
		{"folded far", r3.Vector{X: 2, Y: -1}, true},
		{"bent", r3.Vector{X: 0, Y: 1, Z: 0.3}, false},
	}
	for _, c := range cases {
		pts, faces := quad(c.last)
		if got := Intersects(pts, faces); got != c.want {
			t.Errorf("TestIntersectsQuad %s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestIntersectsFan(t *testing.T) {
	// A regular hexagon fan is conforming: edge-adjacent faces sit on
	// opposite sides of their shared spokes and the wedges around the
	// center are disjoint.
	pts := []r3.Vector{{X: 0, Y: 0}}
	for k := 0; k < 6; k++ {
		a := 2 * math.Pi * float64(k) / 6
		pts = append(pts, r3.Vector{X: math.Cos(a), Y: math.Sin(a)})
	}
	var faces [][3]int
	for k := 1; k <= 6; k++ {
		next := k%6 + 1
		faces = append(faces, [3]int{0, k, next})
	}
	if Intersects(pts, faces) {
		t.Fatal("TestIntersectsFan: conforming fan reported as self-intersecting")
	}

	// Folding one outer vertex into a neighboring sector breaks it.
	pts[1] = r3.Vector{X: math.Cos(math.Pi / 3), Y: math.Sin(math.Pi/3) + 0.1}
	if !Intersects(pts, faces) {
		t.Fatal("TestIntersectsFan: folded fan not detected")
	}
}

func TestIntersectionsFold(t *testing.T) {
	pts, faces := quad(r3.Vector{X: 0.9, Y: 0.1})
	pairs, coplanar := Intersections(pts, faces)
	diff(t, [][2]int{{0, 1}}, pairs)
	diff(t, []bool{true}, coplanar)
}

func TestIntersectionsPierce(t *testing.T) {
	pts := []r3.Vector{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0.2, Y: 0.2, Z: -1}, {X: 0.2, Y: 0.2, Z: 1}, {X: 2, Y: 2, Z: 0},
	}
	faces := [][3]int{{0, 1, 2}, {3, 4, 5}}
	pairs, coplanar := Intersections(pts, faces)
	diff(t, [][2]int{{0, 1}}, pairs)
	diff(t, []bool{false}, coplanar)
}

func TestIntersectionsOrder(t *testing.T) {
	// Two independently folded quads far apart: the sweep must prune
	// the cross pairs and the result comes back lexicographically.
	p1, f1 := quad(r3.Vector{X: 0.9, Y: 0.1})
	p2, _ := quad(r3.Vector{X: 0.9, Y: 0.1})
	var pts []r3.Vector
	pts = append(pts, p1...)
	for _, p := range p2 {
		pts = append(pts, r3.Vector{X: p.X + 100, Y: p.Y, Z: p.Z})
	}
	faces := [][3]int{f1[0], f1[1], {4, 5, 6}, {4, 6, 7}}
	pairs, coplanar := Intersections(pts, faces)
	diff(t, [][2]int{{0, 1}, {2, 3}}, pairs)
	diff(t, []bool{true, true}, coplanar)
}

func TestIntersectsDegenerate(t *testing.T) {
	pts := []r3.Vector{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	faces := [][3]int{{0, 1, 2}}
	if !Intersects(pts, faces) {
		t.Fatal("TestIntersectsDegenerate: collapsed face not detected")
	}
	pairs, coplanar := Intersections(pts, faces)
	diff(t, [][2]int{{0, 0}}, pairs)
	diff(t, []bool{true}, coplanar)
}

func TestIntersectsNonFinite(t *testing.T) {
	pts, faces := quad(r3.Vector{X: 0, Y: math.NaN()})
	if !Intersects(pts, faces) {
		t.Fatal("TestIntersectsNonFinite: NaN coordinate not detected")
	}
}

func TestIntersectsDuplicateFace(t *testing.T) {
	// Faces sharing all three indices are a connectivity defect, not a
	// geometric intersection; they are skipped.
	pts := []r3.Vector{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	faces := [][3]int{{0, 1, 2}, {1, 2, 0}}
	if Intersects(pts, faces) {
		t.Fatal("TestIntersectsDuplicateFace: duplicate connectivity flagged as intersection")
	}
}

func TestIntersectsInt32(t *testing.T) {
	pts := []r3.Vector{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0.9, Y: 0.1},
	}
	faces := [][3]int32{{0, 1, 2}, {0, 2, 3}}
	if !Intersects(pts, faces) {
		t.Fatal("TestIntersectsInt32: fold not detected with int32 connectivity")
	}
}

func TestIntersectsEmpty(t *testing.T) {
	if Intersects(nil, [][3]int{}) {
		t.Fatal("TestIntersectsEmpty: empty surface reported as self-intersecting")
	}
}
