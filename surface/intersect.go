// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"cmp"
	"math"
	"slices"

	"github.com/golang/geo/r3"
)

// Index constrains the vertex index width of face connectivity.
type Index interface {
	~int | ~int32 | ~int64
}

// Intersects reports whether a triangulated surface intersects itself.
//
// Two faces intersect when their point sets share more than the
// simplex spanned by their common vertex indices, so a conforming mesh
// sharing edges and vertices through its connectivity is clean, while
// folds, pierces, overlaps and touching contact between unrelated
// faces are all detected. A face with collinear vertices is a
// collapsed element and makes the surface self-intersecting on its
// own, as does any non-finite coordinate. Faces duplicating all three
// indices are connectivity defects outside this package's concern and
// are skipped.
//
// The scan prunes face pairs with a sweep over axis-aligned bounding
// boxes and stops at the first offending pair.
func Intersects[I Index](pts []r3.Vector, faces [][3]I) bool {
	return scan(pts, faces, nil)
}

// Intersections collects every intersecting face pair, in
// lexicographic order, along with a parallel flag marking the pairs
// that lie in a common plane. A collapsed or non-finite face i is
// reported as the pair (i, i).
func Intersections[I Index](pts []r3.Vector, faces [][3]I) (pairs [][2]int, coplanar []bool) {
	type rec struct {
		pair [2]int
		cop  bool
	}
	var recs []rec
	scan(pts, faces, func(i, j int, cop bool) {
		recs = append(recs, rec{[2]int{i, j}, cop})
	})
	slices.SortFunc(recs, func(a, b rec) int {
		if c := cmp.Compare(a.pair[0], b.pair[0]); c != 0 {
			return c
		}
		return cmp.Compare(a.pair[1], b.pair[1])
	})
	for _, r := range recs {
		pairs = append(pairs, r.pair)
		coplanar = append(coplanar, r.cop)
	}
	return pairs, coplanar
}

// faceBox is the axis-aligned bounding box of one face.
type faceBox struct {
	face          int
	lox, loy, loz float64
	hix, hiy, hiz float64
}

func (b *faceBox) overlaps(o *faceBox) bool {
	return b.loy <= o.hiy && o.loy <= b.hiy && b.loz <= o.hiz && o.loz <= b.hiz
}

func boxOf(i int, t [3]r3.Vector) (faceBox, bool) {
	b := faceBox{
		face: i,
		lox:  min(t[0].X, t[1].X, t[2].X),
		loy:  min(t[0].Y, t[1].Y, t[2].Y),
		loz:  min(t[0].Z, t[1].Z, t[2].Z),
		hix:  max(t[0].X, t[1].X, t[2].X),
		hiy:  max(t[0].Y, t[1].Y, t[2].Y),
		hiz:  max(t[0].Z, t[1].Z, t[2].Z),
	}
	span := b.hix - b.lox + b.hiy - b.loy + b.hiz - b.loz
	return b, !math.IsNaN(span) && !math.IsInf(span, 0)
}

// scan runs the sweep. With a nil report it returns at the first hit;
// otherwise it reports every hit and returns whether any occurred.
func scan[I Index](pts []r3.Vector, faces [][3]I, report func(i, j int, coplanar bool)) bool {
	tri := func(f [3]I, p [3]int) [3]r3.Vector {
		return [3]r3.Vector{pts[f[p[0]]], pts[f[p[1]]], pts[f[p[2]]]}
	}
	whole := [3]int{0, 1, 2}

	found := false
	boxes := make([]faceBox, 0, len(faces))
	for i, f := range faces {
		b, finite := boxOf(i, tri(f, whole))
		if !finite || degenerate(tri(f, whole)) {
			if report == nil {
				return true
			}
			found = true
			report(i, i, true)
			continue
		}
		boxes = append(boxes, b)
	}

	slices.SortFunc(boxes, func(a, b faceBox) int {
		return cmp.Compare(a.lox, b.lox)
	})
	for i := range boxes {
		for j := i + 1; j < len(boxes) && boxes[j].lox <= boxes[i].hix; j++ {
			if !boxes[i].overlaps(&boxes[j]) {
				continue
			}
			fa, fb := boxes[i].face, boxes[j].face
			pa, pb, shared := sharedVertices(faces[fa], faces[fb])
			if shared == 3 {
				continue
			}
			hit, cop := trianglesIntersect(tri(faces[fa], pa), tri(faces[fb], pb), shared)
			if !hit {
				continue
			}
			if report == nil {
				return true
			}
			found = true
			if fa > fb {
				fa, fb = fb, fa
			}
			report(fa, fb, cop)
		}
	}
	return found
}

// sharedVertices returns vertex orderings for two faces such that
// their `n` common indices come first and align pairwise.
func sharedVertices[I Index](fa, fb [3]I) (pa, pb [3]int, n int) {
	var usedA, usedB [3]bool
	for i := range fa {
		for j := range fb {
			if !usedB[j] && fa[i] == fb[j] {
				pa[n], pb[n] = i, j
				usedA[i], usedB[j] = true, true
				n++
				break
			}
		}
	}
	k := n
	for i := range fa {
		if !usedA[i] {
			pa[k] = i
			k++
		}
	}
	k = n
	for j := range fb {
		if !usedB[j] {
			pb[k] = j
			k++
		}
	}
	return pa, pb, n
}
