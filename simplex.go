package dither

import (
	"math"

	"github.com/BeatGlow/dither/palette"
	"github.com/BeatGlow/dither/pixel"
)

// simplexMaxColors caps the brute-force Delaunay construction. C(N,4)
// candidate tetrahedra stay cheap up to 16 entries, which covers every
// e-paper palette in the field.
const simplexMaxColors = 16

// simplexPass is the Simplex mode: each pixel becomes a barycentric
// mixture of up to four palette colors over the Delaunay mesh, and the
// noise tile picks one component per pixel. Averaged over an area the
// picks reproduce the source color.
func (d *Ditherer) simplexPass(out *Image, pix []pixel.Linear, w, h int) {
	mesh := newSimplexMesh(d.palette)
	exact := d.exactMatches(pix)
	_, euclidean := d.palette.Metric().(palette.Euclidean)
	achromatic := d.palette.ChromaThreshold()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if exact != nil && exact[i] >= 0 {
				out.Pix[i] = uint8(exact[i])
				continue
			}

			lab := pix[i].Oklab()

			// Near-neutral pixels take the two-nearest blend; a mesh
			// mixture could pull them off the grey axis.
			if lab.Chroma() < achromatic {
				out.Pix[i] = d.orderedIndex(pix[i], x, y, euclidean)
				continue
			}

			indices, weights, count := mesh.decompose(lab)
			if count == 0 {
				// Outside the palette hull, or no mesh for this size.
				out.Pix[i] = d.orderedIndex(pix[i], x, y, euclidean)
				continue
			}
			out.Pix[i] = pickWeighted(indices[:count], weights[:count], x, y)
		}
	}
}

// pickWeighted selects one palette index by cumulative weight against the
// noise threshold.
func pickWeighted(indices []int, weights []float64, x, y int) uint8 {
	threshold := float64(blueNoise[y%64][x%64]) / 255
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if threshold < cumulative {
			return uint8(indices[i])
		}
	}
	return uint8(indices[len(indices)-1])
}

// simplexMesh is a Delaunay decomposition of the palette in Oklab.
// Palettes of four or more colors get tetrahedra; exactly three colors get
// a single plane triangle; smaller or oversized palettes carry no mesh and
// always fall back.
type simplexMesh struct {
	tets []tetrahedron
	tri  *triangle
	size int
}

// tetrahedron caches the inverted edge matrix for barycentric evaluation.
type tetrahedron struct {
	indices [4]int
	inv     [9]float64
	origin  [3]float64
}

// triangle is the mesh for exactly three palette colors, projected onto
// the plane they span.
type triangle struct {
	indices [3]int
	inv     [4]float64
	basis   [2][3]float64
	origin  [3]float64
}

func newSimplexMesh(p *palette.Palette) *simplexMesh {
	n := p.Len()
	mesh := &simplexMesh{size: n}
	if n < 3 || n > simplexMaxColors {
		return mesh
	}

	points := make([][3]float64, n)
	for i := 0; i < n; i++ {
		lab := p.ActualOklab(i)
		points[i] = [3]float64{lab.L, lab.A, lab.B}
	}

	if n == 3 {
		tri := newTriangle(points, [3]int{0, 1, 2})
		mesh.tri = &tri
		return mesh
	}

	// Brute-force Delaunay: keep every candidate tetrahedron whose
	// circumsphere holds no other palette point.
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			for c := b + 1; c < n; c++ {
				for e := c + 1; e < n; e++ {
					idx := [4]int{a, b, c, e}
					center, radiusSq, ok := circumsphere(points[a], points[b], points[c], points[e])
					if !ok {
						continue
					}
					if anyInsideSphere(points, center, radiusSq, idx) {
						continue
					}
					if tet, ok := newTetrahedron(points, idx); ok {
						mesh.tets = append(mesh.tets, tet)
					}
				}
			}
		}
	}
	return mesh
}

// decompose expresses the color as a convex mixture of mesh vertices.
// count is 0 when the point needs the two-nearest fallback.
func (m *simplexMesh) decompose(lab pixel.Oklab) (indices [4]int, weights [4]float64, count int) {
	p := [3]float64{lab.L, lab.A, lab.B}

	switch {
	case m.size == 1:
		return [4]int{0, 0, 0, 0}, [4]float64{1, 0, 0, 0}, 1
	case m.tri != nil:
		return m.tri.decompose(p)
	}
	for i := range m.tets {
		if indices, weights, ok := m.tets[i].decompose(p); ok {
			return indices, weights, 4
		}
	}
	return indices, weights, 0
}

func (t *tetrahedron) decompose(p [3]float64) (indices [4]int, weights [4]float64, ok bool) {
	d := [3]float64{p[0] - t.origin[0], p[1] - t.origin[1], p[2] - t.origin[2]}

	l1 := t.inv[0]*d[0] + t.inv[1]*d[1] + t.inv[2]*d[2]
	l2 := t.inv[3]*d[0] + t.inv[4]*d[1] + t.inv[5]*d[2]
	l3 := t.inv[6]*d[0] + t.inv[7]*d[1] + t.inv[8]*d[2]
	l0 := 1 - l1 - l2 - l3

	const eps = -1e-6
	if l0 < eps || l1 < eps || l2 < eps || l3 < eps {
		return indices, weights, false
	}

	w := [4]float64{math.Max(l0, 0), math.Max(l1, 0), math.Max(l2, 0), math.Max(l3, 0)}
	total := w[0] + w[1] + w[2] + w[3]
	if total < 1e-10 {
		return indices, weights, false
	}
	for i := range w {
		w[i] /= total
	}
	return t.indices, w, true
}

func (t *triangle) decompose(p [3]float64) (indices [4]int, weights [4]float64, count int) {
	d := [3]float64{p[0] - t.origin[0], p[1] - t.origin[1], p[2] - t.origin[2]}

	// Project onto the triangle plane, then solve against the Gram
	// matrix inverse.
	proj1 := dot3(d, t.basis[0])
	proj2 := dot3(d, t.basis[1])
	l1 := t.inv[0]*proj1 + t.inv[1]*proj2
	l2 := t.inv[2]*proj1 + t.inv[3]*proj2
	l0 := 1 - l1 - l2

	const eps = -1e-4
	if l0 < eps || l1 < eps || l2 < eps {
		return indices, weights, 0
	}

	w := [3]float64{math.Max(l0, 0), math.Max(l1, 0), math.Max(l2, 0)}
	total := w[0] + w[1] + w[2]
	if total < 1e-10 {
		return indices, weights, 0
	}
	return [4]int{t.indices[0], t.indices[1], t.indices[2], 0},
		[4]float64{w[0] / total, w[1] / total, w[2] / total, 0}, 3
}

func newTetrahedron(points [][3]float64, idx [4]int) (tetrahedron, bool) {
	p0 := points[idx[0]]
	e1 := sub3(points[idx[1]], p0)
	e2 := sub3(points[idx[2]], p0)
	e3 := sub3(points[idx[3]], p0)

	// Determinant of the column matrix [e1 e2 e3].
	det := det3(
		[3]float64{e1[0], e2[0], e3[0]},
		[3]float64{e1[1], e2[1], e3[1]},
		[3]float64{e1[2], e2[2], e3[2]},
	)
	if math.Abs(det) < 1e-12 {
		return tetrahedron{}, false
	}

	inv := [9]float64{
		e2[1]*e3[2] - e2[2]*e3[1],
		e2[2]*e3[0] - e2[0]*e3[2],
		e2[0]*e3[1] - e2[1]*e3[0],
		e1[2]*e3[1] - e1[1]*e3[2],
		e1[0]*e3[2] - e1[2]*e3[0],
		e1[1]*e3[0] - e1[0]*e3[1],
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	for i := range inv {
		inv[i] /= det
	}
	return tetrahedron{indices: idx, inv: inv, origin: p0}, true
}

func newTriangle(points [][3]float64, idx [3]int) triangle {
	p0 := points[idx[0]]
	e1 := sub3(points[idx[1]], p0)
	e2 := sub3(points[idx[2]], p0)

	d11 := dot3(e1, e1)
	d12 := dot3(e1, e2)
	d22 := dot3(e2, e2)

	det := d11*d22 - d12*d12
	var invDet float64
	if math.Abs(det) > 1e-12 {
		invDet = 1 / det
	}

	return triangle{
		indices: idx,
		inv:     [4]float64{d22 * invDet, -d12 * invDet, -d12 * invDet, d11 * invDet},
		basis:   [2][3]float64{e1, e2},
		origin:  p0,
	}
}

// circumsphere solves for the center equidistant from the four points.
// ok is false for coplanar or coincident points.
func circumsphere(p0, p1, p2, p3 [3]float64) (center [3]float64, radiusSq float64, ok bool) {
	d1 := sub3(p1, p0)
	d2 := sub3(p2, p0)
	d3 := sub3(p3, p0)

	rhs1 := 0.5 * (d1[0]*(p1[0]+p0[0]) + d1[1]*(p1[1]+p0[1]) + d1[2]*(p1[2]+p0[2]))
	rhs2 := 0.5 * (d2[0]*(p2[0]+p0[0]) + d2[1]*(p2[1]+p0[1]) + d2[2]*(p2[2]+p0[2]))
	rhs3 := 0.5 * (d3[0]*(p3[0]+p0[0]) + d3[1]*(p3[1]+p0[1]) + d3[2]*(p3[2]+p0[2]))

	det := det3(d1, d2, d3)
	if math.Abs(det) < 1e-12 {
		return center, 0, false
	}

	center = [3]float64{
		det3([3]float64{rhs1, d1[1], d1[2]}, [3]float64{rhs2, d2[1], d2[2]}, [3]float64{rhs3, d3[1], d3[2]}) / det,
		det3([3]float64{d1[0], rhs1, d1[2]}, [3]float64{d2[0], rhs2, d2[2]}, [3]float64{d3[0], rhs3, d3[2]}) / det,
		det3([3]float64{d1[0], d1[1], rhs1}, [3]float64{d2[0], d2[1], rhs2}, [3]float64{d3[0], d3[1], rhs3}) / det,
	}

	d := sub3(p0, center)
	return center, dot3(d, d), true
}

func anyInsideSphere(points [][3]float64, center [3]float64, radiusSq float64, tet [4]int) bool {
	for i, p := range points {
		if i == tet[0] || i == tet[1] || i == tet[2] || i == tet[3] {
			continue
		}
		d := sub3(p, center)
		if dot3(d, d) < radiusSq-1e-10 {
			return true
		}
	}
	return false
}

func det3(r0, r1, r2 [3]float64) float64 {
	return r0[0]*(r1[1]*r2[2]-r1[2]*r2[1]) -
		r0[1]*(r1[0]*r2[2]-r1[2]*r2[0]) +
		r0[2]*(r1[0]*r2[1]-r1[1]*r2[0])
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}
