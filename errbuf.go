package dither

// errorBuffer holds diffused quantization error for the current row and
// the rows a kernel can reach ahead, avoiding a full-image error plane.
// Row 0 is always the row being scanned.
type errorBuffer struct {
	rows [][][3]float64
}

func newErrorBuffer(width, depth int) *errorBuffer {
	rows := make([][][3]float64, depth)
	for i := range rows {
		rows[i] = make([][3]float64, width)
	}
	return &errorBuffer{rows: rows}
}

// at returns the accumulated error for a pixel in the current row.
func (b *errorBuffer) at(x int) [3]float64 {
	return b.rows[0][x]
}

// add deposits error on a future pixel, dy rows down.
func (b *errorBuffer) add(x, dy int, err [3]float64) {
	cell := &b.rows[dy][x]
	cell[0] += err[0]
	cell[1] += err[1]
	cell[2] += err[2]
}

// advance rotates the buffer one image row forward and clears the row
// that wrapped around.
func (b *errorBuffer) advance() {
	first := b.rows[0]
	copy(b.rows, b.rows[1:])
	last := len(b.rows) - 1
	b.rows[last] = first
	for i := range first {
		first[i] = [3]float64{}
	}
}
