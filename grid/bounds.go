package grid

// Bounds is an axis-aligned bounding box over a 3D point set.
type Bounds[F Real] struct {
	Min [3]F
	Max [3]F
}

// BoundsOf computes the bounding box of the given coordinate arrays.
func BoundsOf[F Real](xs, ys, zs []F) (Bounds[F], error) {
	if len(ys) != len(xs) || len(zs) != len(xs) {
		return Bounds[F]{}, ErrLengthMismatch
	}
	if len(xs) == 0 {
		return Bounds[F]{}, ErrNoPoints
	}

	b := Bounds[F]{
		Min: [3]F{xs[0], ys[0], zs[0]},
		Max: [3]F{xs[0], ys[0], zs[0]},
	}
	for i := 1; i < len(xs); i++ {
		b.update(0, xs[i])
		b.update(1, ys[i])
		b.update(2, zs[i])
	}
	return b, nil
}

func (b *Bounds[F]) update(axis int, v F) {
	if v < b.Min[axis] {
		b.Min[axis] = v
	}
	if v > b.Max[axis] {
		b.Max[axis] = v
	}
}

// Extent returns the box width along the given axis.
func (b Bounds[F]) Extent(axis int) F {
	return b.Max[axis] - b.Min[axis]
}

// Degenerate reports whether any axis has zero or negative extent. A grid
// cannot be built over a degenerate box.
func (b Bounds[F]) Degenerate() bool {
	return b.Extent(0) <= 0 || b.Extent(1) <= 0 || b.Extent(2) <= 0
}

// WithBox overrides the box to [0, boxsize) on every axis with nonzero
// boxsize, as used for periodic simulation volumes. Axes with boxsize 0 keep
// their data-derived range.
func (b Bounds[F]) WithBox(boxsize [3]F) Bounds[F] {
	out := b
	for a := 0; a < 3; a++ {
		if boxsize[a] > 0 {
			out.Min[a] = 0
			out.Max[a] = boxsize[a]
		}
	}
	return out
}
