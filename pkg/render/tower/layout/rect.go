package layout

// Rect is the solved placement of one node in integer grid units.
// X grows to the right and Y grows downward, so the ground sits at the
// largest Y values and towers extend into negative Y.
//
// A box covers the half-open ranges [X0, X1) and [Y0, Y1).
type Rect struct {
	NodeID string `json:"id"`
	X0     int    `json:"x0"`
	Y0     int    `json:"y0"`
	X1     int    `json:"x1"`
	Y1     int    `json:"y1"`
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() int { return r.X1 - r.X0 }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() int { return r.Y1 - r.Y0 }

// Perimeter returns width plus height, the per-box term of the objective.
func (r Rect) Perimeter() int { return r.Width() + r.Height() }

// XOverlaps reports whether the horizontal ranges of r and o share an
// interior point.
func (r Rect) XOverlaps(o Rect) bool { return r.X0 < o.X1 && o.X0 < r.X1 }

// YOverlaps reports whether the vertical ranges of r and o share an interior
// point.
func (r Rect) YOverlaps(o Rect) bool { return r.Y0 < o.Y1 && o.Y0 < r.Y1 }

// Overlaps reports whether r and o intersect with positive area.
func (r Rect) Overlaps(o Rect) bool { return r.XOverlaps(o) && r.YOverlaps(o) }

// RestsOn reports whether r sits exactly on top of o: the floor of r is the
// ceiling of o and their horizontal ranges overlap.
func (r Rect) RestsOn(o Rect) bool { return r.Y1 == o.Y0 && r.XOverlaps(o) }
