package template

// Direction of a single-step move within an ordered collection.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Collection is a minimal view of an ordered list, in the manner of
// sort.Interface. Title fields, pages and per-page questions all satisfy it,
// so the same move logic applies uniformly to the three collections.
type Collection interface {
	Len() int
	Swap(i, j int)
}

// StepMove swaps the element at index i with its neighbor in the given
// direction. Moves beyond the first or last position are rejected and the
// collection is left unchanged. Reports whether the order changed.
func StepMove(c Collection, i int, dir Direction) bool {
	if i < 0 || i >= c.Len() {
		return false
	}
	switch dir {
	case Up:
		if i == 0 {
			return false
		}
		c.Swap(i, i-1)
	case Down:
		if i == c.Len()-1 {
			return false
		}
		c.Swap(i, i+1)
	default:
		return false
	}
	return true
}

// Reorder moves the element at src so that it ends up at position tgt,
// preserving the relative order of all other elements (remove-then-insert
// semantics). No-op when src == tgt or either index is out of bounds.
// Reports whether the order changed.
func Reorder(c Collection, src, tgt int) bool {
	n := c.Len()
	if src == tgt || src < 0 || tgt < 0 || src >= n || tgt >= n {
		return false
	}
	// walk the element over with adjacent swaps; everything else keeps
	// its relative order
	for i := src; i < tgt; i++ {
		c.Swap(i, i+1)
	}
	for i := src; i > tgt; i-- {
		c.Swap(i, i-1)
	}
	return true
}
