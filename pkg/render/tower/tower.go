package tower

import "math"

// Tower is the render contract: blocks in node insertion order, ground
// first, plus the seed that produced their jitter.
type Tower struct {
	Blocks []Block `json:"blocks"`
	Seed   uint64  `json:"seed"`
}

// Block returns the block drawn for a node.
func (t Tower) Block(id string) (Block, bool) {
	for _, b := range t.Blocks {
		if b.NodeID == id {
			return b, true
		}
	}
	return Block{}, false
}

// Bounds returns the smallest rectangle containing every block. An empty
// tower has zero bounds.
func (t Tower) Bounds() (minX, minY, maxX, maxY float64) {
	if len(t.Blocks) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, b := range t.Blocks {
		minX = min(minX, b.Left)
		minY = min(minY, b.Top)
		maxX = max(maxX, b.Right)
		maxY = max(maxY, b.Bottom)
	}
	return minX, minY, maxX, maxY
}
