package styles

import (
	"bytes"
	"fmt"
	"strings"
)

// Style defines the visual appearance for tower rendering.
type Style interface {
	// Name identifies the style on the command line and in JSON output.
	Name() string
	// CSS returns the built-in rules placed in the SVG <style> element.
	CSS() string
	// RenderBlock writes the SVG for a single block shape.
	RenderBlock(buf *bytes.Buffer, b Block)
	// RenderText writes the SVG for a block's label.
	RenderText(buf *bytes.Buffer, b Block)
}

// Block contains all data needed to draw a single tower block.
type Block struct {
	ID         string   // Node identifier
	Ground     bool     // Set for the synthetic ground node
	Class      string   // CSS class, the node's style tag
	Lines      []string // Label lines
	X, Y, W, H float64  // Top-left corner and size
}

// ElementID returns the SVG id attribute of a block. Node names may hold
// characters an XML id cannot, and the ground's name is not a name at all,
// so the ground gets a fixed id and other characters become underscores.
func ElementID(b Block) string {
	if b.Ground {
		return "tower-ground"
	}
	id := []byte("block-" + b.ID)
	for i := len("block-"); i < len(id); i++ {
		c := id[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_' || c == '.') {
			id[i] = '_'
		}
	}
	return string(id)
}

// ByName returns the style registered under name. The empty name selects
// [Classic].
func ByName(name string) (Style, error) {
	switch strings.ToLower(name) {
	case "", "classic":
		return Classic{}, nil
	case "plain":
		return Plain{}, nil
	default:
		return nil, fmt.Errorf("unknown style %q (want classic or plain)", name)
	}
}
