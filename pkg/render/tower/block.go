package tower

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/boxtower/pkg/dag"
)

// Block is one box of a drawn tower in drawing coordinates. Y grows
// downward, so Top < Bottom.
type Block struct {
	NodeID string
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
	Style  string
	Label  string
}

func (b Block) Width() float64   { return b.Right - b.Left }
func (b Block) Height() float64  { return b.Bottom - b.Top }
func (b Block) CenterX() float64 { return (b.Left + b.Right) / 2 }
func (b Block) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Lines splits the label at explicit line breaks. A blank label has no
// lines.
func (b Block) Lines() []string {
	if b.Label == "" {
		return nil
	}
	return strings.Split(b.Label, dag.LineBreak)
}

type jsonBlock struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Style  string  `json:"style"`
	Label  string  `json:"label"`
}

func (b Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonBlock{
		ID:     b.NodeID,
		X:      b.Left,
		Y:      b.Top,
		Width:  b.Width(),
		Height: b.Height(),
		Style:  b.Style,
		Label:  b.Label,
	})
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var jb jsonBlock
	if err := json.Unmarshal(data, &jb); err != nil {
		return err
	}
	*b = Block{
		NodeID: jb.ID,
		Left:   jb.X,
		Right:  jb.X + jb.Width,
		Top:    jb.Y,
		Bottom: jb.Y + jb.Height,
		Style:  jb.Style,
		Label:  jb.Label,
	}
	return nil
}
