package cache

// Keyer derives cache keys. All keys are deterministic, so the same graph
// and options always map to the same entry.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the layout options that change the solved geometry.
// Time limits are deliberately absent: only optimal layouts are cached.
type LayoutKeyOpts struct {
	HeightPolicy string `json:"height_policy"`
	GridWidth    int    `json:"grid_width"`
	GridHeight   int    `json:"grid_height"`
}

// ArtifactKeyOpts holds everything that changes a rendered file.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Style   string  `json:"style"`
	CSSHash string  `json:"css_hash,omitempty"`
	ScaleX  int     `json:"scale_x"`
	ScaleY  int     `json:"scale_y"`
	Inset   int     `json:"inset"`
	Jitter  int     `json:"jitter"`
	Seed    uint64  `json:"seed"`
	PNGZoom float64 `json:"png_zoom,omitempty"`
}

// DefaultKeyer hashes the inputs with a per-kind prefix.
type DefaultKeyer struct{}

func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return entryKey("layout", graphHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return entryKey("artifact", layoutHash, opts)
}
