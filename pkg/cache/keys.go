package cache

// Keyer builds cache keys. Inputs are content hashes (see [Hash]) plus the
// options that change the output.
type Keyer interface {
	// DiagramKey identifies a resolved diagram.
	DiagramKey(specHash string, opts DiagramKeyOpts) string

	// ArtifactKey identifies a rendering of a resolved diagram.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// DiagramKeyOpts are the resolution options that affect the result.
type DiagramKeyOpts struct {
	NodeRadius  float64 `json:"node_radius"`
	ViewPadding float64 `json:"view_padding"`
	// Version is the engine version; a new release invalidates old entries.
	Version string `json:"version"`
}

// ArtifactKeyOpts are the rendering options that affect the output.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Detailed  bool   `json:"detailed,omitempty"`
	EmbedFont bool   `json:"embed_font,omitempty"`
	Outlines  bool   `json:"outlines,omitempty"`
}

// DefaultKeyer generates keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DiagramKey implements Keyer.
func (DefaultKeyer) DiagramKey(specHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", specHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts)
}

var _ Keyer = DefaultKeyer{}
