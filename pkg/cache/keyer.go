package cache

import "fmt"

// Keyer generates cache keys.
type Keyer interface {
	// HTTPKey keys a fetched response body.
	HTTPKey(namespace, key string) string
	// GraphKey keys a converted graph by the hash of its tree JSON.
	GraphKey(treeHash string) string
	// ArtifactKey keys a rendered artifact by graph hash and render options.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format      string            `json:"format"`
	Engine      string            `json:"engine,omitempty"`
	PaletteHash string            `json:"palette,omitempty"`
	Indent      float64           `json:"indent,omitempty"`
	RowHeight   float64           `json:"row_height,omitempty"`
	DropCap     bool              `json:"drop_cap,omitempty"`
	Direction   string            `json:"direction,omitempty"`
	Width       float64           `json:"width,omitempty"`
	Height      float64           `json:"height,omitempty"`
	Fit         bool              `json:"fit,omitempty"`
	Interactive bool              `json:"interactive,omitempty"`
	States      map[string]string `json:"states,omitempty"`
	Scale       float64           `json:"scale,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

func (DefaultKeyer) GraphKey(treeHash string) string {
	return "graph:" + treeHash
}

func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
