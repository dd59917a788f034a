package shape

import (
	"maps"
	"slices"

	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/render/styles"
)

// NodeType is the tag under which the decision-tree renderer is registered.
const NodeType = "tree-node"

// Registry maps node type tags to renderers. It is populated at startup and
// read-only afterwards. The zero value is an empty registry.
type Registry struct {
	renderers map[string]NodeRenderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]NodeRenderer)}
}

// DefaultRegistry returns a registry with the [Composite] renderer under
// [NodeType].
func DefaultRegistry(r styles.Resolver) *Registry {
	reg := NewRegistry()
	reg.renderers[NodeType] = NewComposite(r)
	return reg
}

// Register adds a renderer under name. Registering a name twice is an error.
func (r *Registry) Register(name string, nr NodeRenderer) error {
	if name == "" || nr == nil {
		return errors.New(errors.ErrCodeInvalidInput, "register: name and renderer are required")
	}
	if _, exists := r.renderers[name]; exists {
		return errors.New(errors.ErrCodeInvalidState, "node type %q already registered", name)
	}
	if r.renderers == nil {
		r.renderers = make(map[string]NodeRenderer)
	}
	r.renderers[name] = nr
	return nil
}

// Lookup returns the renderer registered under name.
func (r *Registry) Lookup(name string) (NodeRenderer, error) {
	if r == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown node type %q (no renderers registered)", name)
	}
	nr, ok := r.renderers[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown node type %q (available: %v)", name, r.Names())
	}
	return nr, nil
}

// Names returns the registered tags in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.renderers))
}
