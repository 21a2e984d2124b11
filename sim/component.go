package sim

// A Named object has a name.
type Named interface {
	Name() string
}

// A Component is an element being simulated.
type Component interface {
	Named
	Handler
	Hookable
}

// ComponentBase provides the name and hook support that components share.
type ComponentBase struct {
	HookableBase
	name string
}

// NewComponentBase creates a new ComponentBase.
func NewComponentBase(name string) *ComponentBase {
	return &ComponentBase{name: name}
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}
