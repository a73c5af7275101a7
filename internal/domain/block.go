package domain

// BlockCategory groups block types by the kind of infrastructure they represent.
type BlockCategory string

const (
	CategoryCompute       BlockCategory = "compute"
	CategoryDatabase      BlockCategory = "database"
	CategoryStorage       BlockCategory = "storage"
	CategoryNetwork       BlockCategory = "network"
	CategoryMessaging     BlockCategory = "messaging"
	CategorySecurity      BlockCategory = "security"
	CategoryObservability BlockCategory = "observability"
)

type PortDirection string

const (
	PortIn  PortDirection = "in"
	PortOut PortDirection = "out"
)

// Position is a point on the canvas.
type Position struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

type Size struct {
	Width  float64 `json:"width" yaml:"width" mapstructure:"width"`
	Height float64 `json:"height" yaml:"height" mapstructure:"height"`
}

// Port is a connection point on a block.
type Port struct {
	ID        string        `json:"id" yaml:"id" mapstructure:"id"`
	Name      string        `json:"name" yaml:"name" mapstructure:"name"`
	Direction PortDirection `json:"direction" yaml:"direction" mapstructure:"direction"`
}

// Block is a node on the canvas representing an infrastructure component.
type Block struct {
	ID       string         `json:"id" yaml:"id" mapstructure:"id"`
	Type     string         `json:"type" yaml:"type" mapstructure:"type"`
	Category BlockCategory  `json:"category" yaml:"category" mapstructure:"category"`
	Name     string         `json:"name" yaml:"name" mapstructure:"name"`
	Position Position       `json:"position" yaml:"position" mapstructure:"position"`
	Size     Size           `json:"size" yaml:"size" mapstructure:"size"`
	Selected bool           `json:"selected" yaml:"selected" mapstructure:"selected"`
	Ports    []Port         `json:"ports" yaml:"ports" mapstructure:"ports"`
	Config   map[string]any `json:"config,omitempty" yaml:"config,omitempty" mapstructure:"config"`
}

// Port returns the port with the given ID.
func (b *Block) Port(id string) (Port, bool) {
	for _, p := range b.Ports {
		if p.ID == id {
			return p, true
		}
	}
	return Port{}, false
}

// Clone returns a deep copy of the block. Nested config maps and slices
// are copied as well so the clone never aliases the original.
func (b Block) Clone() Block {
	out := b
	if b.Ports != nil {
		out.Ports = make([]Port, len(b.Ports))
		copy(out.Ports, b.Ports)
	}
	out.Config = cloneMap(b.Config)
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}
