package domain

// Endpoint addresses one port on one block.
type Endpoint struct {
	BlockID string `json:"blockId" yaml:"block" mapstructure:"block"`
	PortID  string `json:"portId" yaml:"port" mapstructure:"port"`
}

// Connection is a directed edge from a source port to a target port.
type Connection struct {
	ID       string   `json:"id" yaml:"id" mapstructure:"id"`
	Source   Endpoint `json:"source" yaml:"source" mapstructure:"source"`
	Target   Endpoint `json:"target" yaml:"target" mapstructure:"target"`
	Selected bool     `json:"selected" yaml:"selected" mapstructure:"selected"`
}

// Touches reports whether either end of the connection is attached to blockID.
func (c Connection) Touches(blockID string) bool {
	return c.Source.BlockID == blockID || c.Target.BlockID == blockID
}
