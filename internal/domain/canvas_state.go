package domain

// CanvasState is the complete editable state of a canvas: its blocks and
// the connections between them, both kept in insertion order.
type CanvasState struct {
	Blocks      []Block      `json:"blocks" yaml:"blocks" mapstructure:"blocks"`
	Connections []Connection `json:"connections" yaml:"connections" mapstructure:"connections"`
}

// Clone returns a deep copy of the state.
func (s CanvasState) Clone() CanvasState {
	out := CanvasState{}
	if s.Blocks != nil {
		out.Blocks = make([]Block, len(s.Blocks))
		for i, b := range s.Blocks {
			out.Blocks[i] = b.Clone()
		}
	}
	if s.Connections != nil {
		out.Connections = make([]Connection, len(s.Connections))
		copy(out.Connections, s.Connections)
	}
	return out
}

// FindBlock returns the index of the block with the given ID.
func (s *CanvasState) FindBlock(id string) (int, bool) {
	for i := range s.Blocks {
		if s.Blocks[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// FindConnection returns the index of the connection with the given ID.
func (s *CanvasState) FindConnection(id string) (int, bool) {
	for i := range s.Connections {
		if s.Connections[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Block returns a copy of the block with the given ID.
func (s *CanvasState) Block(id string) (Block, bool) {
	i, ok := s.FindBlock(id)
	if !ok {
		return Block{}, false
	}
	return s.Blocks[i].Clone(), true
}

// ConnectionsForBlock returns every connection attached to blockID, in order.
func (s *CanvasState) ConnectionsForBlock(blockID string) []Connection {
	var out []Connection
	for _, c := range s.Connections {
		if c.Touches(blockID) {
			out = append(out, c)
		}
	}
	return out
}
