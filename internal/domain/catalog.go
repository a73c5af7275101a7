package domain

import (
	"fmt"
	"sort"
)

// ─────────────────────────────────────────────────────────────
// Block catalog: templates for the blocks the canvas offers
// ─────────────────────────────────────────────────────────────

// BlockTemplate describes how a fresh block of a given type looks.
type BlockTemplate struct {
	Type     string         `json:"type"`
	Category BlockCategory  `json:"category"`
	Name     string         `json:"name"`
	Size     Size           `json:"size"`
	Ports    []Port         `json:"ports"`
	Config   map[string]any `json:"config,omitempty"`
}

var (
	portIn  = Port{ID: "in", Name: "Input", Direction: PortIn}
	portOut = Port{ID: "out", Name: "Output", Direction: PortOut}
)

// Catalog maps block types to their templates.
var Catalog = map[string]BlockTemplate{
	"service": {
		Type: "service", Category: CategoryCompute, Name: "Service",
		Size:   Size{Width: 200, Height: 120},
		Ports:  []Port{portIn, portOut},
		Config: map[string]any{"replicas": 2, "cpu": "500m", "memory": "512Mi"},
	},
	"function": {
		Type: "function", Category: CategoryCompute, Name: "Function",
		Size:   Size{Width: 180, Height: 100},
		Ports:  []Port{portIn, portOut},
		Config: map[string]any{"runtime": "go1.x", "timeout": 30},
	},
	"postgres": {
		Type: "postgres", Category: CategoryDatabase, Name: "PostgreSQL",
		Size:   Size{Width: 200, Height: 120},
		Ports:  []Port{portIn},
		Config: map[string]any{"version": "16", "storageGb": 20},
	},
	"redis": {
		Type: "redis", Category: CategoryDatabase, Name: "Redis",
		Size:   Size{Width: 180, Height: 100},
		Ports:  []Port{portIn},
		Config: map[string]any{"version": "7", "evictionPolicy": "allkeys-lru"},
	},
	"bucket": {
		Type: "bucket", Category: CategoryStorage, Name: "Object Bucket",
		Size:   Size{Width: 180, Height: 100},
		Ports:  []Port{portIn},
		Config: map[string]any{"versioning": true},
	},
	"queue": {
		Type: "queue", Category: CategoryMessaging, Name: "Queue",
		Size:   Size{Width: 180, Height: 100},
		Ports:  []Port{portIn, portOut},
		Config: map[string]any{"fifo": false},
	},
	"load-balancer": {
		Type: "load-balancer", Category: CategoryNetwork, Name: "Load Balancer",
		Size:   Size{Width: 200, Height: 100},
		Ports:  []Port{portOut},
		Config: map[string]any{"scheme": "internet-facing"},
	},
	"secrets": {
		Type: "secrets", Category: CategorySecurity, Name: "Secrets",
		Size:  Size{Width: 160, Height: 100},
		Ports: []Port{portOut},
	},
}

// CatalogTypes returns the catalog's block types in sorted order.
func CatalogTypes() []string {
	types := make([]string, 0, len(Catalog))
	for t := range Catalog {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// NewBlock instantiates the template for blockType at the given position.
func NewBlock(blockType, id string, at Position) (Block, error) {
	tpl, ok := Catalog[blockType]
	if !ok {
		return Block{}, fmt.Errorf("%w: %q", ErrUnknownBlockType, blockType)
	}
	b := Block{
		ID:       id,
		Type:     tpl.Type,
		Category: tpl.Category,
		Name:     tpl.Name,
		Position: at,
		Size:     tpl.Size,
		Ports:    tpl.Ports,
		Config:   tpl.Config,
	}
	return b.Clone(), nil
}
