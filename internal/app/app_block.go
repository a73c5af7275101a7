package app

import (
	"stackcanvas/internal/domain"
)

// ============================================================
// Blocks
// ============================================================

// AddBlock places a catalog block of blockType at (x, y).
// An empty id is replaced with a generated one.
func (a *App) AddBlock(blockType, id string, x, y float64) (*domain.Block, error) {
	return a.canvas.AddFromCatalog(a.ctx, blockType, id, domain.Position{X: x, Y: y})
}

// PlaceBlock adds a fully specified block.
func (a *App) PlaceBlock(b domain.Block) (*domain.Block, error) {
	return a.canvas.AddBlock(a.ctx, b)
}

func (a *App) MoveBlock(id string, x, y float64) error {
	return a.canvas.MoveBlock(a.ctx, id, domain.Position{X: x, Y: y})
}

// DeleteBlock removes a block and its connections.
func (a *App) DeleteBlock(id string) error {
	return a.canvas.DeleteBlock(a.ctx, id)
}

func (a *App) SelectBlock(id string, selected bool) error {
	return a.canvas.SelectBlock(a.ctx, id, selected)
}

// Catalog lists the block templates.
func (a *App) Catalog() []domain.BlockTemplate {
	out := make([]domain.BlockTemplate, 0, len(domain.Catalog))
	for _, t := range domain.CatalogTypes() {
		out = append(out, domain.Catalog[t])
	}
	return out
}
