package app

import (
	"stackcanvas/internal/domain"
)

// ============================================================
// Connections
// ============================================================

// Connect links fromBlock's fromPort to toBlock's toPort.
func (a *App) Connect(id, fromBlock, fromPort, toBlock, toPort string) (*domain.Connection, error) {
	return a.canvas.Connect(a.ctx, id,
		domain.Endpoint{BlockID: fromBlock, PortID: fromPort},
		domain.Endpoint{BlockID: toBlock, PortID: toPort},
	)
}

func (a *App) Disconnect(id string) error {
	return a.canvas.Disconnect(a.ctx, id)
}
