package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Movements  InventoryMovementRepository
	Stock      StockRepository
	Products   ProductRepository
	Warehouses WarehouseRepository
	Transfers  TransferRepository
	Sequences  SequenceRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ninguna escritura sobrevive; si no, Commit.
// Los bloqueos tomados con GetForUpdate se liberan al terminar la transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
