package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/traslados-api/internal/domain/repository"
	"github.com/jhoicas/traslados-api/internal/infrastructure/memory"
	"github.com/jhoicas/traslados-api/internal/infrastructure/postgres"
	"github.com/jhoicas/traslados-api/pkg/config"
	"github.com/jhoicas/traslados-api/pkg/logger"
)

// storage repositorios autocommit más el runner transaccional del driver elegido.
type storage struct {
	txRunner   repository.TxRunner
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	categories repository.CategoryRepository
	stock      repository.StockRepository
	movements  repository.InventoryMovementRepository
	transfers  repository.TransferRepository
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.App.Storage {
	case config.StorageMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			txRunner:   store,
			products:   memory.NewProductRepository(store),
			warehouses: memory.NewWarehouseRepository(store),
			categories: memory.NewCategoryRepository(store),
			stock:      memory.NewStockRepository(store),
			movements:  memory.NewInventoryMovementRepository(store),
			transfers:  memory.NewTransferRepository(store),
			close:      func() {},
		}, nil

	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Strs("migrations", applied).Msg("esquema aplicado")
		}
		return &storage{
			txRunner:   postgres.NewTxRunner(pool),
			products:   postgres.NewProductRepository(pool),
			warehouses: postgres.NewWarehouseRepository(pool),
			categories: postgres.NewCategoryRepository(pool),
			stock:      postgres.NewStockRepository(pool),
			movements:  postgres.NewInventoryMovementRepository(pool),
			transfers:  postgres.NewTransferRepository(pool),
			close:      pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.App.Storage)
}
