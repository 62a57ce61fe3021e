package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gdeapp/gde-backend/internal/application/guia"
	"github.com/gdeapp/gde-backend/internal/application/kardex"
	"github.com/gdeapp/gde-backend/internal/domain/repository"
)

var _ kardex.TxRunner = (*TxRunner)(nil)
var _ guia.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	kardexRepo repository.KardexRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	kardexRepo := NewKardexRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(kardexRepo, productRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunGuia inicia una transacción con repos de kardex, productos y guías
// (items de guía y su movimiento de kardex en una sola unidad atómica).
func (r *TxRunner) RunGuia(ctx context.Context, fn func(
	kardexRepo repository.KardexRepository,
	productRepo repository.ProductRepository,
	guiaRepo repository.GuiaRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	kardexRepo := NewKardexRepository(tx)
	productRepo := NewProductRepository(tx)
	guiaRepo := NewGuiaRepository(tx)

	if err := fn(kardexRepo, productRepo, guiaRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
