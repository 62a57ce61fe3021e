package repository

import (
	"time"

	"github.com/gdeapp/gde-backend/internal/domain/entity"
)

// KardexFilter filtros opcionales para el resumen de movimientos.
type KardexFilter struct {
	ProductID      string
	TipoMovimiento entity.MovementKind
	Desde          *time.Time
	Hasta          *time.Time
}

// KardexRepository define el puerto de persistencia del libro de movimientos.
// Las entradas son inmutables: no hay Update ni Delete.
type KardexRepository interface {
	Create(entry *entity.Kardex) error
	GetByID(id int64) (*entity.Kardex, error)
	// ListByProduct devuelve movimientos de un producto, más recientes primero
	// (fecha_movimiento DESC, id DESC para desempatar).
	ListByProduct(productID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Kardex, error)
	Summary(f KardexFilter) (*entity.KardexSummary, error)
}
