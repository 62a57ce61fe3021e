package repository

import (
	"github.com/shopspring/decimal"

	"github.com/gdeapp/gde-backend/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos.
// StockActual y PrecioCompra solo se escriben vía UpdateStockAndCost, y solo
// desde el caso de uso del kardex dentro de una transacción.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	UpdateStockAndCost(id string, stockActual int64, precioCompra decimal.Decimal) error
	Update(product *entity.Product) error
	List(search string, limit, offset int) ([]*entity.Product, error)
}
