package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product representa un producto del inventario (código único).
// StockActual y PrecioCompra forman el contador de existencias: el Kardex es el
// único escritor de esos dos campos. PrecioCompra es el costo promedio ponderado,
// recalculado en cada entrada con costo.
type Product struct {
	ID              string
	Code            string
	Name            string
	Description     string
	StockActual     int64 // nunca negativo
	StockMinimo     int64
	PrecioCompra    decimal.Decimal // costo promedio ponderado
	PrecioVenta     decimal.Decimal
	UbicacionBodega string
	UnidadMedida    string
	Status          string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
