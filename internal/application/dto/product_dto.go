package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
// InitialStock > 0 genera una entrada de kardex con documento "CREACION";
// con InitialStock = 0 no se registra entrada de siembra.
type CreateProductRequest struct {
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	InitialStock    int64           `json:"initial_stock"`
	StockMinimo     int64           `json:"stock_minimo"`
	PrecioCompra    decimal.Decimal `json:"precio_compra"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	UbicacionBodega string          `json:"ubicacion_bodega,omitempty"`
	UnidadMedida    string          `json:"unidad_medida,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. Stock y costo promedio
// no se actualizan por aquí: van por kardex.
type UpdateProductRequest struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	StockMinimo     *int64           `json:"stock_minimo,omitempty"`
	PrecioVenta     *decimal.Decimal `json:"precio_venta,omitempty"`
	UbicacionBodega *string          `json:"ubicacion_bodega,omitempty"`
	UnidadMedida    *string          `json:"unidad_medida,omitempty"`
	Status          *string          `json:"status,omitempty"`
}

// ProductResponse representación de un producto.
type ProductResponse struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	StockActual     int64           `json:"stock_actual"`
	StockMinimo     int64           `json:"stock_minimo"`
	PrecioCompra    decimal.Decimal `json:"precio_compra"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	UbicacionBodega string          `json:"ubicacion_bodega,omitempty"`
	UnidadMedida    string          `json:"unidad_medida"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
