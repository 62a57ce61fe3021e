package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateGuiaRequest body para POST /api/guias.
type CreateGuiaRequest struct {
	Codigo        string `json:"codigo"`
	ClienteNombre string `json:"cliente_nombre"`
	Destino       string `json:"destino,omitempty"`
	Observaciones string `json:"observaciones,omitempty"`
}

// AddGuiaItemRequest body para POST /api/guias/:id/items.
type AddGuiaItemRequest struct {
	ProductID      string          `json:"product_id"`
	Cantidad       int64           `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
}

// GuiaResponse representación de una guía.
type GuiaResponse struct {
	ID            string             `json:"id"`
	Codigo        string             `json:"codigo"`
	ClienteNombre string             `json:"cliente_nombre"`
	Destino       string             `json:"destino,omitempty"`
	Estado        string             `json:"estado"`
	Observaciones string             `json:"observaciones,omitempty"`
	Items         []GuiaItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// GuiaItemResponse representación de una línea de guía.
type GuiaItemResponse struct {
	ID             string          `json:"id"`
	GuiaID         string          `json:"guia_id"`
	ProductID      string          `json:"product_id"`
	Cantidad       int64           `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	KardexID       int64           `json:"kardex_id"`
	CreatedAt      time.Time       `json:"created_at"`
}
