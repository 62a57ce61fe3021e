package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de guía de despacho.
const (
	GuiaEstadoPendiente  = "pendiente"
	GuiaEstadoEnTransito = "en_transito"
	GuiaEstadoEntregada  = "entregada"
	GuiaEstadoDevuelta   = "devuelta"
	GuiaEstadoCancelada  = "cancelada"
)

// Guia representa una guía de despacho (código único).
type Guia struct {
	ID            string
	Codigo        string
	ClienteNombre string
	Destino       string
	Estado        string
	Observaciones string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GuiaItem es una línea de la guía. Al crearse descuenta stock vía kardex
// (salida) y recuerda el ID de esa entrada; al borrarse se repone el stock con
// una entrada compensatoria que referencia KardexID, nunca tocando el contador
// directamente.
type GuiaItem struct {
	ID             string
	GuiaID         string
	ProductID      string
	Cantidad       int64
	PrecioUnitario decimal.Decimal
	Descuento      decimal.Decimal
	Subtotal       decimal.Decimal
	KardexID       int64 // entrada de kardex (salida) que generó este item
	CreatedAt      time.Time
}
