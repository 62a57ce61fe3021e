package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo cerrado de movimiento de kardex.
type MovementKind string

// Tipos de movimiento. Para ajuste, la cantidad solicitada es el nuevo total
// absoluto, no un delta; el resto de tipos trabaja con magnitudes positivas.
const (
	MovementEntrada       MovementKind = "entrada"
	MovementSalida        MovementKind = "salida"
	MovementAjuste        MovementKind = "ajuste"
	MovementTransferencia MovementKind = "transferencia" // salida con destino
)

// Valid reporta si el tipo es uno de los cuatro conocidos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementEntrada, MovementSalida, MovementAjuste, MovementTransferencia:
		return true
	}
	return false
}

// Decreases reporta si el tipo resta existencias.
func (k MovementKind) Decreases() bool {
	return k == MovementSalida || k == MovementTransferencia
}

// Kardex es una entrada inmutable del libro de movimientos de inventario.
// SaldoAnterior/SaldoActual son el contador del producto inmediatamente antes y
// después del movimiento; CostoPromedio es el promedio ponderado después de
// aplicar la entrada. Una vez creada nunca se modifica ni se borra: las
// reversas se registran como movimientos compensatorios nuevos.
type Kardex struct {
	ID                int64 // BIGSERIAL, monotónico; desempate de orden
	ProductID         string
	TipoMovimiento    MovementKind
	DocumentoAsociado string
	Referencia        string
	Cantidad          int64 // magnitud; el signo lo implica TipoMovimiento
	SaldoAnterior     int64
	SaldoActual       int64
	CostoUnitario     *decimal.Decimal // costo del movimiento concreto (entradas)
	CostoPromedio     decimal.Decimal  // promedio ponderado después del movimiento
	ValorTotal        decimal.Decimal  // Cantidad × (CostoUnitario ?? CostoPromedio)
	FechaMovimiento   time.Time
	UsuarioID         string
	Observaciones     string
}

// KardexSummary agregados sobre un conjunto filtrado de movimientos.
type KardexSummary struct {
	TotalMovimientos int64
	TotalEntradas    int64
	TotalSalidas     int64
	TotalAjustes     int64
	SaldoNeto        int64 // TotalEntradas - TotalSalidas
}
