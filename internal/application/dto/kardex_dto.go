package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateKardexRequest body para POST /api/kardex.
// Para tipo "ajuste", cantidad es el nuevo total absoluto (no un delta).
type CreateKardexRequest struct {
	ProductID         string           `json:"product_id"`
	TipoMovimiento    string           `json:"tipo_movimiento"`
	Cantidad          int64            `json:"cantidad"`
	DocumentoAsociado string           `json:"documento_asociado,omitempty"`
	Referencia        string           `json:"referencia,omitempty"`
	CostoUnitario     *decimal.Decimal `json:"costo_unitario,omitempty"`
	Observaciones     string           `json:"observaciones,omitempty"`
}

// AdjustStockRequest body para POST /api/kardex/adjust-stock.
type AdjustStockRequest struct {
	ProductID     string `json:"product_id"`
	NewStock      int64  `json:"new_stock"` // total absoluto
	Observaciones string `json:"observaciones"`
}

// TransferStockRequest body para POST /api/kardex/transfer-stock.
type TransferStockRequest struct {
	ProductID     string `json:"product_id"`
	Cantidad      int64  `json:"cantidad"`
	Destino       string `json:"destino"`
	Observaciones string `json:"observaciones,omitempty"`
}

// KardexResponse representación de una entrada de kardex.
type KardexResponse struct {
	ID                int64            `json:"id"`
	ProductID         string           `json:"product_id"`
	TipoMovimiento    string           `json:"tipo_movimiento"`
	DocumentoAsociado string           `json:"documento_asociado,omitempty"`
	Referencia        string           `json:"referencia,omitempty"`
	Cantidad          int64            `json:"cantidad"`
	SaldoAnterior     int64            `json:"saldo_anterior"`
	SaldoActual       int64            `json:"saldo_actual"`
	CostoUnitario     *decimal.Decimal `json:"costo_unitario,omitempty"`
	CostoPromedio     decimal.Decimal  `json:"costo_promedio"`
	ValorTotal        decimal.Decimal  `json:"valor_total"`
	FechaMovimiento   time.Time        `json:"fecha_movimiento"`
	UsuarioID         string           `json:"usuario_id,omitempty"`
	Observaciones     string           `json:"observaciones,omitempty"`
}

// KardexSummaryResponse agregados del kardex filtrado.
type KardexSummaryResponse struct {
	TotalMovimientos int64 `json:"total_movimientos"`
	TotalEntradas    int64 `json:"total_entradas"`
	TotalSalidas     int64 `json:"total_salidas"`
	TotalAjustes     int64 `json:"total_ajustes"`
	SaldoNeto        int64 `json:"saldo_neto"`
}

// ProductMovementsReport reporte de movimientos de un producto en los últimos N días.
type ProductMovementsReport struct {
	ProductID      string           `json:"product_id"`
	ProductCode    string           `json:"product_code"`
	ProductName    string           `json:"product_name"`
	CurrentStock   int64            `json:"current_stock"`
	PeriodDays     int              `json:"period_days"`
	TotalMovements int              `json:"total_movements"`
	Movements      []KardexResponse `json:"movements"`
}
