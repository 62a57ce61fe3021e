package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gdeapp/gde-backend/internal/application/dto"
	appkardex "github.com/gdeapp/gde-backend/internal/application/kardex"
	"github.com/gdeapp/gde-backend/internal/domain"
	"github.com/gdeapp/gde-backend/internal/domain/entity"
	"github.com/gdeapp/gde-backend/internal/domain/repository"
	"github.com/gdeapp/gde-backend/internal/infrastructure/metrics"
)

// KardexHandler maneja las peticiones HTTP del libro de movimientos (protegido).
type KardexHandler struct {
	ledger *appkardex.LedgerUseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(ledger *appkardex.LedgerUseCase) *KardexHandler {
	return &KardexHandler{ledger: ledger}
}

// CreateEntry godoc
// @Summary      Registrar movimiento de kardex
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateKardexRequest  true  "product_id, tipo_movimiento, cantidad (para ajuste: nuevo total), costo_unitario (entradas)"
// @Success      201   {object}  dto.KardexResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex [post]
func (h *KardexHandler) CreateEntry(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateKardexRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.ledger.RecordMovement(c.Context(), appkardex.MovementInput{
		ProductID:         in.ProductID,
		TipoMovimiento:    entity.MovementKind(in.TipoMovimiento),
		Cantidad:          in.Cantidad,
		CostoUnitario:     in.CostoUnitario,
		UsuarioID:         userID,
		DocumentoAsociado: in.DocumentoAsociado,
		Referencia:        in.Referencia,
		Observaciones:     in.Observaciones,
	})
	if err != nil {
		return kardexError(c, err)
	}
	metrics.MovementsTotal.WithLabelValues(string(entry.TipoMovimiento)).Inc()
	return c.Status(fiber.StatusCreated).JSON(toKardexResponse(entry))
}

// ListByProduct godoc
// @Summary      Kardex de un producto (más recientes primero)
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "Product ID"
// @Param        desde   query  string  false  "Fecha desde (RFC3339)"
// @Param        hasta   query  string  false  "Fecha hasta (RFC3339)"
// @Param        limit   query  int     false  "Máximo de registros (acotado a [1,1000])"
// @Param        offset  query  int     false  "Registros a saltar"
// @Success      200  {array}   dto.KardexResponse
// @Router       /api/kardex/product/{id} [get]
func (h *KardexHandler) ListByProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	desde, hasta, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "fecha inválida, usar RFC3339"})
	}
	entries, err := h.ledger.ListMovements(productID, desde, hasta, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return kardexError(c, err)
	}
	out := make([]dto.KardexResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, *toKardexResponse(e))
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen agregado del kardex
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        product_id       query  string  false  "Filtrar por producto"
// @Param        tipo_movimiento  query  string  false  "entrada | salida | ajuste | transferencia"
// @Param        desde            query  string  false  "Fecha desde (RFC3339)"
// @Param        hasta            query  string  false  "Fecha hasta (RFC3339)"
// @Success      200  {object}  dto.KardexSummaryResponse
// @Router       /api/kardex/summary [get]
func (h *KardexHandler) Summary(c *fiber.Ctx) error {
	desde, hasta, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "fecha inválida, usar RFC3339"})
	}
	summary, err := h.ledger.Summarize(repository.KardexFilter{
		ProductID:      c.Query("product_id"),
		TipoMovimiento: entity.MovementKind(c.Query("tipo_movimiento")),
		Desde:          desde,
		Hasta:          hasta,
	})
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(dto.KardexSummaryResponse{
		TotalMovimientos: summary.TotalMovimientos,
		TotalEntradas:    summary.TotalEntradas,
		TotalSalidas:     summary.TotalSalidas,
		TotalAjustes:     summary.TotalAjustes,
		SaldoNeto:        summary.SaldoNeto,
	})
}

// Report godoc
// @Summary      Reporte de movimientos de un producto (últimos N días)
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "Product ID"
// @Param        days  query  int     false  "Días hacia atrás (default 30)"
// @Success      200  {object}  dto.ProductMovementsReport
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/product/{id}/report [get]
func (h *KardexHandler) Report(c *fiber.Ctx) error {
	productID := c.Params("id")
	days := c.QueryInt("days", 30)
	product, movements, err := h.ledger.ProductMovementsReport(productID, days)
	if err != nil {
		return kardexError(c, err)
	}
	report := dto.ProductMovementsReport{
		ProductID:      product.ID,
		ProductCode:    product.Code,
		ProductName:    product.Name,
		CurrentStock:   product.StockActual,
		PeriodDays:     days,
		TotalMovements: len(movements),
		Movements:      make([]dto.KardexResponse, 0, len(movements)),
	}
	for _, m := range movements {
		report.Movements = append(report.Movements, *toKardexResponse(m))
	}
	return c.JSON(report)
}

// AdjustStock godoc
// @Summary      Ajustar stock a un total absoluto
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, new_stock (total absoluto), observaciones"
// @Success      201  {object}  dto.KardexResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/adjust-stock [post]
func (h *KardexHandler) AdjustStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Observaciones == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "observaciones requeridas para ajustes"})
	}
	entry, err := h.ledger.AdjustTo(c.Context(), in.ProductID, in.NewStock, userID, in.Observaciones)
	if err != nil {
		return kardexError(c, err)
	}
	metrics.MovementsTotal.WithLabelValues(string(entry.TipoMovimiento)).Inc()
	return c.Status(fiber.StatusCreated).JSON(toKardexResponse(entry))
}

// TransferStock godoc
// @Summary      Trasladar stock a otra ubicación
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "product_id, cantidad, destino"
// @Success      201  {object}  dto.KardexResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/kardex/transfer-stock [post]
func (h *KardexHandler) TransferStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Destino == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "destino requerido"})
	}
	entry, err := h.ledger.TransferOut(c.Context(), in.ProductID, in.Cantidad, in.Destino, userID, in.Observaciones)
	if err != nil {
		return kardexError(c, err)
	}
	metrics.MovementsTotal.WithLabelValues(string(entry.TipoMovimiento)).Inc()
	return c.Status(fiber.StatusCreated).JSON(toKardexResponse(entry))
}

// kardexError traduce la taxonomía de errores del kardex a respuestas HTTP.
func kardexError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidMovement), errors.Is(err, domain.ErrInvalidInput):
		metrics.MovementsRejected.WithLabelValues(metrics.ReasonInvalidMovement).Inc()
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_MOVEMENT", Message: "movimiento inválido"})
	case errors.Is(err, domain.ErrNotFound):
		metrics.MovementsRejected.WithLabelValues(metrics.ReasonNotFound).Inc()
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		metrics.MovementsRejected.WithLabelValues(metrics.ReasonInsufficientStock).Inc()
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	default:
		metrics.MovementsRejected.WithLabelValues(metrics.ReasonPersistence).Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func parseDateRange(c *fiber.Ctx) (desde, hasta *time.Time, err error) {
	if s := c.Query("desde"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, perr
		}
		desde = &t
	}
	if s := c.Query("hasta"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, perr
		}
		hasta = &t
	}
	return desde, hasta, nil
}

func toKardexResponse(e *entity.Kardex) *dto.KardexResponse {
	return &dto.KardexResponse{
		ID:                e.ID,
		ProductID:         e.ProductID,
		TipoMovimiento:    string(e.TipoMovimiento),
		DocumentoAsociado: e.DocumentoAsociado,
		Referencia:        e.Referencia,
		Cantidad:          e.Cantidad,
		SaldoAnterior:     e.SaldoAnterior,
		SaldoActual:       e.SaldoActual,
		CostoUnitario:     e.CostoUnitario,
		CostoPromedio:     e.CostoPromedio,
		ValorTotal:        e.ValorTotal,
		FechaMovimiento:   e.FechaMovimiento,
		UsuarioID:         e.UsuarioID,
		Observaciones:     e.Observaciones,
	}
}
