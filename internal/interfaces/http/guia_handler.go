package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gdeapp/gde-backend/internal/application/dto"
	"github.com/gdeapp/gde-backend/internal/application/guia"
	"github.com/gdeapp/gde-backend/internal/domain"
	"github.com/gdeapp/gde-backend/internal/infrastructure/metrics"
)

// GuiaHandler maneja las peticiones HTTP de guías de despacho (protegido).
type GuiaHandler struct {
	uc *guia.GuiaUseCase
}

// NewGuiaHandler construye el handler.
func NewGuiaHandler(uc *guia.GuiaUseCase) *GuiaHandler {
	return &GuiaHandler{uc: uc}
}

// Create godoc
// @Summary      Crear guía de despacho
// @Tags         guias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGuiaRequest  true  "Guía"
// @Success      201  {object}  dto.GuiaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/guias [post]
func (h *GuiaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateGuiaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Create(in, GetUserID(c))
	if err != nil {
		return guiaError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Obtener guía con sus items
// @Tags         guias
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Guia ID"
// @Success      200  {object}  dto.GuiaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/guias/{id} [get]
func (h *GuiaHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return guiaError(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar guías
// @Tags         guias
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "pendiente | en_transito | entregada | devuelta | cancelada"
// @Param        limit   query  int     false  "Máximo de registros (acotado a [1,1000])"
// @Param        offset  query  int     false  "Registros a saltar"
// @Success      200  {array}  dto.GuiaResponse
// @Router       /api/guias [get]
func (h *GuiaHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	resp, err := h.uc.List(c.Query("estado"), page)
	if err != nil {
		return guiaError(c, err)
	}
	return c.JSON(resp)
}

// AddItem godoc
// @Summary      Agregar item a una guía
// @Description  Descuenta stock vía kardex (salida) en la misma transacción que inserta el item.
// @Tags         guias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "Guia ID"
// @Param        body  body  dto.AddGuiaItemRequest  true  "Item"
// @Success      201  {object}  dto.GuiaItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/guias/{id}/items [post]
func (h *GuiaHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddGuiaItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.AddItem(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return guiaError(c, err)
	}
	metrics.MovementsTotal.WithLabelValues("salida").Inc()
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// RemoveItem godoc
// @Summary      Eliminar item de una guía
// @Description  Repone el stock con una entrada compensatoria que referencia el movimiento original.
// @Tags         guias
// @Security     Bearer
// @Param        id      path  string  true  "Guia ID"
// @Param        itemId  path  string  true  "Item ID"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/guias/{id}/items/{itemId} [delete]
func (h *GuiaHandler) RemoveItem(c *fiber.Ctx) error {
	if err := h.uc.RemoveItem(c.Context(), c.Params("itemId"), GetUserID(c)); err != nil {
		return guiaError(c, err)
	}
	metrics.MovementsTotal.WithLabelValues("entrada").Inc()
	return c.SendStatus(fiber.StatusNoContent)
}

func guiaError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidMovement):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el código de guía ya existe"})
	case errors.Is(err, domain.ErrInsufficientStock):
		metrics.MovementsRejected.WithLabelValues(metrics.ReasonInsufficientStock).Inc()
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
