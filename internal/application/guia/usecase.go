package guia

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gdeapp/gde-backend/internal/application/dto"
	"github.com/gdeapp/gde-backend/internal/application/kardex"
	"github.com/gdeapp/gde-backend/internal/domain"
	"github.com/gdeapp/gde-backend/internal/domain/entity"
	"github.com/gdeapp/gde-backend/internal/domain/repository"
)

// GuiaUseCase gestiona guías de despacho y sus items. Los items afectan stock
// únicamente a través del kardex: alta de item = salida, baja de item =
// entrada compensatoria que referencia el movimiento original. Nunca se toca
// el contador del producto por fuera del libro.
type GuiaUseCase struct {
	guiaRepo repository.GuiaRepository
	txRunner TxRunner
	ledger   *kardex.LedgerUseCase
}

// NewGuiaUseCase construye el caso de uso.
func NewGuiaUseCase(guiaRepo repository.GuiaRepository, txRunner TxRunner, ledger *kardex.LedgerUseCase) *GuiaUseCase {
	return &GuiaUseCase{guiaRepo: guiaRepo, txRunner: txRunner, ledger: ledger}
}

// Create crea una guía en estado pendiente. El código debe ser único.
func (uc *GuiaUseCase) Create(in dto.CreateGuiaRequest, userID string) (*dto.GuiaResponse, error) {
	if in.Codigo == "" || in.ClienteNombre == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.guiaRepo.GetByCodigo(in.Codigo)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	guia := &entity.Guia{
		ID:            uuid.New().String(),
		Codigo:        in.Codigo,
		ClienteNombre: in.ClienteNombre,
		Destino:       in.Destino,
		Estado:        entity.GuiaEstadoPendiente,
		Observaciones: in.Observaciones,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.guiaRepo.Create(guia); err != nil {
		return nil, err
	}
	return toGuiaResponse(guia, nil), nil
}

// GetByID obtiene una guía con sus items.
func (uc *GuiaUseCase) GetByID(id string) (*dto.GuiaResponse, error) {
	guia, err := uc.guiaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if guia == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.guiaRepo.ListItems(guia.ID)
	if err != nil {
		return nil, err
	}
	return toGuiaResponse(guia, items), nil
}

// List lista guías, con filtro opcional por estado.
func (uc *GuiaUseCase) List(estado string, page dto.PageRequest) ([]dto.GuiaResponse, error) {
	page.Clamp(100, 1000)
	guias, err := uc.guiaRepo.List(estado, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GuiaResponse, 0, len(guias))
	for _, g := range guias {
		out = append(out, *toGuiaResponse(g, nil))
	}
	return out, nil
}

// AddItem agrega una línea a la guía descontando stock vía kardex (salida) en
// la misma transacción que inserta el item. Stock insuficiente rechaza el
// item completo sin aplicar nada.
func (uc *GuiaUseCase) AddItem(ctx context.Context, guiaID string, in dto.AddGuiaItemRequest, userID string) (*dto.GuiaItemResponse, error) {
	if in.ProductID == "" || in.Cantidad <= 0 || in.PrecioUnitario.LessThan(decimal.Zero) || in.Descuento.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var item *entity.GuiaItem
	err := uc.txRunner.RunGuia(ctx, func(
		kardexRepo repository.KardexRepository,
		productRepo repository.ProductRepository,
		guiaRepo repository.GuiaRepository,
	) error {
		guia, err := guiaRepo.GetByID(guiaID)
		if err != nil {
			return err
		}
		if guia == nil {
			return domain.ErrNotFound
		}
		entry, err := uc.ledger.RecordMovementInTx(kardexRepo, productRepo, kardex.MovementInput{
			ProductID:         in.ProductID,
			TipoMovimiento:    entity.MovementSalida,
			Cantidad:          in.Cantidad,
			UsuarioID:         userID,
			DocumentoAsociado: guia.Codigo,
			Referencia:        fmt.Sprintf("Guía %s", guia.Codigo),
		})
		if err != nil {
			return err
		}
		item = &entity.GuiaItem{
			ID:             uuid.New().String(),
			GuiaID:         guia.ID,
			ProductID:      in.ProductID,
			Cantidad:       in.Cantidad,
			PrecioUnitario: in.PrecioUnitario,
			Descuento:      in.Descuento,
			Subtotal:       in.PrecioUnitario.Mul(decimal.NewFromInt(in.Cantidad)).Sub(in.Descuento),
			KardexID:       entry.ID,
			CreatedAt:      time.Now(),
		}
		return guiaRepo.CreateItem(item)
	})
	if err != nil {
		return nil, err
	}
	return toGuiaItemResponse(item), nil
}

// RemoveItem elimina una línea reponiendo el stock con una entrada
// compensatoria que referencia el movimiento original, en la misma
// transacción que borra el item.
func (uc *GuiaUseCase) RemoveItem(ctx context.Context, itemID, userID string) error {
	return uc.txRunner.RunGuia(ctx, func(
		kardexRepo repository.KardexRepository,
		productRepo repository.ProductRepository,
		guiaRepo repository.GuiaRepository,
	) error {
		item, err := guiaRepo.GetItemByID(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		guia, err := guiaRepo.GetByID(item.GuiaID)
		if err != nil {
			return err
		}
		if guia == nil {
			return domain.ErrNotFound
		}
		if err := guiaRepo.DeleteItem(item.ID); err != nil {
			return err
		}
		// Sin costo unitario: la reposición conserva el promedio vigente.
		_, err = uc.ledger.RecordMovementInTx(kardexRepo, productRepo, kardex.MovementInput{
			ProductID:         item.ProductID,
			TipoMovimiento:    entity.MovementEntrada,
			Cantidad:          item.Cantidad,
			UsuarioID:         userID,
			DocumentoAsociado: guia.Codigo,
			Referencia:        fmt.Sprintf("Reversa kardex #%d", item.KardexID),
			Observaciones:     "Item de guía eliminado",
		})
		return err
	})
}

func toGuiaResponse(g *entity.Guia, items []*entity.GuiaItem) *dto.GuiaResponse {
	resp := &dto.GuiaResponse{
		ID:            g.ID,
		Codigo:        g.Codigo,
		ClienteNombre: g.ClienteNombre,
		Destino:       g.Destino,
		Estado:        g.Estado,
		Observaciones: g.Observaciones,
		CreatedAt:     g.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, *toGuiaItemResponse(it))
	}
	return resp
}

func toGuiaItemResponse(it *entity.GuiaItem) *dto.GuiaItemResponse {
	return &dto.GuiaItemResponse{
		ID:             it.ID,
		GuiaID:         it.GuiaID,
		ProductID:      it.ProductID,
		Cantidad:       it.Cantidad,
		PrecioUnitario: it.PrecioUnitario,
		Descuento:      it.Descuento,
		Subtotal:       it.Subtotal,
		KardexID:       it.KardexID,
		CreatedAt:      it.CreatedAt,
	}
}
