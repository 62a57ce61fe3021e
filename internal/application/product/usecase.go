package product

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gdeapp/gde-backend/internal/application/dto"
	"github.com/gdeapp/gde-backend/internal/application/kardex"
	"github.com/gdeapp/gde-backend/internal/domain"
	"github.com/gdeapp/gde-backend/internal/domain/entity"
	"github.com/gdeapp/gde-backend/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. StockActual y PrecioCompra
// se manejan exclusivamente vía kardex.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner kardex.TxRunner
	ledger   *kardex.LedgerUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner kardex.TxRunner, ledger *kardex.LedgerUseCase) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, ledger: ledger}
}

// Create crea un producto. Con stock inicial positivo siembra la historia con
// una entrada de kardex (documento CREACION) en la misma transacción; con
// stock inicial cero no se registra entrada de siembra.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, userID string) (*dto.ProductResponse, error) {
	if in.Code == "" || in.Name == "" || in.InitialStock < 0 ||
		in.PrecioCompra.LessThan(decimal.Zero) || in.PrecioVenta.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCode(in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.UnidadMedida == "" {
		in.UnidadMedida = "UNIDAD"
	}
	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		Code:            in.Code,
		Name:            in.Name,
		Description:     in.Description,
		StockActual:     0,
		StockMinimo:     in.StockMinimo,
		PrecioCompra:    in.PrecioCompra,
		PrecioVenta:     in.PrecioVenta,
		UbicacionBodega: in.UbicacionBodega,
		UnidadMedida:    in.UnidadMedida,
		Status:          entity.ProductStatusActive,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err := uc.txRunner.Run(ctx, func(kardexRepo repository.KardexRepository, productRepo repository.ProductRepository) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		costo := in.PrecioCompra
		entry, err := uc.ledger.RecordMovementInTx(kardexRepo, productRepo, kardex.MovementInput{
			ProductID:         product.ID,
			TipoMovimiento:    entity.MovementEntrada,
			Cantidad:          in.InitialStock,
			CostoUnitario:     &costo,
			UsuarioID:         userID,
			DocumentoAsociado: kardex.DocumentoCreacion,
		})
		if err != nil {
			return err
		}
		product.StockActual = entry.SaldoActual
		product.PrecioCompra = entry.CostoPromedio
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista productos con búsqueda por código o nombre.
func (uc *ProductUseCase) List(search string, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.Clamp(100, 1000)
	products, err := uc.repo.List(search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Update actualiza datos descriptivos. No permite modificar StockActual ni
// PrecioCompra: esos cambios van por kardex.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.StockMinimo != nil {
		product.StockMinimo = *in.StockMinimo
	}
	if in.PrecioVenta != nil {
		if in.PrecioVenta.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.PrecioVenta = *in.PrecioVenta
	}
	if in.UbicacionBodega != nil {
		product.UbicacionBodega = *in.UbicacionBodega
	}
	if in.UnidadMedida != nil {
		product.UnidadMedida = *in.UnidadMedida
	}
	if in.Status != nil {
		product.Status = *in.Status
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// UpdateStock ajusta el stock a un total absoluto a través del kardex.
func (uc *ProductUseCase) UpdateStock(ctx context.Context, id string, newStock int64, userID, observaciones string) (*entity.Kardex, error) {
	return uc.ledger.AdjustTo(ctx, id, newStock, userID, observaciones)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		Description:     p.Description,
		StockActual:     p.StockActual,
		StockMinimo:     p.StockMinimo,
		PrecioCompra:    p.PrecioCompra,
		PrecioVenta:     p.PrecioVenta,
		UbicacionBodega: p.UbicacionBodega,
		UnidadMedida:    p.UnidadMedida,
		Status:          p.Status,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
