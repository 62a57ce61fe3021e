package kardex

import (
	"time"

	"github.com/gdeapp/gde-backend/internal/domain"
	"github.com/gdeapp/gde-backend/internal/domain/entity"
	"github.com/gdeapp/gde-backend/internal/domain/repository"
)

// Límites de paginación para listados de kardex. Valores fuera de rango se
// acotan, no se rechazan.
const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListMovements devuelve los movimientos de un producto, más recientes primero.
// Lectura pura: dos llamadas con los mismos argumentos y sin escrituras
// intermedias devuelven lo mismo.
func (uc *LedgerUseCase) ListMovements(productID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Kardex, error) {
	limit, offset = clampPage(limit, offset)
	return uc.kardexRepo.ListByProduct(productID, desde, hasta, limit, offset)
}

// Summarize agrega el kardex filtrado: conteo, totales por tipo y saldo neto
// (entradas - salidas).
func (uc *LedgerUseCase) Summarize(f repository.KardexFilter) (*entity.KardexSummary, error) {
	if f.TipoMovimiento != "" && !f.TipoMovimiento.Valid() {
		return nil, domain.ErrInvalidMovement
	}
	return uc.kardexRepo.Summary(f)
}

// ProductMovementsReport reporte de movimientos de un producto para los
// últimos N días, con datos de cabecera del producto.
func (uc *LedgerUseCase) ProductMovementsReport(productID string, days int) (*entity.Product, []*entity.Kardex, error) {
	if days <= 0 {
		days = 30
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	desde := time.Now().AddDate(0, 0, -days)
	movements, err := uc.kardexRepo.ListByProduct(productID, &desde, nil, maxListLimit, 0)
	if err != nil {
		return nil, nil, err
	}
	return product, movements, nil
}
