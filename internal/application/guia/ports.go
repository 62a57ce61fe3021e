package guia

import (
	"context"

	"github.com/gdeapp/gde-backend/internal/domain/repository"
)

// TxRunner variante transaccional con repositorio de guías, para que el item
// y su movimiento de kardex confirmen o reviertan juntos.
type TxRunner interface {
	RunGuia(ctx context.Context, fn func(
		kardexRepo repository.KardexRepository,
		productRepo repository.ProductRepository,
		guiaRepo repository.GuiaRepository,
	) error) error
}
