package kardex

import (
	"context"

	"github.com/gdeapp/gde-backend/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la entrada de kardex y la
// actualización del contador del producto se confirmen o reviertan juntas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		kardexRepo repository.KardexRepository,
		productRepo repository.ProductRepository,
	) error) error
}
