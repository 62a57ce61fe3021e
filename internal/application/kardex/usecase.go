package kardex

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gdeapp/gde-backend/internal/domain"
	"github.com/gdeapp/gde-backend/internal/domain/entity"
	kardexdom "github.com/gdeapp/gde-backend/internal/domain/kardex"
	"github.com/gdeapp/gde-backend/internal/domain/repository"
)

// Documentos asociados por defecto para las operaciones de conveniencia.
const (
	DocumentoAjuste        = "AJUSTE"
	DocumentoTransferencia = "TRANSFERENCIA"
	DocumentoCreacion      = "CREACION"
)

// LedgerUseCase registra movimientos de kardex de forma transaccional
// (entrada, salida, ajuste, transferencia) con bloqueo de fila
// (SELECT FOR UPDATE) sobre el producto y Commit/Rollback. Es el único
// escritor de StockActual y PrecioCompra.
type LedgerUseCase struct {
	txRunner    TxRunner
	kardexRepo  repository.KardexRepository
	productRepo repository.ProductRepository
}

// NewLedgerUseCase construye el caso de uso. kardexRepo y productRepo atados
// al pool se usan solo para lecturas; las escrituras van por txRunner.
func NewLedgerUseCase(txRunner TxRunner, kardexRepo repository.KardexRepository, productRepo repository.ProductRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, kardexRepo: kardexRepo, productRepo: productRepo}
}

// MovementInput entrada para registrar un movimiento de kardex.
// Para ajuste, Cantidad es el nuevo total absoluto (no un delta); para el
// resto de tipos es una magnitud positiva.
type MovementInput struct {
	ProductID         string
	TipoMovimiento    entity.MovementKind
	Cantidad          int64
	CostoUnitario     *decimal.Decimal
	UsuarioID         string
	DocumentoAsociado string
	Referencia        string
	Observaciones     string
}

func validateInput(in MovementInput) error {
	if in.ProductID == "" || !in.TipoMovimiento.Valid() {
		return domain.ErrInvalidMovement
	}
	switch in.TipoMovimiento {
	case entity.MovementAjuste:
		// El nuevo total puede ser cero, nunca negativo.
		if in.Cantidad < 0 {
			return domain.ErrInvalidMovement
		}
	default:
		if in.Cantidad <= 0 {
			return domain.ErrInvalidMovement
		}
	}
	if in.CostoUnitario != nil && in.CostoUnitario.LessThan(decimal.Zero) {
		return domain.ErrInvalidMovement
	}
	return nil
}

// RecordMovement valida el movimiento, abre una transacción, bloquea la fila
// del producto, calcula saldo y costo promedio, persiste la entrada inmutable
// y actualiza el contador. Ambas escrituras confirman o revierten juntas.
// Sin reintentos internos: ErrNotFound, ErrInsufficientStock y
// ErrInvalidMovement se devuelven al caller sin cambio de estado.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, in MovementInput) (*entity.Kardex, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var created *entity.Kardex
	err := uc.txRunner.Run(ctx, func(kardexRepo repository.KardexRepository, productRepo repository.ProductRepository) error {
		entry, err := applyMovement(kardexRepo, productRepo, in)
		if err != nil {
			return err
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RecordMovementInTx registra un movimiento usando repositorios ya atados a la
// transacción del caller (items de guía, creación de producto), para que el
// movimiento confirme o revierta junto con el resto de esa transacción.
func (uc *LedgerUseCase) RecordMovementInTx(
	kardexRepo repository.KardexRepository,
	productRepo repository.ProductRepository,
	in MovementInput,
) (*entity.Kardex, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return applyMovement(kardexRepo, productRepo, in)
}

// applyMovement ejecuta el algoritmo del kardex dentro de una transacción ya
// abierta. El chequeo de stock insuficiente se hace contra el saldo bloqueado
// por GetForUpdate, nunca contra una lectura previa.
func applyMovement(
	kardexRepo repository.KardexRepository,
	productRepo repository.ProductRepository,
	in MovementInput,
) (*entity.Kardex, error) {
	product, err := productRepo.GetForUpdate(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	saldoAnterior := product.StockActual
	var saldoActual, cantidad int64
	switch in.TipoMovimiento {
	case entity.MovementEntrada:
		cantidad = in.Cantidad
		saldoActual = saldoAnterior + cantidad
	case entity.MovementSalida, entity.MovementTransferencia:
		if in.Cantidad > saldoAnterior {
			return nil, domain.ErrInsufficientStock
		}
		cantidad = in.Cantidad
		saldoActual = saldoAnterior - cantidad
	case entity.MovementAjuste:
		// Cantidad trae el nuevo total; la entrada registra la magnitud del delta.
		saldoActual = in.Cantidad
		delta := saldoActual - saldoAnterior
		if delta < 0 {
			delta = -delta
		}
		cantidad = delta
	}

	// El promedio ponderado solo cambia en entradas con costo declarado.
	promedio := product.PrecioCompra
	if in.TipoMovimiento == entity.MovementEntrada && in.CostoUnitario != nil {
		promedio = kardexdom.AverageCost(saldoAnterior, product.PrecioCompra, cantidad, *in.CostoUnitario)
	}

	unit := promedio
	if in.CostoUnitario != nil {
		unit = *in.CostoUnitario
	}

	entry := &entity.Kardex{
		ProductID:         in.ProductID,
		TipoMovimiento:    in.TipoMovimiento,
		DocumentoAsociado: in.DocumentoAsociado,
		Referencia:        in.Referencia,
		Cantidad:          cantidad,
		SaldoAnterior:     saldoAnterior,
		SaldoActual:       saldoActual,
		CostoUnitario:     in.CostoUnitario,
		CostoPromedio:     promedio,
		ValorTotal:        decimal.NewFromInt(cantidad).Mul(unit),
		FechaMovimiento:   time.Now(),
		UsuarioID:         in.UsuarioID,
		Observaciones:     in.Observaciones,
	}
	if err := kardexRepo.Create(entry); err != nil {
		return nil, err
	}
	if err := productRepo.UpdateStockAndCost(product.ID, saldoActual, promedio); err != nil {
		return nil, err
	}
	return entry, nil
}

// AdjustTo ajusta el stock de un producto a un total absoluto.
func (uc *LedgerUseCase) AdjustTo(ctx context.Context, productID string, newStock int64, usuarioID, observaciones string) (*entity.Kardex, error) {
	return uc.RecordMovement(ctx, MovementInput{
		ProductID:         productID,
		TipoMovimiento:    entity.MovementAjuste,
		Cantidad:          newStock,
		UsuarioID:         usuarioID,
		DocumentoAsociado: DocumentoAjuste,
		Observaciones:     observaciones,
	})
}

// TransferOut descuenta stock por traslado a otra ubicación. El destino queda
// en la referencia de la entrada.
func (uc *LedgerUseCase) TransferOut(ctx context.Context, productID string, cantidad int64, destino, usuarioID, observaciones string) (*entity.Kardex, error) {
	return uc.RecordMovement(ctx, MovementInput{
		ProductID:         productID,
		TipoMovimiento:    entity.MovementTransferencia,
		Cantidad:          cantidad,
		UsuarioID:         usuarioID,
		DocumentoAsociado: DocumentoTransferencia,
		Referencia:        fmt.Sprintf("Destino: %s", destino),
		Observaciones:     observaciones,
	})
}
