package kardex_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appkardex "github.com/gdeapp/gde-backend/internal/application/kardex"
	"github.com/gdeapp/gde-backend/internal/domain"
	"github.com/gdeapp/gde-backend/internal/domain/entity"
	"github.com/gdeapp/gde-backend/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// memStore estado compartido de los fakes. El mutex lo toma el txRunner para
// emular la serialización por bloqueo de fila de PostgreSQL; por error se
// restaura el snapshot (rollback).
type memStore struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	entries  []*entity.Kardex
	nextID   int64
}

func newMemStore(products ...*entity.Product) *memStore {
	s := &memStore{products: make(map[string]*entity.Product), nextID: 1}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

func (s *memStore) snapshot() ([]*entity.Kardex, map[string]*entity.Product) {
	entries := make([]*entity.Kardex, len(s.entries))
	copy(entries, s.entries)
	products := make(map[string]*entity.Product, len(s.products))
	for id, p := range s.products {
		cp := *p
		products[id] = &cp
	}
	return entries, products
}

type memKardexRepo struct{ s *memStore }

func (r *memKardexRepo) Create(entry *entity.Kardex) error {
	entry.ID = r.s.nextID
	r.s.nextID++
	cp := *entry
	r.s.entries = append(r.s.entries, &cp)
	return nil
}

func (r *memKardexRepo) GetByID(id int64) (*entity.Kardex, error) {
	for _, e := range r.s.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memKardexRepo) ListByProduct(productID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Kardex, error) {
	var out []*entity.Kardex
	// Más recientes primero: recorremos en reversa del orden de inserción.
	for i := len(r.s.entries) - 1; i >= 0; i-- {
		e := r.s.entries[i]
		if e.ProductID != productID {
			continue
		}
		if desde != nil && e.FechaMovimiento.Before(*desde) {
			continue
		}
		if hasta != nil && e.FechaMovimiento.After(*hasta) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memKardexRepo) Summary(f repository.KardexFilter) (*entity.KardexSummary, error) {
	sum := &entity.KardexSummary{}
	for _, e := range r.s.entries {
		if f.ProductID != "" && e.ProductID != f.ProductID {
			continue
		}
		if f.TipoMovimiento != "" && e.TipoMovimiento != f.TipoMovimiento {
			continue
		}
		if f.Desde != nil && e.FechaMovimiento.Before(*f.Desde) {
			continue
		}
		if f.Hasta != nil && e.FechaMovimiento.After(*f.Hasta) {
			continue
		}
		sum.TotalMovimientos++
		switch e.TipoMovimiento {
		case entity.MovementEntrada:
			sum.TotalEntradas += e.Cantidad
		case entity.MovementSalida:
			sum.TotalSalidas += e.Cantidad
		case entity.MovementAjuste:
			sum.TotalAjustes += e.Cantidad
		}
	}
	sum.SaldoNeto = sum.TotalEntradas - sum.TotalSalidas
	return sum, nil
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// GetForUpdate en el fake es una lectura simple: la exclusión la garantiza el
// mutex que sostiene el txRunner durante toda la transacción.
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *memProductRepo) UpdateStockAndCost(id string, stockActual int64, precioCompra decimal.Decimal) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockActual = stockActual
	p.PrecioCompra = precioCompra
	p.UpdatedAt = time.Now()
	return nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) List(search string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if search != "" && !strings.Contains(p.Code, search) && !strings.Contains(p.Name, search) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// memTxRunner serializa las transacciones con un mutex y restaura el snapshot
// si fn devuelve error, como haría un ROLLBACK.
type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(repository.KardexRepository, repository.ProductRepository) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	entries, products := t.s.snapshot()
	if err := fn(&memKardexRepo{s: t.s}, &memProductRepo{s: t.s}); err != nil {
		t.s.entries = entries
		t.s.products = products
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const testProductID = "11111111-1111-1111-1111-111111111111"

func newTestLedger(products ...*entity.Product) (*appkardex.LedgerUseCase, *memStore) {
	s := newMemStore(products...)
	uc := appkardex.NewLedgerUseCase(&memTxRunner{s: s}, &memKardexRepo{s: s}, &memProductRepo{s: s})
	return uc, s
}

func productWithStock(stock int64, costo string) *entity.Product {
	return &entity.Product{
		ID:           testProductID,
		Code:         "PRD-001",
		Name:         "Cemento gris 50kg",
		StockActual:  stock,
		PrecioCompra: decimal.RequireFromString(costo),
		Status:       entity.ProductStatusActive,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Tests RecordMovement — entrada / salida / transferencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaActualizaSaldoYPromedio(t *testing.T) {
	uc, s := newTestLedger(productWithStock(50, "100"))

	costo := dec("130")
	entry, err := uc.RecordMovement(context.Background(), appkardex.MovementInput{
		ProductID:      testProductID,
		TipoMovimiento: entity.MovementEntrada,
		Cantidad:       20,
		CostoUnitario:  &costo,
		UsuarioID:      "u-1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(50), entry.SaldoAnterior)
	assert.Equal(t, int64(70), entry.SaldoActual)
	assert.Equal(t, int64(20), entry.Cantidad)
	// (50*100 + 20*130) / 70 = 108.571428...
	assert.Equal(t, "108.57", entry.CostoPromedio.Round(2).String(),
		"el promedio ponderado debe recalcularse con la entrada")
	assert.Equal(t, "2600", entry.ValorTotal.String(), "valor_total = cantidad * costo_unitario")

	p := s.products[testProductID]
	assert.Equal(t, int64(70), p.StockActual, "el contador del producto debe quedar sincronizado")
	assert.Equal(t, entry.CostoPromedio.String(), p.PrecioCompra.String())
}

func TestRecordMovement_EntradaSinCostoConservaPromedio(t *testing.T) {
	uc, s := newTestLedger(productWithStock(50, "100"))

	entry, err := uc.RecordMovement(context.Background(), appkardex.MovementInput{
		ProductID:      testProductID,
		TipoMovimiento: entity.MovementEntrada,
		Cantidad:       10,
	})
	require.NoError(t, err)

	assert.Equal(t, "100", entry.CostoPromedio.String(),
		"entrada sin costo declarado no toca el promedio")
	assert.Nil(t, entry.CostoUnitario)
	assert.Equal(t, "1000", entry.ValorTotal.String(), "sin costo declarado se valora al promedio")
	assert.Equal(t, "100", s.products[testProductID].PrecioCompra.String())
}

func TestRecordMovement_SalidaDescuentaSinTocarPromedio(t *testing.T) {
	uc, s := newTestLedger(productWithStock(50, "100"))

	entry, err := uc.RecordMovement(context.Background(), appkardex.MovementInput{
		ProductID:      testProductID,
		TipoMovimiento: entity.MovementSalida,
		Cantidad:       30,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(50), entry.SaldoAnterior)
	assert.Equal(t, int64(20), entry.SaldoActual)
	assert.Equal(t, "100", entry.CostoPromedio.String(), "las salidas nunca cambian el promedio")
	assert.Equal(t, "3000", entry.ValorTotal.String(), "la salida se valora al promedio vigente")
	assert.Equal(t, int64(20), s.products[testProductID].StockActual)
}

func TestRecordMovement_SalidaHastaCeroYLuegoRechaza(t *testing.T) {
	uc, s := newTestLedger(productWithStock(5, "10"))
	ctx := context.Background()

	// Vaciar exactamente el stock es válido.
	entry, err := uc.RecordMovement(ctx, appkardex.MovementInput{
		ProductID:      testProductID,
		TipoMovimiento: entity.MovementSalida,
		Cantidad:       5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), entry.SaldoActual)

	// Una unidad más debe rechazarse sin tocar nada.
	_, err = uc.RecordMovement(ctx, appkardex.MovementInput{
		ProductID:      testProductID,
		TipoMovimiento: entity.MovementSalida,
		Cantidad:       1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(0), s.products[testProductID].StockActual)
	assert.Len(t, s.entries, 1, "el movimiento rechazado no debe dejar entrada en el libro")
}

func TestRecordMovement_StockInsuficienteNoAplicaNada(t *testing.T) {
	uc, s := newTestLedger(productWithStock(10, "100"))

	_, err := uc.RecordMovement(context.Background(), appkardex.MovementInput{
		ProductID:      testProductID,
		TipoMovimiento: entity.MovementTransferencia,
		Cantidad:       11,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), s.products[testProductID].StockActual)
	assert.Empty(t, s.entries)
}

func TestRecordMovement_ProductoInexistente(t *testing.T) {
	uc, _ := newTestLedger(productWithStock(10, "100"))

	_, err := uc.RecordMovement(context.Background(), appkardex.MovementInput{
		ProductID:      "no-existe",
		TipoMovimiento: entity.MovementEntrada,
		Cantidad:       1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ajuste (total absoluto)
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustTo_RegistraMagnitudDelDelta(t *testing.T) {
	uc, s := newTestLedger(productWithStock(60, "100"))

	entry, err := uc.AdjustTo(context.Background(), testProductID, 45, "u-1", "conteo físico")
	require.NoError(t, err)

	assert.Equal(t, entity.MovementAjuste, entry.TipoMovimiento)
	assert.Equal(t, int64(60), entry.SaldoAnterior)
	assert.Equal(t, int64(45), entry.SaldoActual)
	assert.Equal(t, int64(15), entry.Cantidad, "cantidad registra |nuevo - anterior|")
	assert.Equal(t, "100", entry.CostoPromedio.String(), "el ajuste no cambia el promedio")
	assert.Equal(t, appkardex.DocumentoAjuste, entry.DocumentoAsociado)
	assert.Equal(t, int64(45), s.products[testProductID].StockActual)
}

func TestAdjustTo_ACeroEsValido(t *testing.T) {
	uc, s := newTestLedger(productWithStock(7, "10"))

	entry, err := uc.AdjustTo(context.Background(), testProductID, 0, "u-1", "merma total")
	require.NoError(t, err)
	assert.Equal(t, int64(0), entry.SaldoActual)
	assert.Equal(t, int64(7), entry.Cantidad)
	assert.Equal(t, int64(0), s.products[testProductID].StockActual)
}

func TestAdjustTo_NegativoRechazado(t *testing.T) {
	uc, _ := newTestLedger(productWithStock(7, "10"))

	_, err := uc.AdjustTo(context.Background(), testProductID, -1, "u-1", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests transferencia
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferOut_DescuentaYAnotaDestino(t *testing.T) {
	uc, s := newTestLedger(productWithStock(30, "50"))

	entry, err := uc.TransferOut(context.Background(), testProductID, 12, "Bodega Norte", "u-1", "")
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTransferencia, entry.TipoMovimiento)
	assert.Equal(t, int64(18), entry.SaldoActual)
	assert.Equal(t, "Destino: Bodega Norte", entry.Referencia)
	assert.Equal(t, int64(18), s.products[testProductID].StockActual)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests validación
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_Validacion(t *testing.T) {
	uc, _ := newTestLedger(productWithStock(10, "100"))
	ctx := context.Background()
	negativo := dec("-1")

	cases := []struct {
		name string
		in   appkardex.MovementInput
	}{
		{"tipo inválido", appkardex.MovementInput{ProductID: testProductID, TipoMovimiento: "devolucion", Cantidad: 1}},
		{"producto vacío", appkardex.MovementInput{TipoMovimiento: entity.MovementEntrada, Cantidad: 1}},
		{"entrada con cantidad cero", appkardex.MovementInput{ProductID: testProductID, TipoMovimiento: entity.MovementEntrada, Cantidad: 0}},
		{"salida con cantidad negativa", appkardex.MovementInput{ProductID: testProductID, TipoMovimiento: entity.MovementSalida, Cantidad: -3}},
		{"costo unitario negativo", appkardex.MovementInput{ProductID: testProductID, TipoMovimiento: entity.MovementEntrada, Cantidad: 1, CostoUnitario: &negativo}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RecordMovement(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidMovement)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests cadena de saldos y promedio desde cero
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_CadenaDeSaldosEncadenada(t *testing.T) {
	uc, _ := newTestLedger(productWithStock(0, "0"))
	ctx := context.Background()

	costoA := dec("100")
	costoB := dec("130")
	_, err := uc.RecordMovement(ctx, appkardex.MovementInput{
		ProductID: testProductID, TipoMovimiento: entity.MovementEntrada, Cantidad: 50, CostoUnitario: &costoA,
	})
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, appkardex.MovementInput{
		ProductID: testProductID, TipoMovimiento: entity.MovementEntrada, Cantidad: 20, CostoUnitario: &costoB,
	})
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, appkardex.MovementInput{
		ProductID: testProductID, TipoMovimiento: entity.MovementSalida, Cantidad: 30,
	})
	require.NoError(t, err)
	_, err = uc.AdjustTo(ctx, testProductID, 35, "u-1", "conteo")
	require.NoError(t, err)

	// Más recientes primero; en orden cronológico cada saldo_actual debe coincidir
	// con el saldo_anterior del siguiente.
	entries, err := uc.ListMovements(testProductID, nil, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i := len(entries) - 1; i > 0; i-- {
		assert.Equal(t, entries[i].SaldoActual, entries[i-1].SaldoAnterior,
			"la cadena saldo_actual -> saldo_anterior no debe tener huecos")
	}

	// Primera entrada sobre saldo cero: el promedio pasa a ser el costo de esa entrada.
	primera := entries[len(entries)-1]
	assert.Equal(t, int64(0), primera.SaldoAnterior)
	assert.Equal(t, "100", primera.CostoPromedio.String())

	// Segunda entrada: (50*100 + 20*130) / 70 = 108.571...
	segunda := entries[len(entries)-2]
	assert.Equal(t, "108.57", segunda.CostoPromedio.Round(2).String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests concurrencia — dos retiros que compiten por el mismo saldo
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_RetirosConcurrentesNuncaNegativo(t *testing.T) {
	uc, s := newTestLedger(productWithStock(10, "100"))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	cantidades := []int64{6, 7}
	for i, c := range cantidades {
		wg.Add(1)
		go func(i int, c int64) {
			defer wg.Done()
			_, errs[i] = uc.RecordMovement(ctx, appkardex.MovementInput{
				ProductID:      testProductID,
				TipoMovimiento: entity.MovementSalida,
				Cantidad:       c,
			})
		}(i, c)
	}
	wg.Wait()

	// Exactamente uno debe ganar; con stock 10 no caben 6 y 7 a la vez.
	var oks, insuficientes int
	for _, err := range errs {
		switch {
		case err == nil:
			oks++
		case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
			insuficientes++
		}
	}
	assert.Equal(t, 1, oks, "solo un retiro debe aplicarse")
	assert.Equal(t, 1, insuficientes)

	stock := s.products[testProductID].StockActual
	assert.True(t, stock == 3 || stock == 4, "el saldo final debe ser 10-6 o 10-7, nunca negativo")
	assert.Len(t, s.entries, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Summarize / ListMovements / Report
// ──────────────────────────────────────────────────────────────────────────────

func TestSummarize_TotalesPorTipo(t *testing.T) {
	uc, _ := newTestLedger(productWithStock(0, "0"))
	ctx := context.Background()

	costo := dec("10")
	_, err := uc.RecordMovement(ctx, appkardex.MovementInput{ProductID: testProductID, TipoMovimiento: entity.MovementEntrada, Cantidad: 100, CostoUnitario: &costo})
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, appkardex.MovementInput{ProductID: testProductID, TipoMovimiento: entity.MovementSalida, Cantidad: 40})
	require.NoError(t, err)
	_, err = uc.AdjustTo(ctx, testProductID, 55, "u-1", "conteo")
	require.NoError(t, err)

	sum, err := uc.Summarize(repository.KardexFilter{ProductID: testProductID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), sum.TotalMovimientos)
	assert.Equal(t, int64(100), sum.TotalEntradas)
	assert.Equal(t, int64(40), sum.TotalSalidas)
	assert.Equal(t, int64(5), sum.TotalAjustes)
	assert.Equal(t, int64(60), sum.SaldoNeto, "saldo neto = entradas - salidas")
}

func TestSummarize_TipoInvalidoRechazado(t *testing.T) {
	uc, _ := newTestLedger()
	_, err := uc.Summarize(repository.KardexFilter{TipoMovimiento: "devolucion"})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
}

func TestListMovements_PaginacionAcotada(t *testing.T) {
	uc, _ := newTestLedger(productWithStock(0, "0"))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := uc.RecordMovement(ctx, appkardex.MovementInput{
			ProductID: testProductID, TipoMovimiento: entity.MovementEntrada, Cantidad: 1,
		})
		require.NoError(t, err)
	}

	// limit fuera de rango se acota, no se rechaza.
	entries, err := uc.ListMovements(testProductID, nil, nil, -10, -5)
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	entries, err = uc.ListMovements(testProductID, nil, nil, 2, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = uc.ListMovements(testProductID, nil, nil, 2, 4)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestProductMovementsReport_ProductoInexistente(t *testing.T) {
	uc, _ := newTestLedger()
	_, _, err := uc.ProductMovementsReport("no-existe", 30)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductMovementsReport_DevuelveCabeceraYMovimientos(t *testing.T) {
	uc, _ := newTestLedger(productWithStock(0, "0"))
	ctx := context.Background()
	costo := dec("25")
	_, err := uc.RecordMovement(ctx, appkardex.MovementInput{
		ProductID: testProductID, TipoMovimiento: entity.MovementEntrada, Cantidad: 10, CostoUnitario: &costo,
	})
	require.NoError(t, err)

	product, movements, err := uc.ProductMovementsReport(testProductID, 0) // days <= 0 usa el default
	require.NoError(t, err)
	assert.Equal(t, "PRD-001", product.Code)
	assert.Equal(t, int64(10), product.StockActual)
	require.Len(t, movements, 1)
	assert.Equal(t, entity.MovementEntrada, movements[0].TipoMovimiento)
}
