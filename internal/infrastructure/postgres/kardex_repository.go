package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gdeapp/gde-backend/internal/domain/entity"
	"github.com/gdeapp/gde-backend/internal/domain/repository"
)

var _ repository.KardexRepository = (*KardexRepo)(nil)

// KardexRepo implementación del puerto KardexRepository sobre PostgreSQL
// (usable con pool o tx). Las entradas son inmutables: solo INSERT y SELECT.
type KardexRepo struct {
	q Querier
}

// NewKardexRepository construye el adaptador. Pasar pool o tx (Querier).
func NewKardexRepository(q Querier) *KardexRepo {
	return &KardexRepo{q: q}
}

const kardexColumns = `id, product_id, tipo_movimiento, documento_asociado, referencia,
		cantidad, saldo_anterior, saldo_actual, costo_unitario, costo_promedio, valor_total,
		fecha_movimiento, usuario_id, observaciones`

// Create persiste una entrada de kardex y asigna el ID generado (BIGSERIAL).
func (r *KardexRepo) Create(entry *entity.Kardex) error {
	query := `
		INSERT INTO kardex (product_id, tipo_movimiento, documento_asociado, referencia,
			cantidad, saldo_anterior, saldo_actual, costo_unitario, costo_promedio, valor_total,
			fecha_movimiento, usuario_id, observaciones)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	usuarioID := (*string)(nil)
	if entry.UsuarioID != "" {
		usuarioID = &entry.UsuarioID
	}
	err := r.q.QueryRow(context.Background(), query,
		entry.ProductID, string(entry.TipoMovimiento), entry.DocumentoAsociado, entry.Referencia,
		entry.Cantidad, entry.SaldoAnterior, entry.SaldoActual, entry.CostoUnitario,
		entry.CostoPromedio, entry.ValorTotal, entry.FechaMovimiento, usuarioID, entry.Observaciones,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("create kardex entry: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *KardexRepo) GetByID(id int64) (*entity.Kardex, error) {
	query := `SELECT ` + kardexColumns + ` FROM kardex WHERE id = $1`
	entry, err := scanKardex(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kardex entry: %w", err)
	}
	return entry, nil
}

// ListByProduct lista movimientos de un producto en un rango de fechas,
// más recientes primero; el ID desempata movimientos con la misma fecha.
func (r *KardexRepo) ListByProduct(productID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Kardex, error) {
	query := `SELECT ` + kardexColumns + ` FROM kardex WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if desde != nil {
		query += fmt.Sprintf(" AND fecha_movimiento >= $%d", pos)
		args = append(args, *desde)
		pos++
	}
	if hasta != nil {
		query += fmt.Sprintf(" AND fecha_movimiento <= $%d", pos)
		args = append(args, *hasta)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY fecha_movimiento DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list kardex by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.Kardex
	for rows.Next() {
		entry, err := scanKardex(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kardex entry: %w", err)
		}
		list = append(list, entry)
	}
	return list, rows.Err()
}

// Summary agrega el kardex filtrado en una sola consulta.
func (r *KardexRepo) Summary(f repository.KardexFilter) (*entity.KardexSummary, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(cantidad) FILTER (WHERE tipo_movimiento = 'entrada'), 0),
		       COALESCE(SUM(cantidad) FILTER (WHERE tipo_movimiento = 'salida'), 0),
		       COALESCE(SUM(cantidad) FILTER (WHERE tipo_movimiento = 'ajuste'), 0)
		FROM kardex WHERE 1=1`
	var args []any
	pos := 1
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.TipoMovimiento != "" {
		query += fmt.Sprintf(" AND tipo_movimiento = $%d", pos)
		args = append(args, string(f.TipoMovimiento))
		pos++
	}
	if f.Desde != nil {
		query += fmt.Sprintf(" AND fecha_movimiento >= $%d", pos)
		args = append(args, *f.Desde)
		pos++
	}
	if f.Hasta != nil {
		query += fmt.Sprintf(" AND fecha_movimiento <= $%d", pos)
		args = append(args, *f.Hasta)
		pos++
	}
	var s entity.KardexSummary
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.TotalMovimientos, &s.TotalEntradas, &s.TotalSalidas, &s.TotalAjustes,
	)
	if err != nil {
		return nil, fmt.Errorf("kardex summary: %w", err)
	}
	s.SaldoNeto = s.TotalEntradas - s.TotalSalidas
	return &s, nil
}

func scanKardex(row pgx.Row) (*entity.Kardex, error) {
	var e entity.Kardex
	var tipo string
	var usuarioID *string
	err := row.Scan(
		&e.ID, &e.ProductID, &tipo, &e.DocumentoAsociado, &e.Referencia,
		&e.Cantidad, &e.SaldoAnterior, &e.SaldoActual, &e.CostoUnitario,
		&e.CostoPromedio, &e.ValorTotal, &e.FechaMovimiento, &usuarioID, &e.Observaciones,
	)
	if err != nil {
		return nil, err
	}
	e.TipoMovimiento = entity.MovementKind(tipo)
	if usuarioID != nil {
		e.UsuarioID = *usuarioID
	}
	return &e, nil
}
