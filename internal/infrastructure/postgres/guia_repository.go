package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gdeapp/gde-backend/internal/domain"
	"github.com/gdeapp/gde-backend/internal/domain/entity"
	"github.com/gdeapp/gde-backend/internal/domain/repository"
)

var _ repository.GuiaRepository = (*GuiaRepo)(nil)

// GuiaRepo implementación del puerto GuiaRepository sobre PostgreSQL (usable con pool o tx).
type GuiaRepo struct {
	q Querier
}

// NewGuiaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGuiaRepository(q Querier) *GuiaRepo {
	return &GuiaRepo{q: q}
}

const guiaColumns = `id, codigo, cliente_nombre, destino, estado, observaciones, created_by, created_at, updated_at`

// Create persiste una guía nueva.
func (r *GuiaRepo) Create(guia *entity.Guia) error {
	query := `
		INSERT INTO guias (id, codigo, cliente_nombre, destino, estado, observaciones, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	createdBy := (*string)(nil)
	if guia.CreatedBy != "" {
		createdBy = &guia.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		guia.ID, guia.Codigo, guia.ClienteNombre, guia.Destino, guia.Estado,
		guia.Observaciones, createdBy, guia.CreatedAt, guia.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert guia: %w", err)
	}
	return nil
}

// GetByID obtiene una guía por ID.
func (r *GuiaRepo) GetByID(id string) (*entity.Guia, error) {
	query := `SELECT ` + guiaColumns + ` FROM guias WHERE id = $1`
	guia, err := scanGuia(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get guia: %w", err)
	}
	return guia, nil
}

// GetByCodigo obtiene una guía por código.
func (r *GuiaRepo) GetByCodigo(codigo string) (*entity.Guia, error) {
	query := `SELECT ` + guiaColumns + ` FROM guias WHERE codigo = $1`
	guia, err := scanGuia(r.q.QueryRow(context.Background(), query, codigo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get guia by codigo: %w", err)
	}
	return guia, nil
}

// List lista guías con filtro opcional por estado, más recientes primero.
func (r *GuiaRepo) List(estado string, limit, offset int) ([]*entity.Guia, error) {
	query := `SELECT ` + guiaColumns + ` FROM guias`
	var args []any
	pos := 1
	if estado != "" {
		query += fmt.Sprintf(" WHERE estado = $%d", pos)
		args = append(args, estado)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list guias: %w", err)
	}
	defer rows.Close()
	var list []*entity.Guia
	for rows.Next() {
		guia, err := scanGuia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guia: %w", err)
		}
		list = append(list, guia)
	}
	return list, rows.Err()
}

// CreateItem persiste una línea de guía.
func (r *GuiaRepo) CreateItem(item *entity.GuiaItem) error {
	query := `
		INSERT INTO guia_items (id, guia_id, product_id, cantidad, precio_unitario, descuento, subtotal, kardex_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.GuiaID, item.ProductID, item.Cantidad,
		item.PrecioUnitario, item.Descuento, item.Subtotal, item.KardexID, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert guia item: %w", err)
	}
	return nil
}

// GetItemByID obtiene una línea por ID.
func (r *GuiaRepo) GetItemByID(id string) (*entity.GuiaItem, error) {
	query := `
		SELECT id, guia_id, product_id, cantidad, precio_unitario, descuento, subtotal, kardex_id, created_at
		FROM guia_items WHERE id = $1`
	var it entity.GuiaItem
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&it.ID, &it.GuiaID, &it.ProductID, &it.Cantidad,
		&it.PrecioUnitario, &it.Descuento, &it.Subtotal, &it.KardexID, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get guia item: %w", err)
	}
	return &it, nil
}

// ListItems lista las líneas de una guía.
func (r *GuiaRepo) ListItems(guiaID string) ([]*entity.GuiaItem, error) {
	query := `
		SELECT id, guia_id, product_id, cantidad, precio_unitario, descuento, subtotal, kardex_id, created_at
		FROM guia_items WHERE guia_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, guiaID)
	if err != nil {
		return nil, fmt.Errorf("list guia items: %w", err)
	}
	defer rows.Close()
	var list []*entity.GuiaItem
	for rows.Next() {
		var it entity.GuiaItem
		if err := rows.Scan(
			&it.ID, &it.GuiaID, &it.ProductID, &it.Cantidad,
			&it.PrecioUnitario, &it.Descuento, &it.Subtotal, &it.KardexID, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan guia item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// DeleteItem borra la línea. La reposición de stock la registra el caso de uso
// vía kardex, nunca este repositorio.
func (r *GuiaRepo) DeleteItem(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM guia_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete guia item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanGuia(row pgx.Row) (*entity.Guia, error) {
	var g entity.Guia
	var createdBy *string
	err := row.Scan(
		&g.ID, &g.Codigo, &g.ClienteNombre, &g.Destino, &g.Estado,
		&g.Observaciones, &createdBy, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		g.CreatedBy = *createdBy
	}
	return &g, nil
}
