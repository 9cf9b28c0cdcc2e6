package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/abastio/inventario-api/internal/domain"
	"github.com/abastio/inventario-api/internal/domain/entity"
	"github.com/abastio/inventario-api/internal/domain/repository"
)

var _ repository.LoteRepository = (*LoteRepo)(nil)

// LoteRepo implementación de LoteRepository sobre PostgreSQL (usable con pool o tx).
type LoteRepo struct {
	q Querier
}

// NewLoteRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLoteRepository(q Querier) *LoteRepo {
	return &LoteRepo{q: q}
}

const loteColumns = `id, producto_id, almacen_id, numero_lote, cantidad_actual, fecha_caducidad, costo_unitario, created_at, updated_at`

// Create persiste un lote nuevo.
func (r *LoteRepo) Create(l *entity.Lote) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO lotes (` + loteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.ProductoID, l.AlmacenID, l.NumeroLote, l.CantidadActual,
		l.FechaCaducidad, l.CostoUnitario, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create lote: %w", err)
	}
	return nil
}

// GetForUpdate busca y bloquea el lote por (producto, bodega, numero_lote).
// Devuelve nil si no existe.
func (r *LoteRepo) GetForUpdate(productoID, almacenID, numeroLote string) (*entity.Lote, error) {
	query := `
		SELECT ` + loteColumns + `
		FROM lotes
		WHERE producto_id = $1 AND almacen_id = $2 AND numero_lote = $3
		FOR UPDATE`
	var l entity.Lote
	err := scanLote(r.q.QueryRow(context.Background(), query, productoID, almacenID, numeroLote), &l)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote for update: %w", err)
	}
	return &l, nil
}

// PrimeroPorCaducidad devuelve, bloqueado, el lote con existencia y fecha de
// caducidad más próxima. Devuelve nil si no queda ninguno.
func (r *LoteRepo) PrimeroPorCaducidad(productoID, almacenID string) (*entity.Lote, error) {
	query := `
		SELECT ` + loteColumns + `
		FROM lotes
		WHERE producto_id = $1 AND almacen_id = $2 AND cantidad_actual > 0
		ORDER BY fecha_caducidad ASC, created_at ASC
		LIMIT 1
		FOR UPDATE`
	var l entity.Lote
	err := scanLote(r.q.QueryRow(context.Background(), query, productoID, almacenID), &l)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("primero por caducidad: %w", err)
	}
	return &l, nil
}

// ActualizarCantidad fija la cantidad actual del lote.
func (r *LoteRepo) ActualizarCantidad(id string, cantidad int64) error {
	query := `UPDATE lotes SET cantidad_actual = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, cantidad)
	if err != nil {
		return fmt.Errorf("actualizar cantidad lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListPorProducto lista los lotes de un producto en todas las bodegas.
func (r *LoteRepo) ListPorProducto(productoID string) ([]*entity.Lote, error) {
	query := `
		SELECT ` + loteColumns + `
		FROM lotes WHERE producto_id = $1
		ORDER BY fecha_caducidad ASC`
	rows, err := r.q.Query(context.Background(), query, productoID)
	if err != nil {
		return nil, fmt.Errorf("list lotes: %w", err)
	}
	defer rows.Close()
	return scanLotes(rows)
}

// ListPorVencer lista lotes con existencia que caducan dentro de `dias`.
func (r *LoteRepo) ListPorVencer(dias, limit, offset int) ([]*entity.Lote, error) {
	query := `
		SELECT ` + loteColumns + `
		FROM lotes
		WHERE cantidad_actual > 0 AND fecha_caducidad <= now() + ($1 || ' days')::interval
		ORDER BY fecha_caducidad ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, dias, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list lotes por vencer: %w", err)
	}
	defer rows.Close()
	return scanLotes(rows)
}

// SumPorProductoAlmacen suma la existencia en lotes de un producto en una bodega.
func (r *LoteRepo) SumPorProductoAlmacen(productoID, almacenID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(cantidad_actual), 0)
		FROM lotes WHERE producto_id = $1 AND almacen_id = $2`
	var n int64
	err := r.q.QueryRow(context.Background(), query, productoID, almacenID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sum lotes: %w", err)
	}
	return n, nil
}

func scanLote(row pgx.Row, l *entity.Lote) error {
	return row.Scan(
		&l.ID, &l.ProductoID, &l.AlmacenID, &l.NumeroLote, &l.CantidadActual,
		&l.FechaCaducidad, &l.CostoUnitario, &l.CreatedAt, &l.UpdatedAt,
	)
}

func scanLotes(rows pgx.Rows) ([]*entity.Lote, error) {
	var list []*entity.Lote
	for rows.Next() {
		var l entity.Lote
		if err := scanLote(rows, &l); err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
